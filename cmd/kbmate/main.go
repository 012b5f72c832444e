package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rkmax/keyboard-mate/internal/config"
	"github.com/rkmax/keyboard-mate/internal/indicator"
	"github.com/rkmax/keyboard-mate/internal/inject"
	"github.com/rkmax/keyboard-mate/internal/logging"
	"github.com/rkmax/keyboard-mate/internal/monitor"
	"github.com/rkmax/keyboard-mate/internal/notify"
	"github.com/rkmax/keyboard-mate/internal/ui"
	"github.com/spf13/cobra"
)

var version = "dev"

type options struct {
	configPath string
	initConfig bool
	force      string
	noTUI      bool
	notify     bool
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "kbmate [caps|nums]",
		Short:         "Show the state of Caps Lock or Num Lock",
		Long:          "kbmate watches a keyboard lock indicator through evdev and shows its state.",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config file")
	flags.BoolVar(&opts.initConfig, "init", false, "Generate example config file")
	flags.StringVar(&opts.force, "force", "", "Force the indicator on or off at startup (on|off)")
	flags.BoolVar(&opts.noTUI, "no-tui", false, "Print state changes instead of running the TUI")
	flags.BoolVar(&opts.notify, "notify", false, "Send desktop notifications on changes (with --no-tui)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newDevicesCmd())
	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	out := cmd.OutOrStdout()

	if opts.initConfig {
		path, err := config.GenerateExampleConfig(opts.configPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Created config at %s\n", path)
		return nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, cmd, opts, args); err != nil {
		return err
	}

	logger, closer, err := newLogger(cfg, !opts.noTUI)
	if err != nil {
		return err
	}
	defer closer.Close()

	mon, err := newMonitor(cfg, logger)
	if err != nil {
		return err
	}
	if err := mon.Start(); err != nil {
		return err
	}
	defer mon.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interval := time.Duration(cfg.Presenter.TickInterval)
	if opts.noTUI {
		var sink stateSink
		if cfg.Presenter.Notify {
			n, err := notify.New()
			if err != nil {
				logger.Warn("desktop notifications disabled", "err", err)
			} else {
				defer n.Close()
				sink = n
			}
		}
		return runHeadless(ctx, mon, headlessConfig{
			kind:     cfg.Indicator.Kind,
			interval: interval,
			out:      out,
			sink:     sink,
			logger:   logger,
		})
	}

	model := ui.NewModel(mon, cfg.Indicator.Kind, interval, cfg.Presenter.History)
	p := tea.NewProgram(model, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	mon.Stop()
	return mon.Err()
}

// applyFlags overrides config values with command line input.
func applyFlags(cfg *config.Config, cmd *cobra.Command, opts *options, args []string) error {
	if len(args) == 1 {
		kind, err := indicator.Parse(args[0])
		if err != nil {
			return err
		}
		cfg.Indicator.Kind = kind
	}

	if opts.force != "" {
		on, err := parseForce(opts.force)
		if err != nil {
			return err
		}
		cfg.Indicator.ForceInitialState = &on
	}

	if cmd.Flags().Changed("notify") {
		cfg.Presenter.Notify = opts.notify
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func parseForce(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --force value %q (want on or off)", s)
	}
}

// newLogger logs to stderr, or to a file when the TUI owns the terminal.
func newLogger(cfg *config.Config, tui bool) (*slog.Logger, io.Closer, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}

	path := cfg.Log.File
	if path == "" && tui {
		path = logging.DefaultLogPath()
	}

	logger, closer, err := logging.New(logging.Config{Level: level, Format: format, FilePath: path})
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return logger, closer, nil
}

func newMonitor(cfg *config.Config, logger *slog.Logger) (*monitor.Monitor, error) {
	opts := []monitor.Option{
		monitor.WithLogger(logger),
		monitor.WithPollTimeout(time.Duration(cfg.Monitor.PollTimeout)),
		monitor.WithSettleDelay(time.Duration(cfg.Monitor.SettleDelay)),
	}

	if force := cfg.Indicator.ForceInitialState; force != nil {
		inj, err := inject.New(cfg.Injector.Backend, time.Duration(cfg.Injector.Warmup))
		if err != nil {
			return nil, err
		}
		opts = append(opts, monitor.WithInjector(inj), monitor.WithInitialState(*force))
	}

	return monitor.New(cfg.Indicator.Kind, opts...), nil
}
