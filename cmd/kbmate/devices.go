package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rkmax/keyboard-mate/internal/device"
	"github.com/spf13/cobra"
)

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List input devices and which one reports LEDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := device.List(device.New())
			if err != nil {
				return err
			}
			printDevices(cmd.OutOrStdout(), infos)
			return nil
		},
	}
}

func printDevices(w io.Writer, infos []device.Info) {
	if len(infos) == 0 {
		fmt.Fprintln(w, "No input devices found")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PATH", "NAME", "LEDS", "")

	for _, info := range infos {
		name := info.Name
		if info.Err != nil {
			name = "(" + info.Err.Error() + ")"
		}
		leds := "no"
		if info.HasLEDs {
			leds = "yes"
		}
		mark := ""
		if info.Selected {
			mark = "selected"
		}
		t.Row(info.Path, name, leds, mark)
	}

	fmt.Fprintln(w, t.Render())
}
