package monitor

// Lifecycle is the state of a Monitor.
type Lifecycle int32

const (
	Created Lifecycle = iota
	Running
	StopRequested
	Stopped
)

func (l Lifecycle) String() string {
	switch l {
	case Created:
		return "created"
	case Running:
		return "running"
	case StopRequested:
		return "stop requested"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}
