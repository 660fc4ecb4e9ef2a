package match

import "time"

// Status is the lifecycle state of a match session.
type Status int

const (
	Idle Status = iota
	Searching
	Connecting
	Found
	// Cancelled is reported to observers when a pending phase is pre-empted.
	// The session settles in Idle right after it.
	Cancelled
)

const (
	// SearchingPhase is how long a session stays in Searching.
	SearchingPhase = 2500 * time.Millisecond
	// ConnectingPhase is how long a session stays in Connecting before Found.
	ConnectingPhase = 2000 * time.Millisecond
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case Connecting:
		return "connecting"
	case Found:
		return "found"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Pending reports whether a phase timer is running in this state.
func (s Status) Pending() bool {
	return s == Searching || s == Connecting
}
