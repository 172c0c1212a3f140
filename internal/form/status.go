package form

// StatusKind enumerates the lifecycle of one submit attempt.
type StatusKind int

const (
	Idle StatusKind = iota
	InFlight
	Succeeded
	Failed
)

func (k StatusKind) String() string {
	switch k {
	case Idle:
		return "idle"
	case InFlight:
		return "in_flight"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is the submission status of a form. Message is only meaningful for
// Succeeded and Failed.
type Status struct {
	Kind    StatusKind
	Message string
}

// IsInFlight reports whether a submission is pending.
func (s Status) IsInFlight() bool { return s.Kind == InFlight }

// IsSucceeded reports whether the last submission succeeded.
func (s Status) IsSucceeded() bool { return s.Kind == Succeeded }

// IsFailed reports whether the last submission failed.
func (s Status) IsFailed() bool { return s.Kind == Failed }
