package contactclient

// Phase is the UI state of the contact form
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Status is what the form renders. Message is only set in PhaseError.
type Status struct {
	Phase   Phase
	Message string
}

// EventKind identifies a form lifecycle event
type EventKind int

const (
	EventSubmitClicked EventKind = iota
	EventHoneypotTripped
	EventValidationFailed
	EventResponseSucceeded
	EventResponseFailed
	EventResetTimerFired
)

// Event drives Transition. Message carries the error text for
// EventValidationFailed and EventResponseFailed.
type Event struct {
	Kind    EventKind
	Message string
}

func SubmitClicked() Event { return Event{Kind: EventSubmitClicked} }
func HoneypotTripped() Event { return Event{Kind: EventHoneypotTripped} }
func ValidationFailed(msg string) Event { return Event{Kind: EventValidationFailed, Message: msg} }
func ResponseSucceeded() Event { return Event{Kind: EventResponseSucceeded} }
func ResponseFailed(msg string) Event { return Event{Kind: EventResponseFailed, Message: msg} }
func ResetTimerFired() Event { return Event{Kind: EventResetTimerFired} }

// Transition returns the status after e. It has no side effects.
//
// A submit while loading is ignored. Outcome events only apply while loading,
// so a late response cannot overwrite a newer state. The reset timer only
// moves Error back to Idle; Success stays visible.
func Transition(s Status, e Event) Status {
	switch e.Kind {
	case EventSubmitClicked:
		if s.Phase == PhaseLoading {
			return s
		}
		return Status{Phase: PhaseLoading}

	case EventHoneypotTripped, EventResponseSucceeded:
		if s.Phase != PhaseLoading {
			return s
		}
		return Status{Phase: PhaseSuccess}

	case EventValidationFailed, EventResponseFailed:
		if s.Phase != PhaseLoading {
			return s
		}
		return Status{Phase: PhaseError, Message: e.Message}

	case EventResetTimerFired:
		if s.Phase != PhaseError {
			return s
		}
		return Status{Phase: PhaseIdle}
	}

	return s
}
