package model

// Phase is where the search box is in its lifecycle:
// Idle -> Typing -> {SuggestionsShown | SuggestionsEmpty} -> Typing | Submitted.
type Phase int

const (
	PhaseIdle Phase = iota
	// PhaseTyping covers the debounce window and the request in flight.
	PhaseTyping
	PhaseSuggestionsShown
	PhaseSuggestionsEmpty
	PhaseSubmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseTyping:
		return "typing"
	case PhaseSuggestionsShown:
		return "suggestions"
	case PhaseSuggestionsEmpty:
		return "no-suggestions"
	case PhaseSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

func listPhase(list []string) Phase {
	if len(list) == 0 {
		return PhaseSuggestionsEmpty
	}
	return PhaseSuggestionsShown
}
