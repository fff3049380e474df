package tui

// ViewState is which of the mutually exclusive form views is showing.
type ViewState int

const (
	StateIdle ViewState = iota
	StateLoading
	StateResult
	StateError
)

func (s ViewState) String() string {
	switch s {
	case StateLoading:
		return "CHECKING"
	case StateResult:
		return "RESULT"
	case StateError:
		return "ERROR"
	default:
		return "IDLE"
	}
}

// State derives the current view from the form fields. An error always
// hides a prediction.
func (m Model) State() ViewState {
	switch {
	case m.loading:
		return StateLoading
	case m.err != "":
		return StateError
	case m.prediction != nil:
		return StateResult
	default:
		return StateIdle
	}
}
