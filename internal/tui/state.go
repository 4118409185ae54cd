package tui

// ViewState is the top-level screen of the browser.
type ViewState int

// View states.
const (
	ViewStateLoading ViewState = iota
	ViewStateList
	ViewStateDetail
	ViewStateQuitting
	ViewStateError
)

func (s ViewState) String() string {
	switch s {
	case ViewStateLoading:
		return "loading"
	case ViewStateList:
		return "list"
	case ViewStateDetail:
		return "detail"
	case ViewStateQuitting:
		return "quitting"
	case ViewStateError:
		return "error"
	default:
		return "unknown"
	}
}

// Key bindings.
const (
	keyQuit      = "q"
	keyCtrlC     = "ctrl+c"
	keyEnter     = "enter"
	keyEsc       = "esc"
	keyBackspace = "backspace"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// listShare divides the screen height between the card list and the preview.
	listShare = 2
)
