package styles

// Symbols holds the markers used in prompts and progress output.
type Symbols struct {
	Success  string
	Failure  string
	Pointer  string
	Selected string
	Warning  string
}

var defaultSymbols = Symbols{
	Success:  "✓",
	Failure:  "✗",
	Pointer:  ">",
	Selected: "●",
	Warning:  "!",
}

var nerdfontSymbols = Symbols{
	Success:  "\uf00c", // nf-fa-check
	Failure:  "\uf00d", // nf-fa-times
	Pointer:  "\uf054", // nf-fa-chevron_right
	Selected: "\uf111", // nf-fa-circle
	Warning:  "\uf071", // nf-fa-warning
}

var currentSymbols = defaultSymbols

// SetNerdfont switches between the ASCII-safe and nerd font symbol sets.
func SetNerdfont(enabled bool) {
	if enabled {
		currentSymbols = nerdfontSymbols
	} else {
		currentSymbols = defaultSymbols
	}
}

// CurrentSymbols returns the active symbol set.
func CurrentSymbols() Symbols {
	return currentSymbols
}

// SuccessLine renders a line prefixed with the success marker.
func SuccessLine(msg string) string {
	return SuccessStyle.Render(currentSymbols.Success) + " " + msg
}

// FailureLine renders a line prefixed with the failure marker.
func FailureLine(msg string) string {
	return ErrorStyle.Render(currentSymbols.Failure) + " " + msg
}

// WarningLine renders a line prefixed with the warning marker.
func WarningLine(msg string) string {
	return WarningStyle.Render(currentSymbols.Warning) + " " + msg
}
