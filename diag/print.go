package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	InfoColorFG    = pterm.FgLightGreen
)

// Print writes a banner, the full message and the call stack of e to w.
func Print(w io.Writer, e *Error) {
	fmt.Fprint(w, "\n-- ")
	fmt.Fprint(w, ErrorStyleBG.Sprint(e.Short))
	fmt.Fprint(w, " ")

	loc := e.Span.String()
	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}
	if dashes := bannerLen - len(e.Short) - len(loc) - 1; dashes > 0 {
		fmt.Fprint(w, strings.Repeat("-", dashes)+" ")
	}
	fmt.Fprintln(w, InfoColorFG.Sprint(loc))

	if e.Full != "" && e.Full != e.Short {
		fmt.Fprintln(w, ErrorColorFG.Sprint(e.Full))
	}
	for i, span := range e.CallStack {
		fmt.Fprintf(w, "  %s %s\n", InfoColorFG.Sprintf("#%d", i), span)
	}
}

// PrintAll prints every error of l followed by a summary line.
func (l *List) PrintAll(w io.Writer) {
	for _, e := range l.Errors {
		Print(w, e)
	}
	PrintSummary(w, len(l.Errors))
}

// PrintSummary prints "All done!" or the number of errors.
func PrintSummary(w io.Writer, errorCount int) {
	fmt.Fprintln(w)
	switch errorCount {
	case 0:
		fmt.Fprintln(w, SuccessColorFG.Sprint("All done!")+" (0 errors)")
	case 1:
		fmt.Fprintln(w, ErrorColorFG.Sprint("Oh no!")+" (1 error)")
	default:
		fmt.Fprintf(w, "%s (%d errors)\n", ErrorColorFG.Sprint("Oh no!"), errorCount)
	}
}

// PrintWarning prints a tagged warning line.
func PrintWarning(w io.Writer, tag, msg string) {
	fmt.Fprintln(w, WarnStyleBG.Sprint(tag)+" "+WarnColorFG.Sprint(msg))
}

// PrintFatal prints a tagged error line for a non-diagnostic error.
func PrintFatal(w io.Writer, tag string, err error) {
	fmt.Fprintln(w, ErrorStyleBG.Sprint(tag)+" "+ErrorColorFG.Sprint(err.Error()))
}
