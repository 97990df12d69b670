package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// printSuccess prints a message in green with a checkmark prefix.
func printSuccess(w io.Writer, format string, a ...any) {
	green.Fprintf(w, "✓ %s", fmt.Sprintf(format, a...))
}

// printWarning prints a message in yellow with a warning prefix.
func printWarning(w io.Writer, format string, a ...any) {
	yellow.Fprintf(w, "⚠️  %s", fmt.Sprintf(format, a...))
}

// printStep prints a step in a multi-step operation.
func printStep(w io.Writer, format string, a ...any) {
	cyan.Fprintf(w, "→ %s", fmt.Sprintf(format, a...))
}

// printKey prints an entry name in cyan followed by plain text.
func printKey(w io.Writer, name, format string, a ...any) {
	cyan.Fprint(w, name)
	fmt.Fprintf(w, format, a...)
}

// printError prints a command error in red. User errors and system errors
// get different titles.
func printError(w io.Writer, err error) {
	title := "Error"
	var ee *exitError
	if errors.As(err, &ee) && ee.code == exitSysError {
		title = "System error"
	}
	red.Fprintf(w, "%s: ", title)
	fmt.Fprintln(w, err)
}
