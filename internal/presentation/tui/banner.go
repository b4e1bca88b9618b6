package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the startup banner for the serve command.
func PrintBanner(w io.Writer, addr string) {
	out := termenv.NewOutput(w)
	title := out.String("actionbridge").Bold().Foreground(out.Color("#a78bfa"))
	fmt.Fprintf(w, "\n  %s listening on %s\n\n", title, addr)
}

// PrintVerdict writes a colored one-line verdict, green when ok and red otherwise.
func PrintVerdict(w io.Writer, ok bool, msg string) {
	out := termenv.NewOutput(w)
	mark, color := "✔", "2"
	if !ok {
		mark, color = "✘", "1"
	}
	fmt.Fprintln(w, out.String(mark+" "+msg).Foreground(out.Color(color)))
}
