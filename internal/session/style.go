package session

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// REPL output styling. Colors are dropped entirely when stdout is not a
// terminal so scripted use sees plain text.
var (
	colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	colorDir      = lipgloss.Color("12") // bright blue, directories
	colorRef      = lipgloss.Color("10") // bright green, live references
	colorDangling = lipgloss.Color("9")  // bright red, missing targets
	colorWarning  = lipgloss.Color("11") // yellow
	colorMuted    = lipgloss.Color("8")  // grey, targets and descriptions
)

// Styles holds the pre-configured lipgloss styles for REPL output.
var Styles = struct {
	Dir      lipgloss.Style
	Ref      lipgloss.Style
	Dangling lipgloss.Style
	Warning  lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
}{
	Dir:      lipgloss.NewStyle().Bold(true).Foreground(colorDir),
	Ref:      lipgloss.NewStyle().Foreground(colorRef),
	Dangling: lipgloss.NewStyle().Foreground(colorDangling),
	Warning:  lipgloss.NewStyle().Foreground(colorWarning),
	Muted:    lipgloss.NewStyle().Foreground(colorMuted),
	Error:    lipgloss.NewStyle().Bold(true).Foreground(colorDangling),
}

// paint applies a style only when color output is enabled.
func paint(style lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return style.Render(s)
}
