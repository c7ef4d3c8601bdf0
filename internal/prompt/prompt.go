// Package prompt renders the interactive prompt string "<base>
// user@host /<saved-path>> " and colourises one-line error
// diagnostics. It does not colourise completion output or command-line
// syntax.
package prompt

import (
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	baseStyle = lipgloss.NewStyle().Bold(true)
	pathStyle = lipgloss.NewStyle().Faint(true)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Render builds the prompt string for base (the program's display name)
// and the current navigated path (root-relative container names).
func Render(base string, path []string) string {
	host, _ := os.Hostname()
	u, err := user.Current()
	userName := "?"
	if err == nil {
		userName = u.Username
	}
	pathStr := "/" + strings.Join(path, "/")
	return fmt.Sprintf("%s %s@%s %s> ",
		baseStyle.Render(base), userName, host, pathStyle.Render(pathStr))
}

// Diagnostic colourises a one-line error diagnostic for interactive
// output.
func Diagnostic(msg string) string {
	return errStyle.Render(msg)
}
