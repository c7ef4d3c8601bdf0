// Package termstate saves and restores the controlling terminal's
// termios state around invoking a child process that might change it.
package termstate

import (
	"os"

	"golang.org/x/term"

	"github.com/ncsh/ncsh/internal/shellerr"
)

// Saver saves the state of fd (typically os.Stdin) and returns a
// restore function. If fd is not a terminal, Save is a no-op: discovery
// and batch invocations run with redirected stdio routinely, and that
// is not an error condition.
type Saver struct {
	fd int
}

// New wraps fd (an *os.File's Fd()) for save/restore.
func New(f *os.File) *Saver {
	return &Saver{fd: int(f.Fd())}
}

// Save implements dispatch.TermSaver.
func (s *Saver) Save() (restore func(), err error) {
	if !term.IsTerminal(s.fd) {
		return func() {}, nil
	}
	state, err := term.GetState(s.fd)
	if err != nil {
		return nil, shellerr.IOFailure("saving terminal state", err)
	}
	return func() {
		_ = term.Restore(s.fd, state)
	}, nil
}
