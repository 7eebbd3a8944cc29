package terminal

import (
	"os"

	"golang.org/x/term"
)

// Terminal wraps the controlling terminal file descriptors.
type Terminal struct {
	in    *os.File
	out   *os.File
	state *term.State
}

// New returns a Terminal reading from in and writing to out.
func New(in, out *os.File) *Terminal {
	return &Terminal{in: in, out: out}
}

// IsTerminal reports whether both ends are attached to a terminal.
func (t *Terminal) IsTerminal() bool {
	return term.IsTerminal(int(t.in.Fd())) && term.IsTerminal(int(t.out.Fd()))
}

// Size returns the current terminal width and height in cells.
func (t *Terminal) Size() (width, height int, err error) {
	return term.GetSize(int(t.out.Fd()))
}

// EnterRawMode switches input to raw mode so keys arrive unbuffered.
func (t *Terminal) EnterRawMode() error {
	if t.state != nil {
		return nil
	}
	state, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return err
	}
	t.state = state
	return nil
}

// Restore returns the terminal to the mode saved by EnterRawMode.
func (t *Terminal) Restore() error {
	if t.state == nil {
		return nil
	}
	err := term.Restore(int(t.in.Fd()), t.state)
	t.state = nil
	return err
}
