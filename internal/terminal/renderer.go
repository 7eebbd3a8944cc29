// Package terminal provides cursor-addressed output, terminal control and
// raw keyboard input.
package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Renderer serializes cursor-addressed writes to a terminal.
//
// Every method holds one mutex for its whole write, so output from the
// session loop and any other goroutine never interleaves mid-sequence.
type Renderer struct {
	mu    sync.Mutex
	out   io.Writer
	blank string
}

// NewRenderer creates a renderer writing to out for a terminal width columns wide.
func NewRenderer(out io.Writer, width int) *Renderer {
	r := &Renderer{out: out}
	r.blank = blankLine(width)
	return r
}

func blankLine(width int) string {
	if width <= 1 {
		return ""
	}
	return strings.Repeat(" ", width-1)
}

// Resize recomputes the cached blank line for a new terminal width.
func (r *Renderer) Resize(width int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blank = blankLine(width)
}

// WriteAt writes text with its first cell at column x, row y (zero-based).
func (r *Renderer) WriteAt(x, y int, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writeAt(x, y, text)
}

// ClearLine blanks row y from column x to the right edge.
func (r *Renderer) ClearLine(x, y int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writeAt(x, y, r.blankFrom(x))
}

// ClearAndWriteAt blanks row y then writes text, as one atomic unit.
func (r *Renderer) ClearAndWriteAt(x, y int, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writeAt(x, y, r.blankFrom(x))
	r.writeAt(x, y, text)
}

// Clear erases the whole screen and homes the cursor.
func (r *Renderer) Clear() {
	r.write("\x1b[2J\x1b[H")
}

// HideCursor hides the terminal cursor.
func (r *Renderer) HideCursor() {
	r.write("\x1b[?25l")
}

// ShowCursor shows the terminal cursor.
func (r *Renderer) ShowCursor() {
	r.write("\x1b[?25h")
}

func (r *Renderer) write(seq string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	io.WriteString(r.out, seq)
}

// blankFrom returns the blank run from column x to one cell short of the
// right edge, so clearing never wraps onto the next row.
func (r *Renderer) blankFrom(x int) string {
	return r.blank[:max(len(r.blank)-max(x, 0), 0)]
}

func (r *Renderer) writeAt(x, y int, text string) {
	fmt.Fprintf(r.out, "\x1b[%d;%dH%s", y+1, x+1, text)
}
