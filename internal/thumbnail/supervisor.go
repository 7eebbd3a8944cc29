// Package thumbnail draws track artwork in the terminal through an external
// image viewer process.
package thumbnail

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	ioutils "github.com/handiism/flare/internal/io"
	"go.uber.org/zap"
)

// DefaultKillTimeout bounds the wait for a killed viewer to exit.
const DefaultKillTimeout = 2 * time.Second

// Options configures a Supervisor.
type Options struct {
	// Command is the viewer binary. Defaults to "kitten".
	Command string

	// KillTimeout bounds the wait after killing a viewer.
	KillTimeout time.Duration

	// Spawner starts viewer processes. Defaults to ExecSpawner.
	Spawner Spawner

	// Getenv is used for capability detection. Defaults to os.Getenv.
	Getenv func(string) string

	Logger *zap.Logger
}

// Supervisor owns the artwork temp file and at most one live viewer.
type Supervisor struct {
	command     string
	killTimeout time.Duration
	spawner     Spawner
	supported   bool
	log         *zap.Logger

	mu    sync.Mutex
	path  string
	dirty bool
	x, y  int
	w, h  int
	proc  Process
}

// New creates a supervisor. Image support is detected once, here.
func New(opts Options) *Supervisor {
	if opts.Command == "" {
		opts.Command = "kitten"
	}
	if opts.KillTimeout <= 0 {
		opts.KillTimeout = DefaultKillTimeout
	}
	if opts.Spawner == nil {
		opts.Spawner = ExecSpawner{}
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Supervisor{
		command:     opts.Command,
		killTimeout: opts.KillTimeout,
		spawner:     opts.Spawner,
		supported:   Supported(opts.Getenv),
		log:         opts.Logger,
	}
}

// Supported reports whether the terminal can display images.
func Supported(getenv func(string) string) bool {
	return strings.Contains(getenv("TERM"), "kitty") || getenv("KITTY_WINDOW_ID") != ""
}

// Supported reports the capability detected at construction.
func (s *Supervisor) Supported() bool {
	return s.supported
}

// Path returns the current artwork file, or "".
func (s *Supervisor) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// SetPath replaces the artwork file. The previous viewer is killed and the
// previous file removed. An empty path means no artwork.
func (s *Supervisor) SetPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if path == s.path {
		return
	}
	s.killLocked()
	s.removeLocked()
	s.path = path
	s.dirty = true
}

// SetRect places the image at column x, row y with size w by h cells.
func (s *Supervisor) SetRect(x, y, w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if x == s.x && y == s.y && w == s.w && h == s.h {
		return
	}
	s.x, s.y, s.w, s.h = x, y, w, h
	s.dirty = true
}

// Draw spawns a viewer for the current artwork if it changed since the last
// draw, or unconditionally when force is set.
func (s *Supervisor) Draw(force bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.supported || s.path == "" || (!s.dirty && !force) {
		return
	}
	if s.w <= 0 || s.h <= 0 {
		return
	}

	s.killLocked()

	// The session owns the tty's input, so icat must not probe stdin for
	// image data.
	args := []string{"icat", "--stdin=no", "--place", s.placement(), s.path}
	proc, err := s.spawner.Start(s.command, args...)
	if err != nil {
		s.log.Warn("thumbnail spawn failed", zap.String("command", s.command), zap.Error(err))
		return
	}
	s.proc = proc
	s.dirty = false
}

func (s *Supervisor) placement() string {
	return fmt.Sprintf("%dx%d@%dx%d", s.w, s.h, s.x, s.y)
}

// Shutdown kills the viewer and removes the artwork file.
func (s *Supervisor) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.killLocked()
	s.removeLocked()
	s.path = ""
	s.dirty = false
}

func (s *Supervisor) killLocked() {
	if s.proc == nil {
		return
	}
	proc := s.proc
	s.proc = nil

	if err := proc.Kill(); err != nil {
		s.log.Debug("thumbnail kill", zap.Error(err))
	}

	timer := time.NewTimer(s.killTimeout)
	defer timer.Stop()

	select {
	case <-proc.Done():
	case <-timer.C:
		s.log.Warn("thumbnail viewer did not exit", zap.Duration("timeout", s.killTimeout))
	}
}

func (s *Supervisor) removeLocked() {
	if s.path == "" {
		return
	}
	if err := ioutils.RemoveIfExists(s.path); err != nil {
		s.log.Debug("remove artwork", zap.String("path", s.path), zap.Error(err))
	}
}
