// Package playertest provides a scriptable in-memory player.Backend.
package playertest

import (
	"errors"
	"sync"
	"time"

	"github.com/handiism/flare/internal/player"
)

// ErrClosed is returned by operations on a closed Handle.
var ErrClosed = errors.New("playertest: handle closed")

// Backend records every Open and hands out fake handles.
type Backend struct {
	mu        sync.Mutex
	duration  time.Duration
	durations map[string]time.Duration
	failures  map[string]error
	handles   []*Handle
}

// NewBackend returns a backend whose tracks last duration unless
// overridden with SetDuration.
func NewBackend(duration time.Duration) *Backend {
	return &Backend{
		duration:  duration,
		durations: make(map[string]time.Duration),
		failures:  make(map[string]error),
	}
}

// SetDuration overrides the duration reported for path.
func (b *Backend) SetDuration(path string, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.durations[path] = d
}

// FailOn makes Open(path) return err.
func (b *Backend) FailOn(path string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[path] = err
}

func (b *Backend) Open(path string) (player.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err, ok := b.failures[path]; ok {
		return nil, err
	}

	d, ok := b.durations[path]
	if !ok {
		d = b.duration
	}
	h := &Handle{Path: path, duration: d, ended: make(chan struct{}, 1)}
	b.handles = append(b.handles, h)
	return h, nil
}

// Handles returns every handle opened so far, oldest first.
func (b *Backend) Handles() []*Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Handle(nil), b.handles...)
}

// Last returns the most recently opened handle, or nil.
func (b *Backend) Last() *Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.handles) == 0 {
		return nil
	}
	return b.handles[len(b.handles)-1]
}

// Handle is a fake track. Position only moves through Seek, SetPosition
// and Finish.
type Handle struct {
	Path string

	mu       sync.Mutex
	playing  bool
	closed   bool
	position time.Duration
	duration time.Duration
	volume   int
	plays    int
	stops    int
	ended    chan struct{}
}

func (h *Handle) Play() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playing = true
	h.plays++
}

func (h *Handle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playing = false
}

func (h *Handle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playing = false
	h.position = 0
	h.stops++
}

func (h *Handle) Seek(pos time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	h.position = pos
	return nil
}

func (h *Handle) SetVolume(percent int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.volume = percent
}

func (h *Handle) Position() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position
}

func (h *Handle) Duration() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.duration
}

func (h *Handle) Ended() <-chan struct{} {
	return h.ended
}

func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.playing = false
	return nil
}

// SetPosition moves the read position without seeking.
func (h *Handle) SetPosition(pos time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.position = pos
}

// Finish simulates the stream running out.
func (h *Handle) Finish() {
	h.mu.Lock()
	h.position = h.duration
	h.playing = false
	h.mu.Unlock()

	select {
	case h.ended <- struct{}{}:
	default:
	}
}

// Playing reports whether output is running.
func (h *Handle) Playing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

// Closed reports whether Close was called.
func (h *Handle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// Volume returns the last applied volume.
func (h *Handle) Volume() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.volume
}

// Plays returns how many times Play was called.
func (h *Handle) Plays() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.plays
}

// Stops returns how many times Stop was called.
func (h *Handle) Stops() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stops
}

// Artwork is a fake player.ArtworkSource.
type Artwork struct {
	mu    sync.Mutex
	paths map[string]string
	calls int
}

// NewArtwork returns an artwork source that maps track paths to artwork
// paths. Unknown tracks have no artwork.
func NewArtwork(paths map[string]string) *Artwork {
	return &Artwork{paths: paths}
}

// ErrNoArtwork is returned for tracks without an entry.
var ErrNoArtwork = errors.New("playertest: no artwork")

func (a *Artwork) Extract(path string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if p, ok := a.paths[path]; ok {
		return p, nil
	}
	return "", ErrNoArtwork
}

// Calls returns how many times Extract was called.
func (a *Artwork) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}
