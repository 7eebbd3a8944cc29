package player

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/handiism/flare/internal/model"
	"go.uber.org/zap"
)

// ErrNoTrack is returned by operations that need a loaded track.
var ErrNoTrack = errors.New("no track loaded")

// State is the playback state.
type State int

const (
	Idle State = iota
	Loaded
	Playing
	Paused
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Loaded:
		return "Loaded"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case Stopped:
		return "Stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// EventKind identifies an engine notification.
type EventKind int

const (
	// EventTick is sent on every tick interval while playing, and when
	// playback starts.
	EventTick EventKind = iota

	// EventVolume is sent after every volume change.
	EventVolume

	// EventTrackEnded is sent once when the loaded track plays to its end.
	EventTrackEnded
)

// Event is a notification from the engine.
type Event struct {
	Kind     EventKind
	Snapshot Snapshot
}

// Snapshot is a consistent view of the engine at one instant.
type Snapshot struct {
	State      State
	Volume     int
	Position   time.Duration
	Duration   time.Duration
	Track      model.Track
	Generation uint64 // incremented by every LoadTrack
}

// Options configures an Engine.
type Options struct {
	// Volume is the initial volume in percent.
	Volume int

	// TickInterval is the position tick period. Defaults to 500ms.
	TickInterval time.Duration

	// Artwork extracts cover art on LoadTrack. Optional.
	Artwork ArtworkSource

	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

const eventBuffer = 16

// Engine is the playback state machine around a Backend.
//
// All methods are safe for concurrent use. State changes and the ticker's
// reads of position and duration are serialized by one mutex.
type Engine struct {
	backend      Backend
	artwork      ArtworkSource
	log          *zap.Logger
	tickInterval time.Duration
	events       chan Event

	mu          sync.Mutex
	state       State
	handle      Handle
	track       model.Track
	artworkPath string
	volume      int
	generation  uint64
	ended       bool          // end-of-track reported for the current playthrough
	tickStop    chan struct{} // non-nil while the ticker runs
	watchStop   chan struct{} // closed when the handle is released
}

// NewEngine creates an idle engine.
func NewEngine(backend Backend, opts Options) *Engine {
	if opts.TickInterval <= 0 {
		opts.TickInterval = 500 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Engine{
		backend:      backend,
		artwork:      opts.Artwork,
		log:          opts.Logger,
		tickInterval: opts.TickInterval,
		events:       make(chan Event, eventBuffer),
		volume:       clampVolume(opts.Volume),
	}
}

// Events returns the notification channel. It is never closed.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// LoadTrack stops current playback, releases the previous track and opens
// track.
//
// On failure the engine is Idle with nothing loaded. Artwork extraction
// failures are not errors; ArtworkPath is then empty.
func (e *Engine) LoadTrack(track model.Track) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
	e.releaseLocked()
	e.generation++
	e.state = Idle
	e.track = model.Track{}
	e.artworkPath = ""
	e.ended = false

	h, err := e.backend.Open(track.Path)
	if err != nil {
		return fmt.Errorf("load %s: %w", track.Name, err)
	}

	e.handle = h
	e.track = track
	e.state = Loaded
	e.watchStop = make(chan struct{})
	go e.watchEnd(h, e.generation, e.watchStop)

	if e.artwork != nil {
		path, err := e.artwork.Extract(track.Path)
		if err != nil {
			e.log.Debug("no artwork", zap.String("track", track.Name), zap.Error(err))
		} else {
			e.artworkPath = path
		}
	}

	e.log.Info("track loaded",
		zap.String("track", track.Name),
		zap.Duration("duration", h.Duration()),
		zap.Uint64("generation", e.generation))
	return nil
}

// Play starts playback of the loaded track at the current volume.
// It does nothing if no track is loaded or it is already playing.
// Playing from Stopped restarts the track from the beginning.
func (e *Engine) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playLocked()
}

func (e *Engine) playLocked() {
	if e.handle == nil || e.state == Playing {
		return
	}
	if e.state == Stopped {
		if err := e.handle.Seek(0); err != nil {
			e.log.Warn("rewind failed", zap.Error(err))
		}
	}

	e.handle.SetVolume(e.volume)
	e.handle.Play()
	e.state = Playing
	e.ended = false
	e.startTickerLocked()
	e.trySend(Event{Kind: EventTick, Snapshot: e.snapshotLocked()})
}

// Pause toggles between Playing and Paused. Other states are unaffected.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case Playing:
		e.handle.Pause()
		e.stopTickerLocked()
		e.state = Paused
	case Paused:
		e.handle.Play()
		e.state = Playing
		e.startTickerLocked()
	}
}

// Stop halts output and the ticker. It is safe to call in any state.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	e.stopTickerLocked()
	if e.handle == nil {
		return
	}
	e.handle.Stop()
	e.state = Stopped
}

// Close stops playback and releases the loaded track.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
	err := e.releaseLocked()
	e.state = Idle
	return err
}

func (e *Engine) releaseLocked() error {
	if e.watchStop != nil {
		close(e.watchStop)
		e.watchStop = nil
	}
	if e.handle == nil {
		return nil
	}
	err := e.handle.Close()
	e.handle = nil
	return err
}

// SetVolume sets the volume, clamped to [0, 100], and applies it at once.
func (e *Engine) SetVolume(volume int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.volume = clampVolume(volume)
	if e.handle != nil {
		e.handle.SetVolume(e.volume)
	}
	e.trySend(Event{Kind: EventVolume, Snapshot: e.snapshotLocked()})
}

// IncreaseVolume raises the volume by amount.
func (e *Engine) IncreaseVolume(amount int) {
	e.SetVolume(e.Volume() + amount)
}

// DecreaseVolume lowers the volume by amount.
func (e *Engine) DecreaseVolume(amount int) {
	e.SetVolume(e.Volume() - amount)
}

func clampVolume(v int) int {
	return min(max(v, 0), 100)
}

// Seek moves to pos, clamped so it never reaches the end of the track.
// It does nothing when the duration is unknown.
func (e *Engine) Seek(pos time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seekLocked(pos)
}

func (e *Engine) seekLocked(pos time.Duration) error {
	if e.handle == nil {
		return ErrNoTrack
	}

	duration := e.handle.Duration()
	if duration <= 0 {
		return nil
	}
	if pos >= duration {
		pos = duration - time.Millisecond
	}
	pos = max(pos, 0)

	return e.handle.Seek(pos)
}

// SeekRelative moves by seconds from the current position and resumes
// playback if it was not playing.
func (e *Engine) SeekRelative(seconds int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handle == nil {
		return ErrNoTrack
	}
	target := e.handle.Position() + time.Duration(seconds)*time.Second
	if err := e.seekLocked(target); err != nil {
		return err
	}
	if e.state != Playing {
		// Stopped would rewind on play, which would undo the seek.
		if e.state == Stopped {
			e.state = Paused
		}
		e.playLocked()
	}
	return nil
}

// State returns the current playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Volume returns the volume in percent.
func (e *Engine) Volume() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// Generation returns the load counter of the current track.
func (e *Engine) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// ArtworkPath returns the temp file holding the current track's artwork,
// or "" if it has none.
func (e *Engine) ArtworkPath() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.artworkPath
}

// Snapshot returns the current engine view.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	s := Snapshot{
		State:      e.state,
		Volume:     e.volume,
		Track:      e.track,
		Generation: e.generation,
	}
	if e.handle != nil {
		s.Duration = max(e.handle.Duration(), 0)
		s.Position = max(e.handle.Position(), 0)
		if s.Duration > 0 && s.Position > s.Duration {
			s.Position = s.Duration
		}
	}
	return s
}

func (e *Engine) startTickerLocked() {
	if e.tickStop != nil {
		return
	}
	stop := make(chan struct{})
	e.tickStop = stop
	go e.runTicker(stop)
}

func (e *Engine) stopTickerLocked() {
	if e.tickStop != nil {
		close(e.tickStop)
		e.tickStop = nil
	}
}

func (e *Engine) runTicker(stop <-chan struct{}) {
	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		e.mu.Lock()
		select {
		case <-stop:
			e.mu.Unlock()
			return
		default:
		}
		e.trySend(Event{Kind: EventTick, Snapshot: e.snapshotLocked()})
		e.mu.Unlock()
	}
}

// watchEnd reports the end of h's stream at most once per playthrough.
func (e *Engine) watchEnd(h Handle, generation uint64, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-h.Ended():
		}

		e.mu.Lock()
		active := e.state == Playing || e.state == Paused
		if generation != e.generation || e.ended || !active {
			e.mu.Unlock()
			continue
		}
		e.ended = true
		e.stopTickerLocked()
		e.state = Stopped
		ev := Event{Kind: EventTrackEnded, Snapshot: e.snapshotLocked()}
		e.mu.Unlock()

		e.log.Debug("track ended", zap.String("track", ev.Snapshot.Track.Name))

		select {
		case e.events <- ev:
		case <-stop:
			return
		}
	}
}

// trySend delivers ev if the channel has room. Ticks and volume changes are
// superseded by the next one, so dropping them is harmless.
func (e *Engine) trySend(ev Event) {
	select {
	case e.events <- ev:
	default:
	}
}
