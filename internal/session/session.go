package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/handiism/flare/internal/player"
	"github.com/handiism/flare/internal/playlist"
	"github.com/handiism/flare/internal/terminal"
	"github.com/handiism/flare/internal/ui"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrQuit is returned by the loop when the user asks to quit.
var ErrQuit = errors.New("quit requested")

// KeySource delivers key presses.
type KeySource interface {
	// Run pumps input until ctx is done.
	Run(ctx context.Context) error

	// Poll returns the next key without blocking.
	Poll() (terminal.Key, bool)
}

// Thumbnail shows the artwork of the current track.
type Thumbnail interface {
	// Supported reports whether the terminal can show images at all.
	Supported() bool

	SetPath(path string)
	SetRect(x, y, w, h int)
	Draw(force bool)
	Shutdown()
}

// Config holds the tunable parts of the session.
type Config struct {
	VolumeStep   int
	SeekStep     int // seconds
	LoopInterval time.Duration
	BarSlots     int
	FilledGlyph  rune
	EmptyGlyph   rune
}

// DefaultConfig returns the stock key steps and bar look.
func DefaultConfig() Config {
	return Config{
		VolumeStep:   1,
		SeekStep:     5,
		LoopInterval: 30 * time.Millisecond,
		BarSlots:     20,
		FilledGlyph:  '■',
		EmptyGlyph:   '-',
	}
}

// Options wires a Session to its collaborators.
type Options struct {
	Playlist  *playlist.Playlist
	Engine    *player.Engine
	Thumbnail Thumbnail
	Renderer  *terminal.Renderer
	Keys      KeySource

	// Size reports the terminal size in cells.
	Size func() (width, height int, err error)

	// Restore returns the terminal to its original mode. Optional.
	Restore func() error

	Config Config
	Logger *zap.Logger
}

// Session is the "now playing" context.
type Session struct {
	playlist *playlist.Playlist
	engine   *player.Engine
	thumb    Thumbnail
	out      *terminal.Renderer
	keys     KeySource
	size     func() (int, int, error)
	restore  func() error
	cfg      Config
	log      *zap.Logger

	layout    ui.Layout
	loadErr   error
	closeOnce sync.Once
	closeErr  error
}

// New validates opts and creates a session. Nothing is drawn or played
// until Run.
func New(opts Options) (*Session, error) {
	switch {
	case opts.Playlist == nil:
		return nil, errors.New("session: playlist is required")
	case opts.Engine == nil:
		return nil, errors.New("session: engine is required")
	case opts.Thumbnail == nil:
		return nil, errors.New("session: thumbnail is required")
	case opts.Renderer == nil:
		return nil, errors.New("session: renderer is required")
	case opts.Keys == nil:
		return nil, errors.New("session: key source is required")
	case opts.Size == nil:
		return nil, errors.New("session: size function is required")
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	def := DefaultConfig()
	if opts.Config.LoopInterval <= 0 {
		opts.Config.LoopInterval = def.LoopInterval
	}
	if opts.Config.BarSlots <= 0 {
		opts.Config.BarSlots = def.BarSlots
	}
	if opts.Config.FilledGlyph == 0 {
		opts.Config.FilledGlyph = def.FilledGlyph
	}
	if opts.Config.EmptyGlyph == 0 {
		opts.Config.EmptyGlyph = def.EmptyGlyph
	}

	return &Session{
		playlist: opts.Playlist,
		engine:   opts.Engine,
		thumb:    opts.Thumbnail,
		out:      opts.Renderer,
		keys:     opts.Keys,
		size:     opts.Size,
		restore:  opts.Restore,
		cfg:      opts.Config,
		log:      opts.Logger,
	}, nil
}

// Run plays the active track and drives the screen until the user quits or
// ctx is cancelled. Both count as a clean exit.
func (s *Session) Run(ctx context.Context) error {
	s.start()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.keys.Run(ctx)
	})
	g.Go(func() error {
		return s.loop(ctx)
	})

	err := g.Wait()
	if errors.Is(err, ErrQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Session) loop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.LoopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.step(); err != nil {
				return err
			}
		}
	}
}

// start loads the active track and draws the first frame.
func (s *Session) start() {
	s.out.HideCursor()
	if w, h, err := s.size(); err == nil {
		s.applyLayout(w, h)
	} else {
		s.log.Warn("terminal size", zap.Error(err))
	}

	s.loadActive(1)
	s.out.Clear()
	s.redraw(true)

	s.log.Info("session started",
		zap.Int("tracks", s.playlist.Count()),
		zap.String("track", s.playlist.ActiveName()))
}

// step runs one loop iteration.
func (s *Session) step() error {
	if key, ok := s.keys.Poll(); ok {
		if err := s.handleKey(key); err != nil {
			return err
		}
	}
	s.drainEvents()
	s.checkResize()
	s.drawDuration(s.engine.Snapshot())
	return nil
}

func (s *Session) drainEvents() {
	for {
		select {
		case ev := <-s.engine.Events():
			s.handleEvent(ev)
		default:
			return
		}
	}
}

func (s *Session) handleEvent(ev player.Event) {
	if ev.Snapshot.Generation != s.engine.Generation() {
		return
	}

	switch ev.Kind {
	case player.EventTick:
		s.drawDuration(ev.Snapshot)
	case player.EventVolume:
		s.drawVolume(ev.Snapshot.Volume)
	case player.EventTrackEnded:
		s.log.Debug("advancing after track end", zap.String("track", ev.Snapshot.Track.Name))
		s.UpdateTrack(1)
	}
}

// UpdateTrack moves delta tracks through the playlist, wrapping at both
// ends, and plays the new active track.
func (s *Session) UpdateTrack(delta int) {
	s.playlist.ShiftActive(delta)
	s.engine.Stop()

	dir := 1
	if delta < 0 {
		dir = -1
	}
	s.loadActive(dir)

	s.out.Clear()
	s.redraw(true)
}

// loadActive loads and plays the active track. Unplayable tracks are
// skipped in direction dir until one loads or every track has failed.
func (s *Session) loadActive(dir int) {
	s.loadErr = nil

	for failures := 0; failures < s.playlist.Count(); failures++ {
		track := s.playlist.Active()
		err := s.engine.LoadTrack(track)
		if err == nil {
			s.engine.Play()
			s.thumb.SetPath(s.engine.ArtworkPath())
			s.loadErr = nil
			return
		}

		s.log.Warn("track load failed", zap.String("path", track.Path), zap.Error(err))
		s.loadErr = err
		s.thumb.SetPath("")
		if failures+1 < s.playlist.Count() {
			s.playlist.ShiftActive(dir)
		}
	}

	s.log.Error("no playable tracks", zap.Int("tracks", s.playlist.Count()))
}

func (s *Session) checkResize() {
	w, h, err := s.size()
	if err != nil || !s.layout.Changed(w, h) {
		return
	}

	s.log.Debug("terminal resized", zap.Int("width", w), zap.Int("height", h))
	s.applyLayout(w, h)
	s.out.Clear()
	s.redraw(true)
}

func (s *Session) applyLayout(w, h int) {
	s.layout = ui.Layout{Width: w, Height: h}
	s.out.Resize(w)

	if !s.thumb.Supported() {
		return
	}
	if x, y, tw, th, ok := s.layout.Thumbnail(); ok {
		s.thumb.SetRect(x, y, tw, th)
	} else {
		s.thumb.SetRect(0, 0, 0, 0)
	}
}

func (s *Session) handleKey(key terminal.Key) error {
	switch key.Code {
	case terminal.KeyInterrupt:
		return ErrQuit
	case terminal.KeyUp:
		s.changeVolume(s.cfg.VolumeStep)
	case terminal.KeyDown:
		s.changeVolume(-s.cfg.VolumeStep)
	case terminal.KeyLeft:
		if s.playlist.ActiveIndex() > 0 {
			s.UpdateTrack(-1)
		}
	case terminal.KeyRight:
		if s.playlist.ActiveIndex() < s.playlist.Count()-1 {
			s.UpdateTrack(1)
		}
	case terminal.KeyRune:
		return s.handleRune(key.Rune)
	}
	return nil
}

func (s *Session) handleRune(r rune) error {
	switch r {
	case 'q', 'Q':
		return ErrQuit
	case ' ':
		s.engine.Pause()
		s.drawStatus()
	case '9':
		s.changeVolume(-s.cfg.VolumeStep)
	case '0':
		s.changeVolume(s.cfg.VolumeStep)
	case '-':
		s.seek(-s.cfg.SeekStep)
	case '=':
		s.seek(s.cfg.SeekStep)
	case '[':
		s.UpdateTrack(-1)
	case ']':
		s.UpdateTrack(1)
	}
	return nil
}

func (s *Session) changeVolume(delta int) {
	if delta >= 0 {
		s.engine.IncreaseVolume(delta)
	} else {
		s.engine.DecreaseVolume(-delta)
	}
	s.drawVolume(s.engine.Volume())
}

func (s *Session) seek(seconds int) {
	if err := s.engine.SeekRelative(seconds); err != nil {
		s.log.Debug("seek", zap.Int("seconds", seconds), zap.Error(err))
		return
	}
	s.drawDuration(s.engine.Snapshot())
	s.drawStatus()
}

// Close tears down the viewer, playback and terminal state. It is safe to
// call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.thumb.Shutdown()
		s.engine.Stop()
		err := s.engine.Close()
		if err != nil {
			err = fmt.Errorf("close engine: %w", err)
		}

		s.out.Clear()
		s.out.ShowCursor()

		if s.restore != nil {
			if rerr := s.restore(); rerr != nil {
				err = errors.Join(err, fmt.Errorf("restore terminal: %w", rerr))
			}
		}
		s.closeErr = err
		s.log.Info("session closed")
	})
	return s.closeErr
}
