// Package beep plays tracks through the system audio device using
// gopxl/beep.
package beep

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/handiism/flare/internal/player"
)

// SampleRate is the speaker output rate. Tracks at other rates are
// resampled.
const SampleRate beep.SampleRate = 44100

// ErrUnsupported is returned for files with no matching decoder.
var ErrUnsupported = errors.New("unsupported audio format")

// Backend opens tracks for playback on the shared speaker.
type Backend struct {
	rate   beep.SampleRate
	buffer time.Duration

	once    sync.Once
	initErr error
}

// New creates a backend. The speaker is initialized on the first Open.
func New() *Backend {
	return &Backend{rate: SampleRate, buffer: 100 * time.Millisecond}
}

func (b *Backend) init() error {
	b.once.Do(func() {
		b.initErr = speaker.Init(b.rate, b.rate.N(b.buffer))
	})
	return b.initErr
}

// Open decodes path and prepares it paused at the start.
func (b *Backend) Open(path string) (player.Handle, error) {
	if err := b.init(); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open track: %w", err)
	}

	streamer, format, err := decode(f, path)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	return newHandle(b.rate, f, streamer, format), nil
}

func decode(f *os.File, path string) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		return mp3.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".wav":
		return wav.Decode(f)
	case ".ogg", ".oga":
		return vorbis.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// handle is one decoded track. Fields read by the speaker goroutine are
// guarded by speaker.Lock.
type handle struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	ended    chan struct{}

	queued bool
	closed bool
}

func newHandle(rate beep.SampleRate, f *os.File, s beep.StreamSeekCloser, format beep.Format) *handle {
	var src beep.Streamer = s
	if format.SampleRate != rate {
		src = beep.Resample(4, format.SampleRate, rate, s)
	}

	ctrl := &beep.Ctrl{Streamer: src, Paused: true}
	return &handle{
		file:     f,
		streamer: s,
		format:   format,
		ctrl:     ctrl,
		volume:   &effects.Volume{Streamer: ctrl, Base: 2},
		ended:    make(chan struct{}, 1),
	}
}

func (h *handle) Play() {
	speaker.Lock()
	if h.closed {
		speaker.Unlock()
		return
	}
	h.ctrl.Paused = false
	queued := h.queued
	h.queued = true
	speaker.Unlock()

	if !queued {
		speaker.Play(beep.Seq(h.volume, beep.Callback(h.finish)))
	}
}

// finish runs on the speaker goroutine with the speaker lock held.
func (h *handle) finish() {
	h.queued = false
	if h.closed {
		return
	}
	select {
	case h.ended <- struct{}{}:
	default:
	}
}

func (h *handle) Pause() {
	speaker.Lock()
	h.ctrl.Paused = true
	speaker.Unlock()
}

func (h *handle) Stop() {
	speaker.Lock()
	defer speaker.Unlock()

	h.ctrl.Paused = true
	if !h.closed {
		_ = h.streamer.Seek(0)
	}
}

func (h *handle) Seek(pos time.Duration) error {
	speaker.Lock()
	defer speaker.Unlock()

	if h.closed {
		return os.ErrClosed
	}
	n := h.format.SampleRate.N(pos)
	n = min(max(n, 0), max(h.streamer.Len()-1, 0))
	return h.streamer.Seek(n)
}

func (h *handle) SetVolume(percent int) {
	speaker.Lock()
	defer speaker.Unlock()

	h.volume.Silent = percent <= 0
	if percent > 0 {
		h.volume.Volume = math.Log2(float64(percent) / 100)
	}
}

func (h *handle) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()

	if h.closed {
		return 0
	}
	return h.format.SampleRate.D(h.streamer.Position())
}

func (h *handle) Duration() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()

	if h.closed {
		return 0
	}
	return h.format.SampleRate.D(h.streamer.Len())
}

func (h *handle) Ended() <-chan struct{} {
	return h.ended
}

func (h *handle) Close() error {
	speaker.Lock()
	if h.closed {
		speaker.Unlock()
		return nil
	}
	h.closed = true
	h.ctrl.Paused = true
	h.ctrl.Streamer = nil
	speaker.Unlock()

	err := h.streamer.Close()
	if ferr := h.file.Close(); ferr != nil && !errors.Is(ferr, os.ErrClosed) && err == nil {
		err = ferr
	}
	return err
}
