package player_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/handiism/flare/internal/model"
	"github.com/handiism/flare/internal/player"
	"github.com/handiism/flare/internal/player/playertest"
)

const trackLen = 10 * time.Second

var (
	song1 = model.Track{Path: "/music/one.mp3", Name: "one"}
	song2 = model.Track{Path: "/music/two.mp3", Name: "two"}
)

func newEngine(t *testing.T, tick time.Duration) (*player.Engine, *playertest.Backend) {
	t.Helper()
	backend := playertest.NewBackend(trackLen)
	e := player.NewEngine(backend, player.Options{Volume: 50, TickInterval: tick})
	t.Cleanup(func() { _ = e.Close() })
	return e, backend
}

func waitFor(t *testing.T, e *player.Engine, kind player.EventKind) player.Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-e.Events():
			if ev.Kind == kind {
				return ev
			}
		case <-timeout:
			t.Fatalf("no event of kind %d", kind)
		}
	}
}

func TestEngine_InitialState(t *testing.T) {
	e, _ := newEngine(t, time.Hour)

	if e.State() != player.Idle {
		t.Errorf("State() = %v, want Idle", e.State())
	}
	if e.Volume() != 50 {
		t.Errorf("Volume() = %d, want 50", e.Volume())
	}
	if err := e.Seek(time.Second); !errors.Is(err, player.ErrNoTrack) {
		t.Errorf("Seek() error = %v, want ErrNoTrack", err)
	}

	e.Play()
	if e.State() != player.Idle {
		t.Errorf("Play() without a track changed state to %v", e.State())
	}
}

func TestEngine_Transitions(t *testing.T) {
	e, backend := newEngine(t, time.Hour)

	if err := e.LoadTrack(song1); err != nil {
		t.Fatal(err)
	}
	if e.State() != player.Loaded {
		t.Fatalf("after LoadTrack State() = %v, want Loaded", e.State())
	}

	h := backend.Last()
	steps := []struct {
		name    string
		do      func()
		want    player.State
		playing bool
	}{
		{"play", e.Play, player.Playing, true},
		{"pause", e.Pause, player.Paused, false},
		{"resume", e.Pause, player.Playing, true},
		{"stop", e.Stop, player.Stopped, false},
		{"pause while stopped", e.Pause, player.Stopped, false},
		{"play again", e.Play, player.Playing, true},
	}

	for _, step := range steps {
		step.do()
		if got := e.State(); got != step.want {
			t.Errorf("%s: State() = %v, want %v", step.name, got, step.want)
		}
		if h.Playing() != step.playing {
			t.Errorf("%s: backend playing = %v, want %v", step.name, h.Playing(), step.playing)
		}
	}
}

func TestEngine_LoadTrackReplacesHandle(t *testing.T) {
	e, backend := newEngine(t, time.Hour)

	_ = e.LoadTrack(song1)
	e.Play()
	first := backend.Last()
	gen := e.Generation()

	if err := e.LoadTrack(song2); err != nil {
		t.Fatal(err)
	}

	if !first.Closed() {
		t.Error("previous handle not closed")
	}
	if first.Playing() {
		t.Error("previous handle still playing")
	}
	if e.Generation() != gen+1 {
		t.Errorf("Generation() = %d, want %d", e.Generation(), gen+1)
	}
	if got := e.Snapshot().Track; got != song2 {
		t.Errorf("Snapshot().Track = %+v, want %+v", got, song2)
	}
}

func TestEngine_LoadFailureStaysIdle(t *testing.T) {
	e, backend := newEngine(t, time.Hour)
	errCorrupt := errors.New("corrupt frame")
	backend.FailOn(song2.Path, errCorrupt)

	_ = e.LoadTrack(song1)
	e.Play()

	err := e.LoadTrack(song2)
	if !errors.Is(err, errCorrupt) {
		t.Fatalf("LoadTrack() error = %v, want wrapped %v", err, errCorrupt)
	}
	if e.State() != player.Idle {
		t.Errorf("State() = %v, want Idle", e.State())
	}

	e.Play()
	if e.State() != player.Idle {
		t.Errorf("Play() after failed load entered %v", e.State())
	}
}

func TestEngine_VolumeClamp(t *testing.T) {
	tests := []struct {
		name  string
		start int
		do    func(e *player.Engine)
		want  int
	}{
		{"increase past max", 95, func(e *player.Engine) { e.IncreaseVolume(10) }, 100},
		{"decrease past min", 3, func(e *player.Engine) { e.DecreaseVolume(10) }, 0},
		{"set above range", 50, func(e *player.Engine) { e.SetVolume(250) }, 100},
		{"set below range", 50, func(e *player.Engine) { e.SetVolume(-1) }, 0},
		{"step", 50, func(e *player.Engine) { e.IncreaseVolume(1) }, 51},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, backend := newEngine(t, time.Hour)
			_ = e.LoadTrack(song1)
			e.SetVolume(tt.start)

			tt.do(e)

			if e.Volume() != tt.want {
				t.Errorf("Volume() = %d, want %d", e.Volume(), tt.want)
			}
			if backend.Last().Volume() != tt.want {
				t.Errorf("backend volume = %d, want %d", backend.Last().Volume(), tt.want)
			}
		})
	}
}

func TestEngine_VolumeEvent(t *testing.T) {
	e, _ := newEngine(t, time.Hour)

	e.SetVolume(70)

	ev := waitFor(t, e, player.EventVolume)
	if ev.Snapshot.Volume != 70 {
		t.Errorf("event volume = %d, want 70", ev.Snapshot.Volume)
	}
}

func TestEngine_Seek(t *testing.T) {
	tests := []struct {
		name string
		pos  time.Duration
		want time.Duration
	}{
		{"inside", 4 * time.Second, 4 * time.Second},
		{"past end", 15 * time.Second, 9999 * time.Millisecond},
		{"at end", trackLen, 9999 * time.Millisecond},
		{"negative", -3 * time.Second, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, backend := newEngine(t, time.Hour)
			_ = e.LoadTrack(song1)

			if err := e.Seek(tt.pos); err != nil {
				t.Fatal(err)
			}
			if got := backend.Last().Position(); got != tt.want {
				t.Errorf("position = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngine_SeekUnknownDuration(t *testing.T) {
	e, backend := newEngine(t, time.Hour)
	backend.SetDuration(song1.Path, 0)
	_ = e.LoadTrack(song1)

	if err := e.Seek(5 * time.Second); err != nil {
		t.Fatal(err)
	}
	if got := backend.Last().Position(); got != 0 {
		t.Errorf("position = %v, want 0", got)
	}
}

func TestEngine_SeekRelativeResumes(t *testing.T) {
	for _, setup := range []struct {
		name string
		do   func(e *player.Engine)
	}{
		{"paused", func(e *player.Engine) { e.Play(); e.Pause() }},
		{"stopped", func(e *player.Engine) { e.Play(); e.Stop() }},
	} {
		t.Run(setup.name, func(t *testing.T) {
			e, backend := newEngine(t, time.Hour)
			_ = e.LoadTrack(song1)
			setup.do(e)
			backend.Last().SetPosition(2 * time.Second)

			if err := e.SeekRelative(5); err != nil {
				t.Fatal(err)
			}

			if e.State() != player.Playing {
				t.Errorf("State() = %v, want Playing", e.State())
			}
			if got := backend.Last().Position(); got != 7*time.Second {
				t.Errorf("position = %v, want 7s", got)
			}
		})
	}
}

func TestEngine_SeekRelativeBackwardClamps(t *testing.T) {
	e, backend := newEngine(t, time.Hour)
	_ = e.LoadTrack(song1)
	e.Play()
	backend.Last().SetPosition(2 * time.Second)

	if err := e.SeekRelative(-5); err != nil {
		t.Fatal(err)
	}
	if got := backend.Last().Position(); got != 0 {
		t.Errorf("position = %v, want 0", got)
	}
}

func TestEngine_PlayFromStoppedRestarts(t *testing.T) {
	e, backend := newEngine(t, time.Hour)
	_ = e.LoadTrack(song1)
	e.Play()
	backend.Last().Finish()
	waitFor(t, e, player.EventTrackEnded)

	e.Play()

	if got := backend.Last().Position(); got != 0 {
		t.Errorf("position = %v, want 0", got)
	}
}

func TestEngine_TrackEndedOnce(t *testing.T) {
	e, backend := newEngine(t, time.Hour)
	_ = e.LoadTrack(song1)
	e.Play()
	gen := e.Generation()

	h := backend.Last()
	h.Finish()
	ev := waitFor(t, e, player.EventTrackEnded)
	if ev.Snapshot.Generation != gen {
		t.Errorf("event generation = %d, want %d", ev.Snapshot.Generation, gen)
	}
	if e.State() != player.Stopped {
		t.Errorf("State() = %v, want Stopped", e.State())
	}

	h.Finish()
	deadline := time.After(100 * time.Millisecond)
	for {
		select {
		case ev := <-e.Events():
			if ev.Kind == player.EventTrackEnded {
				t.Fatal("second TrackEnded for the same playthrough")
			}
		case <-deadline:
			return
		}
	}
}

func TestEngine_TrackEndedWhilePaused(t *testing.T) {
	e, backend := newEngine(t, time.Hour)
	_ = e.LoadTrack(song1)
	e.Play()
	e.Pause()

	backend.Last().Finish()
	waitFor(t, e, player.EventTrackEnded)

	if e.State() != player.Stopped {
		t.Errorf("State() = %v, want Stopped", e.State())
	}
}

func TestEngine_EndOfOldTrackIgnored(t *testing.T) {
	e, backend := newEngine(t, time.Hour)
	_ = e.LoadTrack(song1)
	e.Play()
	old := backend.Last()

	_ = e.LoadTrack(song2)
	e.Play()
	old.Finish()

	select {
	case ev := <-e.Events():
		if ev.Kind == player.EventTrackEnded {
			t.Fatal("end of a replaced track was reported")
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEngine_Ticks(t *testing.T) {
	e, backend := newEngine(t, 5*time.Millisecond)
	_ = e.LoadTrack(song1)

	e.Play()
	first := waitFor(t, e, player.EventTick)
	if first.Snapshot.Duration != trackLen {
		t.Errorf("tick duration = %v, want %v", first.Snapshot.Duration, trackLen)
	}

	backend.Last().SetPosition(3 * time.Second)
	for {
		ev := waitFor(t, e, player.EventTick)
		if ev.Snapshot.Position == 3*time.Second {
			if ev.Snapshot.State != player.Playing {
				t.Errorf("tick state = %v, want Playing", ev.Snapshot.State)
			}
			break
		}
	}
}

func TestEngine_StopWithTicker(t *testing.T) {
	e, _ := newEngine(t, time.Millisecond)
	_ = e.LoadTrack(song1)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				e.Play()
				_ = e.Seek(time.Duration(j) * time.Millisecond)
				e.Stop()
			}
		}()
	}
	wg.Wait()

	if e.State() != player.Stopped {
		t.Errorf("State() = %v, want Stopped", e.State())
	}
}

func TestEngine_Artwork(t *testing.T) {
	backend := playertest.NewBackend(trackLen)
	art := playertest.NewArtwork(map[string]string{song1.Path: "/tmp/flare_art_1.jpg"})
	e := player.NewEngine(backend, player.Options{Artwork: art})
	defer e.Close()

	_ = e.LoadTrack(song1)
	if got := e.ArtworkPath(); got != "/tmp/flare_art_1.jpg" {
		t.Errorf("ArtworkPath() = %q", got)
	}

	_ = e.LoadTrack(song2)
	if got := e.ArtworkPath(); got != "" {
		t.Errorf("ArtworkPath() = %q, want empty", got)
	}
}

func TestEngine_Close(t *testing.T) {
	e, backend := newEngine(t, time.Hour)
	_ = e.LoadTrack(song1)
	e.Play()

	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if e.State() != player.Idle {
		t.Errorf("State() = %v, want Idle", e.State())
	}
	if !backend.Last().Closed() {
		t.Error("handle not closed")
	}
}

func TestState_String(t *testing.T) {
	if got := player.Paused.String(); got != "Paused" {
		t.Errorf("String() = %q", got)
	}
	if got := player.State(42).String(); got != "State(42)" {
		t.Errorf("String() = %q", got)
	}
}
