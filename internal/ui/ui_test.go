package ui

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name     string
		progress float64
		slots    int
		want     string
	}{
		{"half", 0.5, 20, "[■■■■■■■■■■----------]"},
		{"empty", 0, 5, "[-----]"},
		{"full", 1, 5, "[■■■■■]"},
		{"floors", 0.39, 5, "[■----]"},
		{"clamps high", 3, 4, "[■■■■]"},
		{"clamps low", -1, 4, "[----]"},
		{"no slots", 0.5, 0, "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProgressBar(tt.progress, tt.slots, '■', '-'); got != tt.want {
				t.Errorf("ProgressBar(%v, %d) = %q, want %q", tt.progress, tt.slots, got, tt.want)
			}
		})
	}
}

func TestProgressBar_WidthIsConstant(t *testing.T) {
	for i := 0; i <= 100; i++ {
		bar := ProgressBar(float64(i)/100, 20, '■', '-')
		if n := utf8.RuneCountInString(bar); n != 22 {
			t.Fatalf("ProgressBar(%d%%) has %d runes, want 22", i, n)
		}
	}
}

func TestDurationBar(t *testing.T) {
	got := DurationBar(30*time.Second, 2*time.Minute, 4, '#', '-')
	if got != "00:30 [#---] 02:00" {
		t.Errorf("DurationBar() = %q", got)
	}

	if got := DurationBar(time.Second, 0, 4, '#', '-'); got != "[----]" {
		t.Errorf("DurationBar() with unknown duration = %q, want blank bar", got)
	}
}

func TestVolumeBar(t *testing.T) {
	got := VolumeBar(50, 10, '#', '-')
	if !strings.Contains(got, "[#####-----]") || !strings.HasSuffix(got, "50%") {
		t.Errorf("VolumeBar(50) = %q", got)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{-time.Second, "00:00"},
		{65 * time.Second, "01:05"},
		{3723 * time.Second, "1:02:03"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.d); got != tt.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestLayout(t *testing.T) {
	l := Layout{Width: 80, Height: 24}
	if l.Changed(80, 24) {
		t.Error("Changed() reported a change for equal size")
	}
	if !l.Changed(100, 24) {
		t.Error("Changed() missed a width change")
	}

	x, y, w, h, ok := l.Thumbnail()
	if !ok {
		t.Fatal("Thumbnail() should fit in 80x24")
	}
	if y != RowThumbnail || x != 2 || h != 9 || w != 18 {
		t.Errorf("Thumbnail() = %d,%d %dx%d", x, y, w, h)
	}

	if _, _, _, _, ok := (Layout{Width: 80, Height: 10}).Thumbnail(); ok {
		t.Error("Thumbnail() should not fit in 80x10")
	}
	if _, _, w, h, ok := (Layout{Width: 12, Height: 60}).Thumbnail(); !ok || w != 10 || h != 5 {
		t.Errorf("narrow Thumbnail() = %dx%d ok=%v, want 10x5", w, h, ok)
	}
}
