// Package ui renders the text shown by the player screen.
package ui

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ProgressBar renders a bracketed bar of slots glyphs with
// floor(progress*slots) filled, progress clamped to [0, 1].
//
//	ProgressBar(0.5, 20, '■', '-') // "[■■■■■■■■■■----------]"
func ProgressBar(progress float64, slots int, filled, empty rune) string {
	if slots <= 0 {
		return "[]"
	}
	if math.IsNaN(progress) {
		progress = 0
	}
	progress = min(max(progress, 0), 1)
	n := int(math.Floor(progress * float64(slots)))

	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(strings.Repeat(string(filled), n))
	b.WriteString(strings.Repeat(string(empty), slots-n))
	b.WriteByte(']')
	return b.String()
}

// BlankBar is a bar with no filled slots.
func BlankBar(slots int, empty rune) string {
	return ProgressBar(0, slots, empty, empty)
}

// DurationBar renders "mm:ss [bar] mm:ss" for elapsed over duration.
// An unknown duration renders the blank bar only.
func DurationBar(elapsed, duration time.Duration, slots int, filled, empty rune) string {
	if duration <= 0 {
		return BlankBar(slots, empty)
	}
	progress := float64(elapsed) / float64(duration)
	return fmt.Sprintf("%s %s %s", FormatClock(elapsed), ProgressBar(progress, slots, filled, empty), FormatClock(duration))
}

// VolumeBar renders "  vol [bar] NN%" for a volume in percent.
func VolumeBar(volume, slots int, filled, empty rune) string {
	return fmt.Sprintf("  vol %s %d%%", ProgressBar(float64(volume)/100, slots, filled, empty), volume)
}

// FormatClock formats d as mm:ss, growing to h:mm:ss past an hour.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, (total/60)%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
