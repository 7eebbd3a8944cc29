// Package playlist provides the ordered, circular track list of a session.
package playlist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/flare/internal/model"
)

// NoSong is returned by NameAt for an index outside the playlist.
const NoSong = "none"

// ErrEmpty is returned when a playlist would contain no tracks.
var ErrEmpty = errors.New("no songs found in directory")

// LoadOptions controls how a directory is turned into tracks.
type LoadOptions struct {
	// Extensions restricts tracks to these file extensions (case-insensitive).
	// Empty means every regular file is a candidate track.
	Extensions []string

	// FixedExtension, when set, rebuilds each playable path as the file's
	// base name plus this extension instead of using the enumerated name.
	FixedExtension string

	// Start is the initial active index, clamped into range.
	Start int
}

// Playlist is an ordered list of tracks with one active entry.
//
// The active index is always valid. Relative moves wrap around both ends,
// absolute moves outside the list are ignored.
//
// Playlist is not safe for concurrent use; the session loop owns it.
type Playlist struct {
	tracks []model.Track
	active int
}

// New creates a playlist over tracks with the active index clamped to start.
//
// Returns ErrEmpty if tracks is empty.
func New(tracks []model.Track, start int) (*Playlist, error) {
	if len(tracks) == 0 {
		return nil, ErrEmpty
	}

	p := &Playlist{tracks: append([]model.Track(nil), tracks...)}
	p.active = min(max(start, 0), len(tracks)-1)
	return p, nil
}

// Load enumerates dir and builds a playlist from its regular files.
//
// Files are taken in directory order (sorted by name). Sub-directories are
// skipped.
func Load(dir string, opts LoadOptions) (*Playlist, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read music directory: %w", err)
	}

	var tracks []model.Track
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !matchesExtension(entry.Name(), opts.Extensions) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if opts.FixedExtension != "" {
			tracks = append(tracks, model.NewTrackWithExtension(path, opts.FixedExtension))
		} else {
			tracks = append(tracks, model.NewTrack(path))
		}
	}

	p, err := New(tracks, opts.Start)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	return p, nil
}

func matchesExtension(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	for _, want := range exts {
		if !strings.HasPrefix(want, ".") {
			want = "." + want
		}
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// Count returns the number of tracks.
func (p *Playlist) Count() int { return len(p.tracks) }

// ActiveIndex returns the index of the active track.
func (p *Playlist) ActiveIndex() int { return p.active }

// Active returns the active track.
func (p *Playlist) Active() model.Track { return p.tracks[p.active] }

// ActiveName returns the display name of the active track.
func (p *Playlist) ActiveName() string { return p.tracks[p.active].Name }

// ShiftActive moves the active index by delta, wrapping in both directions.
//
// Example, with 3 tracks and index 0:
//
//	p.ShiftActive(-1) // index 2
//	p.ShiftActive(4)  // index 0
func (p *Playlist) ShiftActive(delta int) {
	n := len(p.tracks)
	p.active = ((p.active+delta)%n + n) % n
}

// SetActive makes index the active track. Out-of-range indexes are ignored.
func (p *Playlist) SetActive(index int) {
	if index < 0 || index >= len(p.tracks) {
		return
	}
	p.active = index
}

// NameAt returns the display name at index, or NoSong when out of range.
func (p *Playlist) NameAt(index int) string {
	if index < 0 || index >= len(p.tracks) {
		return NoSong
	}
	return p.tracks[index].Name
}

// Offset returns the index delta positions away from the active track,
// wrapping like ShiftActive, without changing the active track.
func (p *Playlist) Offset(delta int) int {
	n := len(p.tracks)
	return ((p.active+delta)%n + n) % n
}
