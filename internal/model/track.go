package model

import (
	"path/filepath"
	"strings"
)

// Track represents a single playable file.
//
// Track contains:
//   - Path, the file handed to the audio backend
//   - Name, the display name derived from the file name
//
// Example:
//
//	track := NewTrack("/music/Artist/Album/03 Song Title.flac")
//	// track.Name = "03 Song Title"
type Track struct {
	// Path is the absolute path of the audio file.
	Path string

	// Name is the file name without directory and extension.
	Name string
}

// NewTrack creates a Track for path, deriving its display name.
//
// Relative paths are made absolute when possible so the track stays valid
// regardless of later working-directory changes.
func NewTrack(path string) Track {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return Track{
		Path: path,
		Name: DisplayName(path),
	}
}

// NewTrackWithExtension creates a Track whose playable path is rebuilt from
// the base name of path plus a fixed extension.
//
// This mirrors music folders that are known to hold a single format:
//
//	NewTrackWithExtension("/music/Song.tmp", ".mp3")
//	// Path = "/music/Song.mp3", Name = "Song"
func NewTrackWithExtension(path, ext string) Track {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	name := DisplayName(path)
	return NewTrack(filepath.Join(filepath.Dir(path), name+ext))
}

// DisplayName returns the file name of path without its extension.
//
// Example:
//
//	DisplayName("/music/01 Intro.mp3")  // Returns "01 Intro"
//	DisplayName("/music/archive.tar.gz") // Returns "archive.tar"
func DisplayName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
