package player

import "time"

// Backend decodes audio files for playback.
type Backend interface {
	// Open decodes the file at path and returns a handle positioned at the
	// start, not yet playing.
	Open(path string) (Handle, error)
}

// Handle controls output of one opened track.
//
// Implementations must be safe for use from multiple goroutines.
type Handle interface {
	// Play starts or resumes output.
	Play()

	// Pause suspends output, keeping the position.
	Pause()

	// Stop halts output and rewinds to the start.
	Stop()

	// Seek moves the read position.
	Seek(pos time.Duration) error

	// SetVolume applies a volume in percent, 0 to 100.
	SetVolume(percent int)

	// Position returns the current read position.
	Position() time.Duration

	// Duration returns the track length, or 0 if unknown.
	Duration() time.Duration

	// Ended receives a value each time the stream runs out.
	Ended() <-chan struct{}

	// Close stops output and releases decoder resources.
	Close() error
}

// ArtworkSource writes a track's embedded artwork to a temp file.
type ArtworkSource interface {
	// Extract returns the temp file path. Ownership of the file passes to
	// the caller.
	Extract(path string) (string, error)
}
