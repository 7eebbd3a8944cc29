// Package audio reads metadata embedded in audio files.
//
// # Artwork
//
// ReadArtwork returns the embedded cover picture of a file. ID3v2 tags are
// parsed with the id3v2 library; FLAC, MP4 and OGG files fall back to the
// generic tag reader:
//
//	art, err := audio.ReadArtwork("/music/song.mp3")
//	if errors.Is(err, audio.ErrNoArtwork) {
//	    // nothing embedded
//	}
//
// ArtworkExtractor goes one step further and writes the picture to a temp
// file for the terminal image renderer:
//
//	extractor := audio.NewArtworkExtractor(600, log)
//	path, err := extractor.Extract("/music/song.flac")
//
// Every extraction failure is recoverable; callers treat it as "no artwork".
package audio
