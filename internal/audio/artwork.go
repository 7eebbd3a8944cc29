package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/dhowden/tag"
	ioutils "github.com/handiism/flare/internal/io"
	"go.uber.org/zap"
)

// ArtworkPrefix is the file name prefix of extracted artwork temp files.
const ArtworkPrefix = "flare_art_"

// ErrNoArtwork is returned when a file carries no embedded picture.
var ErrNoArtwork = errors.New("no embedded artwork")

// Artwork is an embedded cover picture.
type Artwork struct {
	// Data holds the encoded image bytes.
	Data []byte

	// MIMEType is the declared type, e.g. "image/jpeg".
	MIMEType string
}

// ExtensionForMIME maps an artwork MIME type to a file extension.
//
// Example:
//
//	ExtensionForMIME("image/jpeg") // ".jpg"
//	ExtensionForMIME("image/png")  // ".png"
//	ExtensionForMIME("image/webp") // ".bin"
func ExtensionForMIME(mime string) string {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	default:
		return ".bin"
	}
}

// ReadArtwork returns the embedded cover picture of the file at path.
//
// ID3v2 tags are read first with the id3v2 library, preferring a front cover
// picture. Other containers (FLAC, MP4, OGG) fall back to the tag library.
// Returns ErrNoArtwork when neither finds a picture.
func ReadArtwork(path string) (*Artwork, error) {
	if art, err := readID3Artwork(path); err == nil {
		return art, nil
	}

	art, err := readTagArtwork(path)
	if err != nil {
		if errors.Is(err, ErrNoArtwork) {
			return nil, err
		}
		return nil, fmt.Errorf("read artwork: %w", err)
	}
	return art, nil
}

func readID3Artwork(path string) (*Artwork, error) {
	t, err := id3v2.Open(path, id3v2.Options{
		Parse:       true,
		ParseFrames: []string{"Attached picture"},
	})
	if err != nil {
		return nil, err
	}
	defer t.Close()

	var chosen *id3v2.PictureFrame
	for _, f := range t.GetFrames(t.CommonID("Attached picture")) {
		pic, ok := f.(id3v2.PictureFrame)
		if !ok || len(pic.Picture) == 0 {
			continue
		}
		if chosen == nil || pic.PictureType == id3v2.PTFrontCover {
			p := pic
			chosen = &p
		}
		if pic.PictureType == id3v2.PTFrontCover {
			break
		}
	}
	if chosen == nil {
		return nil, ErrNoArtwork
	}

	return &Artwork{Data: chosen.Picture, MIMEType: chosen.MimeType}, nil
}

func readTagArtwork(path string) (*Artwork, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return nil, ErrNoArtwork
		}
		return nil, err
	}

	pic := m.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return nil, ErrNoArtwork
	}

	mime := pic.MIMEType
	if mime == "" && pic.Ext != "" {
		mime = "image/" + strings.TrimPrefix(strings.ToLower(pic.Ext), ".")
	}
	return &Artwork{Data: pic.Data, MIMEType: mime}, nil
}

// ArtworkExtractor writes embedded artwork to temp files for the thumbnail
// renderer.
//
// Example:
//
//	extractor := NewArtworkExtractor(600, log)
//	path, err := extractor.Extract("/music/song.mp3")
//	if err == nil {
//	    defer os.Remove(path)
//	}
type ArtworkExtractor struct {
	images  *ioutils.ImageService
	maxSize int
	log     *zap.Logger
}

// NewArtworkExtractor creates an extractor that shrinks artwork to at most
// maxSize pixels per side. A maxSize of zero keeps the original picture.
func NewArtworkExtractor(maxSize int, log *zap.Logger) *ArtworkExtractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &ArtworkExtractor{
		images:  ioutils.NewImageService(),
		maxSize: maxSize,
		log:     log,
	}
}

// Extract writes the artwork of the audio file at path to a new temp file
// and returns the temp file path.
//
// The temp file extension follows the artwork MIME type. Ownership of the
// file passes to the caller.
func (e *ArtworkExtractor) Extract(path string) (string, error) {
	art, err := ReadArtwork(path)
	if err != nil {
		return "", err
	}

	data, mime := art.Data, art.MIMEType
	resized, ok, err := e.images.Fit(context.Background(), data, e.maxSize)
	switch {
	case err != nil:
		e.log.Debug("artwork kept at original size", zap.String("path", path), zap.Error(err))
	case ok:
		data, mime = resized, "image/jpeg"
	}

	return ioutils.WriteTempFile(ArtworkPrefix, ExtensionForMIME(mime), data)
}
