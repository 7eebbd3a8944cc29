package ui

// Screen rows of the player view.
const (
	RowTitle       = 0
	RowTrack       = 1
	RowDuration    = 3
	RowVolume      = 4
	RowStatus      = 5
	RowNextLabel   = 7
	RowNext        = 8
	RowPrevLabel   = 9
	RowPrev        = 10
	RowHelp        = 12
	RowThumbnail   = 14
	minThumbHeight = 4
)

// Layout is the last observed terminal size and the geometry derived from it.
type Layout struct {
	Width  int
	Height int
}

// Changed reports whether the terminal size differs from the layout.
func (l Layout) Changed(width, height int) bool {
	return l.Width != width || l.Height != height
}

// Thumbnail returns the cell rectangle for cover art below the text rows.
//
// Terminal cells are roughly twice as tall as wide, so the width is twice
// the height to keep square artwork square. ok is false when the terminal
// is too small to show artwork.
func (l Layout) Thumbnail() (x, y, w, h int, ok bool) {
	h = l.Height - RowThumbnail - 1
	if h < minThumbHeight {
		return 0, 0, 0, 0, false
	}
	w = 2 * h
	if w > l.Width-2 {
		w = l.Width - 2
		h = w / 2
	}
	if h < minThumbHeight {
		return 0, 0, 0, 0, false
	}
	return 2, RowThumbnail, w, h, true
}
