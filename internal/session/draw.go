package session

import (
	"github.com/handiism/flare/internal/player"
	"github.com/handiism/flare/internal/ui"
)

const indent = 2

func (s *Session) redraw(force bool) {
	s.drawStatic(force)
	s.drawVolume(s.engine.Volume())
	s.drawDuration(s.engine.Snapshot())
	s.drawStatus()
}

// drawStatic draws the rows that only change with the track.
func (s *Session) drawStatic(force bool) {
	p := s.playlist

	s.out.ClearAndWriteAt(0, ui.RowTitle, ui.TitleStyle.Render("Now Playing:"))
	s.out.ClearAndWriteAt(indent, ui.RowTrack, ui.TrackStyle.Render(p.ActiveName()))

	s.out.ClearAndWriteAt(0, ui.RowNextLabel, ui.DimStyle.Render("Next:"))
	s.out.ClearAndWriteAt(indent, ui.RowNext, p.NameAt(p.Offset(1)))
	s.out.ClearAndWriteAt(0, ui.RowPrevLabel, ui.DimStyle.Render("Previous:"))
	s.out.ClearAndWriteAt(indent, ui.RowPrev, p.NameAt(p.Offset(-1)))

	s.out.ClearAndWriteAt(0, ui.RowHelp, ui.DimStyle.Render(ui.HelpText))

	if s.thumb.Supported() {
		s.thumb.Draw(force)
	}
}

func (s *Session) drawDuration(snap player.Snapshot) {
	bar := ui.DurationBar(snap.Position, snap.Duration, s.cfg.BarSlots, s.cfg.FilledGlyph, s.cfg.EmptyGlyph)
	s.out.ClearAndWriteAt(indent, ui.RowDuration, bar)
}

func (s *Session) drawVolume(volume int) {
	bar := ui.VolumeBar(volume, s.cfg.BarSlots, s.cfg.FilledGlyph, s.cfg.EmptyGlyph)
	s.out.ClearAndWriteAt(indent, ui.RowVolume, bar)
}

func (s *Session) drawStatus() {
	if s.loadErr != nil {
		s.out.ClearAndWriteAt(indent, ui.RowStatus, ui.ErrorStyle.Render("Error: "+s.loadErr.Error()))
		return
	}

	var status string
	switch s.engine.State() {
	case player.Playing:
		status = "Playing"
	case player.Paused:
		status = "Paused"
	case player.Stopped:
		status = "Stopped"
	}
	s.out.ClearAndWriteAt(indent, ui.RowStatus, ui.StatusStyle.Render(status))
}
