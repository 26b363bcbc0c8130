package board

import "stickies/internal/model"

// Layout is the geometry the placement policy works with, in terminal cells.
type Layout struct {
	NoteWidth  int
	NoteHeight int
	Padding    int
	// HeaderReserve keeps new notes below the palette bar.
	HeaderReserve int
}

func DefaultLayout() Layout {
	return Layout{NoteWidth: 24, NoteHeight: 9, Padding: 1, HeaderReserve: 2}
}

// Place picks a random origin for a new note inside the viewport. When the
// viewport is smaller than a note plus padding the lower bound wins. Overlap
// with existing notes is not checked.
func (l Layout) Place(viewportW, viewportH int, intN func(int) int) model.Position {
	minX := l.Padding
	maxX := viewportW - l.NoteWidth - l.Padding
	minY := l.Padding + l.HeaderReserve
	maxY := viewportH - l.NoteHeight - l.Padding
	return model.Position{X: pickBetween(minX, maxX, intN), Y: pickBetween(minY, maxY, intN)}
}

func pickBetween(lo, hi int, intN func(int) int) int {
	if hi <= lo {
		return lo
	}
	return lo + intN(hi-lo+1)
}
