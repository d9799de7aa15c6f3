package tilefab

import (
	"github.com/retrofab/tilefab/geom"
	"github.com/retrofab/tilefab/grid"
)

// SelectMap tracks which cells of a layer are selected, together with the
// minimal bounding rectangle of the selection. The rectangle is maintained
// incrementally: selecting grows it in O(1), while deselecting and inverting
// rescan, since a removed cell may have been the extremal one. Growth is the
// hot path (drag select); shrinking is rare.
type SelectMap struct {
	cells grid.Grid[bool]
	rect  geom.Rect
}

// NewSelectMap returns an empty selection over a d-sized area.
func NewSelectMap(d geom.Dimen) SelectMap {
	return SelectMap{cells: grid.New[bool](d)}
}

// Dimen returns the selectable area.
func (s *SelectMap) Dimen() geom.Dimen { return s.cells.Dimen() }

// HasSelection reports whether any cell is selected.
func (s *SelectMap) HasSelection() bool { return !s.rect.Empty() }

// Rect returns the minimal rectangle containing every selected cell, or the
// empty rectangle when nothing is selected.
func (s *SelectMap) Rect() geom.Rect { return s.rect }

// At reports whether the cell at c is selected.
func (s *SelectMap) At(c geom.Coord) bool { return s.cells.At(c) }

// SelectAll selects or deselects every cell.
func (s *SelectMap) SelectAll(selected bool) {
	s.cells.Fill(selected)
	if selected {
		s.rect = geom.ToRect(s.Dimen())
	} else {
		s.rect = geom.Rect{}
	}
}

// Invert flips the state of every cell.
func (s *SelectMap) Invert() {
	cells := s.cells.Cells()
	for i := range cells {
		cells[i] = !cells[i]
	}
	s.recalc(geom.ToRect(s.Dimen()))
}

// Select sets the state of a single cell. Out-of-bounds coordinates are
// ignored.
func (s *SelectMap) Select(c geom.Coord, selected bool) {
	if !geom.InBounds(c, s.Dimen()) {
		return
	}
	s.cells.Set(c, selected)
	if selected {
		s.rect = geom.GrowToContain(s.rect, c)
	} else {
		s.recalc(s.rect)
	}
}

// SelectRect sets the state of every cell within r, cropped to bounds.
func (s *SelectMap) SelectRect(r geom.Rect, selected bool) {
	r = geom.Crop(r, s.Dimen())
	if r.Empty() {
		return
	}
	r.Each(func(c geom.Coord) { s.cells.Set(c, selected) })
	if selected {
		s.rect = geom.GrowToContainRect(s.rect, r)
	} else {
		s.recalc(s.rect)
	}
}

// Resize changes the selectable area; cells outside the new bounds are
// discarded and the bounding rectangle recomputed.
func (s *SelectMap) Resize(d geom.Dimen) {
	s.cells.Resize(d)
	s.recalc(geom.ToRect(d))
}

// EachSelected calls fn for every selected cell in raster order.
func (s *SelectMap) EachSelected(fn func(geom.Coord)) {
	s.rect.Each(func(c geom.Coord) {
		if s.cells.At(c) {
			fn(c)
		}
	})
}

// recalc rescans the given range and replaces the cached rectangle with the
// tightest fit. Any previously selected cell is inside the old rectangle, so
// passing it (or the full bounds) is sufficient.
func (s *SelectMap) recalc(scan geom.Rect) {
	first := true
	var min, max geom.Coord
	scan.Each(func(c geom.Coord) {
		if !s.cells.At(c) {
			return
		}
		if first {
			min, max, first = c, c, false
			return
		}
		if c.X < min.X {
			min.X = c.X
		}
		if c.Y < min.Y {
			min.Y = c.Y
		}
		if c.X > max.X {
			max.X = c.X
		}
		if c.Y > max.Y {
			max.Y = c.Y
		}
	})
	if first {
		s.rect = geom.Rect{}
	} else {
		s.rect = geom.RectFromCoords(min, max)
	}
}
