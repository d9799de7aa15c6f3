package tilefab

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/retrofab/tilefab/geom"
)

// tightRect recomputes the bounding rectangle from scratch, which the
// incremental bookkeeping must always agree with.
func tightRect(s *SelectMap) geom.Rect {
	var r geom.Rect
	geom.ToRect(s.Dimen()).Each(func(c geom.Coord) {
		if s.At(c) {
			r = geom.GrowToContain(r, c)
		}
	})
	return r
}

func TestSelectRectInvariant(t *testing.T) {
	s := NewSelectMap(geom.Dimen{W: 8, H: 8})

	ops := []func(){
		func() { s.Select(geom.Coord{X: 3, Y: 3}, true) },
		func() { s.Select(geom.Coord{X: 6, Y: 1}, true) },
		func() { s.SelectRect(geom.Rect{C: geom.Coord{X: 0, Y: 5}, D: geom.Dimen{W: 2, H: 2}}, true) },
		func() { s.Select(geom.Coord{X: 6, Y: 1}, false) },
		func() { s.Invert() },
		func() { s.SelectRect(geom.Rect{C: geom.Coord{X: 0, Y: 0}, D: geom.Dimen{W: 8, H: 4}}, false) },
		func() { s.Resize(geom.Dimen{W: 5, H: 5}) },
		func() { s.SelectAll(true) },
		func() { s.SelectAll(false) },
	}
	for i, op := range ops {
		op()
		assert.Equal(t, tightRect(&s), s.Rect(), "op %d", i)
	}
}

func TestSelectBounds(t *testing.T) {
	s := NewSelectMap(geom.Dimen{W: 4, H: 4})

	// Out-of-bounds selects are ignored, partly out-of-bounds rectangles
	// are cropped
	s.Select(geom.Coord{X: -1, Y: 2}, true)
	assert.False(t, s.HasSelection())

	s.SelectRect(geom.Rect{C: geom.Coord{X: 2, Y: 2}, D: geom.Dimen{W: 4, H: 4}}, true)
	assert.Equal(t, geom.Rect{C: geom.Coord{X: 2, Y: 2}, D: geom.Dimen{W: 2, H: 2}}, s.Rect())
}

func TestSelectInvertTwice(t *testing.T) {
	s := NewSelectMap(geom.Dimen{W: 4, H: 4})
	s.Select(geom.Coord{X: 1, Y: 2}, true)

	s.Invert()
	s.Invert()

	assert.True(t, s.At(geom.Coord{X: 1, Y: 2}))
	assert.Equal(t, geom.Rect{C: geom.Coord{X: 1, Y: 2}, D: geom.Dimen{W: 1, H: 1}}, s.Rect())
}

func TestSelectDeselectShrinks(t *testing.T) {
	s := NewSelectMap(geom.Dimen{W: 8, H: 8})
	s.Select(geom.Coord{X: 1, Y: 1}, true)
	s.Select(geom.Coord{X: 6, Y: 6}, true)

	s.Select(geom.Coord{X: 6, Y: 6}, false)
	assert.Equal(t, geom.Rect{C: geom.Coord{X: 1, Y: 1}, D: geom.Dimen{W: 1, H: 1}}, s.Rect())

	s.Select(geom.Coord{X: 1, Y: 1}, false)
	assert.False(t, s.HasSelection())
}

func TestSelectResizeDiscards(t *testing.T) {
	s := NewSelectMap(geom.Dimen{W: 8, H: 8})
	s.Select(geom.Coord{X: 1, Y: 1}, true)
	s.Select(geom.Coord{X: 7, Y: 7}, true)

	s.Resize(geom.Dimen{W: 4, H: 4})
	assert.True(t, s.At(geom.Coord{X: 1, Y: 1}))
	assert.Equal(t, geom.Rect{C: geom.Coord{X: 1, Y: 1}, D: geom.Dimen{W: 1, H: 1}}, s.Rect())
}

func TestEachSelectedOrder(t *testing.T) {
	s := NewSelectMap(geom.Dimen{W: 4, H: 4})
	s.Select(geom.Coord{X: 2, Y: 0}, true)
	s.Select(geom.Coord{X: 1, Y: 1}, true)
	s.Select(geom.Coord{X: 3, Y: 1}, true)

	var got []geom.Coord
	s.EachSelected(func(c geom.Coord) { got = append(got, c) })
	assert.Equal(t, []geom.Coord{{X: 2, Y: 0}, {X: 1, Y: 1}, {X: 3, Y: 1}}, got)
}
