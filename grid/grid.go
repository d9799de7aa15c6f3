/*
Package grid implements a dense, resizable 2D store addressed by coordinate.

Indexing out of bounds is a programming error and panics; callers are
expected to bounds-check with geom.InBounds first.
*/
package grid

import "github.com/retrofab/tilefab/geom"

// Grid is a contiguous width×height store of T in raster order.
type Grid[T any] struct {
	dimen geom.Dimen
	cells []T
}

// New returns a zero-filled grid of the given dimensions.
func New[T any](d geom.Dimen) Grid[T] {
	return Grid[T]{dimen: d, cells: make([]T, d.Area())}
}

// Dimen returns the grid dimensions.
func (g *Grid[T]) Dimen() geom.Dimen { return g.dimen }

func (g *Grid[T]) index(c geom.Coord) int {
	if !geom.InBounds(c, g.dimen) {
		panic("grid: coordinate out of bounds")
	}
	return c.Y*g.dimen.W + c.X
}

// At returns the cell at c.
func (g *Grid[T]) At(c geom.Coord) T { return g.cells[g.index(c)] }

// Set writes the cell at c.
func (g *Grid[T]) Set(c geom.Coord, v T) { g.cells[g.index(c)] = v }

// Fill sets every cell to v.
func (g *Grid[T]) Fill(v T) {
	for i := range g.cells {
		g.cells[i] = v
	}
}

// Cells returns the backing store in raster order.
func (g *Grid[T]) Cells() []T { return g.cells }

// Resize changes the grid dimensions, preserving cells in the overlapping
// region and zero-filling the rest.
func (g *Grid[T]) Resize(d geom.Dimen) {
	if d == g.dimen {
		return
	}
	cells := make([]T, d.Area())
	w := g.dimen.W
	if d.W < w {
		w = d.W
	}
	h := g.dimen.H
	if d.H < h {
		h = d.H
	}
	for y := 0; y < h; y++ {
		copy(cells[y*d.W:y*d.W+w], g.cells[y*g.dimen.W:y*g.dimen.W+w])
	}
	g.dimen, g.cells = d, cells
}

// Clone returns a deep copy of the grid.
func (g *Grid[T]) Clone() Grid[T] {
	dup := Grid[T]{dimen: g.dimen, cells: make([]T, len(g.cells))}
	copy(dup.cells, g.cells)
	return dup
}
