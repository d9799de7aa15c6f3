/*
Package geom provides the integer 2D primitives shared by every editable
layer: coordinates, dimensions and rectangles, plus the range helpers used
to iterate them.

A Rect is either empty or exactly the minimal box enclosing a set of cells;
the zero Rect is empty.
*/
package geom

// Coord is a signed 2D cell coordinate.
type Coord struct {
	X, Y int
}

// Add returns c translated by o.
func (c Coord) Add(o Coord) Coord { return Coord{c.X + o.X, c.Y + o.Y} }

// Sub returns c translated by -o.
func (c Coord) Sub(o Coord) Coord { return Coord{c.X - o.X, c.Y - o.Y} }

// Dimen is a width and height in cells.
type Dimen struct {
	W, H int
}

// Empty reports whether d covers no cells.
func (d Dimen) Empty() bool { return d.W <= 0 || d.H <= 0 }

// Area returns the number of cells covered by d.
func (d Dimen) Area() int {
	if d.Empty() {
		return 0
	}
	return d.W * d.H
}

// Each calls fn for every coordinate within d in raster order.
func (d Dimen) Each(fn func(Coord)) {
	for y := 0; y < d.H; y++ {
		for x := 0; x < d.W; x++ {
			fn(Coord{x, y})
		}
	}
}

// InBounds reports whether c lies within a d-sized area anchored at the
// origin.
func InBounds(c Coord, d Dimen) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < d.W && c.Y < d.H
}

// Rect is a rectangle anchored at C covering D cells.
type Rect struct {
	C Coord
	D Dimen
}

// ToRect returns the rectangle covering d anchored at the origin.
func ToRect(d Dimen) Rect { return Rect{Coord{}, d} }

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool { return r.D.Empty() }

// Max returns the exclusive far corner of r.
func (r Rect) Max() Coord { return Coord{r.C.X + r.D.W, r.C.Y + r.D.H} }

// Contains reports whether c lies within r.
func (r Rect) Contains(c Coord) bool {
	return !r.Empty() &&
		c.X >= r.C.X && c.Y >= r.C.Y &&
		c.X < r.C.X+r.D.W && c.Y < r.C.Y+r.D.H
}

// Each calls fn for every coordinate within r in raster order.
func (r Rect) Each(fn func(Coord)) {
	for y := r.C.Y; y < r.C.Y+r.D.H; y++ {
		for x := r.C.X; x < r.C.X+r.D.W; x++ {
			fn(Coord{x, y})
		}
	}
}

// RectFromCoords returns the minimal rectangle containing both min and max,
// which must be ordered.
func RectFromCoords(min, max Coord) Rect {
	return Rect{min, Dimen{max.X - min.X + 1, max.Y - min.Y + 1}}
}

// GrowToContain returns r grown to include c. Growing an empty rectangle
// yields the single-cell rectangle at c.
func GrowToContain(r Rect, c Coord) Rect {
	if r.Empty() {
		return Rect{c, Dimen{1, 1}}
	}
	min := r.C
	max := Coord{r.C.X + r.D.W - 1, r.C.Y + r.D.H - 1}
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
	return RectFromCoords(min, max)
}

// GrowToContainRect returns r grown to include every cell of o.
func GrowToContainRect(r, o Rect) Rect {
	if o.Empty() {
		return r
	}
	r = GrowToContain(r, o.C)
	return GrowToContain(r, Coord{o.C.X + o.D.W - 1, o.C.Y + o.D.H - 1})
}

// Crop returns the intersection of r with a d-sized area anchored at the
// origin. The result is the zero Rect when nothing intersects.
func Crop(r Rect, d Dimen) Rect {
	minX, minY := r.C.X, r.C.Y
	maxX, maxY := r.C.X+r.D.W, r.C.Y+r.D.H
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > d.W {
		maxX = d.W
	}
	if maxY > d.H {
		maxY = d.H
	}
	if minX >= maxX || minY >= maxY {
		return Rect{}
	}
	return Rect{Coord{minX, minY}, Dimen{maxX - minX, maxY - minY}}
}
