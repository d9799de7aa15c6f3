package tilefab

import (
	"encoding/binary"

	"github.com/retrofab/tilefab/chr"
	"github.com/retrofab/tilefab/geom"
)

// RGB is a display color.
type RGB struct {
	R, G, B uint8
}

// ClassField is one field definition of an object class.
type ClassField struct {
	Name string
	Type string
}

// ObjectClass is a named schema for placed objects: a macro identifier, a
// display color and an ordered list of field definitions. Objects reference
// classes by name only.
type ObjectClass struct {
	Name   string
	Macro  string
	Color  RGB
	Fields []ClassField
}

// Object is a placed, typed entity: a signed position, a name, a weak
// class-name reference and an open field-name to value mapping. Fields not
// present default to the empty value.
type Object struct {
	Position geom.Coord
	Name     string
	Class    string
	Fields   map[string]string
}

// Clone returns a deep copy of the object.
func (o Object) Clone() Object {
	dup := o
	if o.Fields != nil {
		dup.Fields = make(map[string]string, len(o.Fields))
		for k, v := range o.Fields {
			dup.Fields[k] = v
		}
	}
	return dup
}

// Level owns one graphics layer, one collision layer addressed at a coarser
// density, and an ordered object list whose insertion order is the implicit
// object index used by undo commands and the persisted format.
type Level struct {
	Name      string
	MacroName string
	CHRName   string
	Palette   uint8

	CHR       *CHRLayer
	Collision *CollisionLayer
	Objects   []Object

	// Bitmaps caches renderable tiles per CHR bank; derived state,
	// rebuilt by RefreshBitmaps and never persisted.
	Bitmaps map[int][]chr.AttrBitmaps
}

const defaultLevelEdge = 24

// NewLevel returns a level with the default canvas dimensions.
func NewLevel() *Level {
	l := &Level{
		Name:      "level",
		CHR:       NewCHRLayer(),
		Collision: NewCollisionLayer(),
	}
	d := geom.Dimen{W: defaultLevelEdge, H: defaultLevelEdge}
	l.Resize(d, d)
	return l
}

// Dimen returns the graphics canvas dimensions.
func (l *Level) Dimen() geom.Dimen { return l.CHR.CanvasDimen() }

// Resize resizes the graphics and collision canvases.
func (l *Level) Resize(d, collisionDimen geom.Dimen) {
	l.CHR.CanvasResize(d)
	l.Collision.CanvasResize(collisionDimen)
}

// Layer returns the layer currently being edited: the collision layer when
// the active attribute selects it, otherwise the graphics layer.
func (l *Level) Layer() TileLayer {
	if l.CHR.Attr >= ActiveCollision {
		return l.Collision
	}
	return l.CHR
}

// ClearBitmaps drops the derived bitmap cache.
func (l *Level) ClearBitmaps() { l.Bitmaps = nil }

// RefreshBitmaps rebuilds the per-bank bitmap cache from the given CHR
// sources and 16-entry palette row.
func (l *Level) RefreshBitmaps(files []*CHRFile, palette [16]uint8) {
	l.Bitmaps = make(map[int][]chr.AttrBitmaps, len(files))
	for _, f := range files {
		l.Bitmaps[int(f.ID)] = chr.ToBitmaps(f.Data, palette, f.Indices)
	}
}

// metatileKey encodes an N*N block's tile sequence and collision value so
// distinct pairs compare exactly.
func (l *Level) metatileKey(x, y, size int) string {
	d := l.Dimen()
	buf := make([]byte, 0, size*size*4+1)
	for yy := 0; yy < size; yy++ {
		for xx := 0; xx < size; xx++ {
			var tile uint32
			if x+xx < d.W && y+yy < d.H {
				tile = l.CHR.Tiles().At(geom.Coord{X: x + xx, Y: y + yy})
			}
			buf = binary.LittleEndian.AppendUint32(buf, tile)
		}
	}

	var collision uint32
	if cc := (geom.Coord{X: x / size, Y: y / size}); geom.InBounds(cc, l.Collision.Tiles().Dimen()) {
		collision = l.Collision.Tiles().At(cc)
	}
	buf = append(buf, byte(collision))

	return string(buf)
}

// CountMetatiles groups the graphics canvas into non-overlapping size*size
// blocks, zero-padded past the edges, pairs each block with the collision
// value at the corresponding coarser coordinate, and returns the number of
// distinct pairs. When selectMax is positive, every cell of each block
// whose pair occurs at most selectMax times is additionally selected on the
// graphics canvas, replacing any prior canvas selection.
func (l *Level) CountMetatiles(size, selectMax int) int {
	if size <= 0 {
		return 0
	}

	if selectMax > 0 {
		l.CHR.Canvas().SelectAll(false)
	}

	d := l.Dimen()
	counts := make(map[string]int)
	for y := 0; y < d.H; y += size {
		for x := 0; x < d.W; x += size {
			counts[l.metatileKey(x, y, size)]++
		}
	}

	if selectMax > 0 {
		for y := 0; y < d.H; y += size {
			for x := 0; x < d.W; x += size {
				if counts[l.metatileKey(x, y, size)] > selectMax {
					continue
				}
				for yy := 0; yy < size; yy++ {
					for xx := 0; xx < size; xx++ {
						l.CHR.Canvas().Select(geom.Coord{X: x + xx, Y: y + yy}, true)
					}
				}
			}
		}
	}

	return len(counts)
}
