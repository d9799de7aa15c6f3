package tilefab

import (
	"github.com/retrofab/tilefab/geom"
	"github.com/retrofab/tilefab/grid"
)

// Layer formats, also used to tag detached tile buffers.
const (
	LayerColor = iota
	LayerCHR
	LayerCollision
)

// TransparentTile is the sentinel tile value meaning "no tile here". It can
// never collide with a real encoded value and makes paste and fill-paste
// transparent over unset cells.
const TransparentTile = ^uint32(0)

// ActiveCollision is the attribute value meaning the collision layer, not
// the graphics layer, is being edited.
const ActiveCollision = 4

// Graphics tile encoding: a 14-bit tile index, a 2-bit attribute and the
// CHR bank id in the high bits.
const (
	tileIndexMask = 0x3FFF
	attrShift     = 14
	bankShift     = 16
)

// TileIndex extracts the 14-bit tile index from an encoded graphics tile.
func TileIndex(t uint32) uint32 { return t & tileIndexMask }

// TileAttr extracts the 2-bit attribute from an encoded graphics tile.
func TileAttr(t uint32) uint32 { return t >> attrShift & 3 }

// TileBank extracts the CHR bank id from an encoded graphics tile.
func TileBank(t uint32) int { return int(t >> bankShift) }

// WithBank replaces the CHR bank id of an encoded graphics tile.
func WithBank(t uint32, bank int) uint32 {
	return t&0xFFFF | uint32(bank)<<bankShift
}

// TileLayer is an editable canvas of encoded tile values paired with a
// fixed picker selection (the source palette or catalog) and a canvas
// selection (the destination region). The encoding of a tile value is
// layer-specific.
type TileLayer interface {
	Format() int
	CanvasDimen() geom.Dimen
	CanvasResize(geom.Dimen)
	Get(geom.Coord) uint32
	Set(geom.Coord, uint32)
	// Reset writes the layer's empty encoding, which is not necessarily
	// zero.
	Reset(geom.Coord)
	// ToTile encodes a picker coordinate as a tile value; ToPick is its
	// inverse over the bits the picker controls.
	ToTile(geom.Coord) uint32
	ToPick(uint32) geom.Coord
	// Dropper reads the tile at a canvas coordinate and reduces the
	// picker selection to the cell it decodes to.
	Dropper(geom.Coord)
	Picker() *SelectMap
	Canvas() *SelectMap
	Tiles() *grid.Grid[uint32]
}

// layer carries the state and row-major encoding shared by every variant.
type layer struct {
	picker SelectMap
	canvas SelectMap
	tiles  grid.Grid[uint32]
}

func newLayer(pickerDimen, canvasDimen geom.Dimen) layer {
	return layer{
		picker: NewSelectMap(pickerDimen),
		canvas: NewSelectMap(canvasDimen),
		tiles:  grid.New[uint32](canvasDimen),
	}
}

func (l *layer) CanvasDimen() geom.Dimen { return l.tiles.Dimen() }

func (l *layer) CanvasResize(d geom.Dimen) {
	l.canvas.Resize(d)
	l.tiles.Resize(d)
}

func (l *layer) Get(c geom.Coord) uint32    { return l.tiles.At(c) }
func (l *layer) Set(c geom.Coord, v uint32) { l.tiles.Set(c, v) }
func (l *layer) Reset(c geom.Coord)         { l.Set(c, 0) }

func (l *layer) ToTile(pick geom.Coord) uint32 {
	return uint32(pick.X + pick.Y*l.picker.Dimen().W)
}

func (l *layer) ToPick(t uint32) geom.Coord {
	w := l.picker.Dimen().W
	return geom.Coord{X: int(t) % w, Y: int(t) / w}
}

func (l *layer) Picker() *SelectMap        { return &l.picker }
func (l *layer) Canvas() *SelectMap        { return &l.canvas }
func (l *layer) Tiles() *grid.Grid[uint32] { return &l.tiles }

func dropper(l TileLayer, at geom.Coord) {
	l.Picker().SelectAll(false)
	l.Picker().Select(l.ToPick(l.Get(at)), true)
}

// ColorLayer is the palette editor: a 4x16 picker of 6-bit color codes laid
// out column-major, over a canvas of one 25-entry row per palette.
type ColorLayer struct {
	layer

	// Num is the number of palette rows in use; the backing grid always
	// holds the full 256.
	Num int
}

const emptyColor = 0x0F

// examplePalette seeds the first palette row of a fresh project.
var examplePalette = [25]uint32{
	0x11, 0x2B, 0x39,
	0x13, 0x21, 0x3B,
	0x15, 0x23, 0x31,
	0x17, 0x25, 0x33,

	0x02, 0x14, 0x26,
	0x04, 0x16, 0x28,
	0x06, 0x18, 0x2A,
	0x08, 0x1A, 0x2C,

	emptyColor,
}

// NewColorLayer returns the palette layer of a fresh project.
func NewColorLayer() *ColorLayer {
	l := &ColorLayer{
		layer: newLayer(geom.Dimen{W: 4, H: 16}, geom.Dimen{W: 25, H: 256}),
		Num:   1,
	}
	l.tiles.Fill(emptyColor)
	for i, v := range examplePalette {
		l.tiles.Set(geom.Coord{X: i, Y: 0}, v)
	}
	return l
}

func (l *ColorLayer) Format() int { return LayerColor }

func (l *ColorLayer) CanvasDimen() geom.Dimen {
	return geom.Dimen{W: l.tiles.Dimen().W, H: l.Num}
}

func (l *ColorLayer) Reset(c geom.Coord) { l.Set(c, emptyColor) }

func (l *ColorLayer) ToTile(pick geom.Coord) uint32 {
	return uint32(pick.Y + pick.X*l.picker.Dimen().H)
}

func (l *ColorLayer) ToPick(t uint32) geom.Coord {
	h := l.picker.Dimen().H
	return geom.Coord{X: int(t) / h, Y: int(t) % h}
}

func (l *ColorLayer) Dropper(at geom.Coord) { dropper(l, at) }

// CHRLayer is the graphics canvas. Encoded tiles fold in the active 2-bit
// attribute and the active CHR bank, both plain fields set by the editing
// session before an operation runs.
type CHRLayer struct {
	layer

	// Bank is the active CHR bank folded into encoded tiles.
	Bank int

	// Attr is the active attribute; ActiveCollision and above mean the
	// collision layer is being edited instead.
	Attr uint8
}

// NewCHRLayer returns a graphics layer with the default standalone canvas.
func NewCHRLayer() *CHRLayer {
	return &CHRLayer{layer: newLayer(geom.Dimen{W: 16, H: 64}, geom.Dimen{W: 48, H: 48})}
}

func (l *CHRLayer) Format() int { return LayerCHR }

func (l *CHRLayer) ToTile(pick geom.Coord) uint32 {
	return l.layer.ToTile(pick) |
		uint32(l.Attr&3)<<attrShift |
		uint32(l.Bank)<<bankShift
}

func (l *CHRLayer) ToPick(t uint32) geom.Coord {
	return l.layer.ToPick(t & tileIndexMask)
}

// Dropper additionally switches the active bank to the one encoded in the
// picked tile.
func (l *CHRLayer) Dropper(at geom.Coord) {
	l.Bank = TileBank(l.Get(at))
	dropper(l, at)
}

// FillAttribute overwrites the attribute bits of every selected canvas cell
// in place, leaving the tile index and bank untouched. Returns the prior
// region as an undo record, or nil when the selection is empty or the
// collision layer is active.
func (l *CHRLayer) FillAttribute() Undo {
	rect := geom.Crop(l.canvas.Rect(), l.CanvasDimen())
	if rect.Empty() || l.Attr >= ActiveCollision {
		return nil
	}

	ret := SaveRect(l, rect)
	l.canvas.EachSelected(func(c geom.Coord) {
		v := l.tiles.At(c) &^ (3 << attrShift)
		l.tiles.Set(c, v|uint32(l.Attr&3)<<attrShift)
	})
	return ret
}

// SaveGrid snapshots the entire tile grid as an undo record, taken before a
// canvas resize.
func (l *CHRLayer) SaveGrid() Undo {
	return &UndoLevelDimen{Layer: l, Tiles: l.tiles.Clone()}
}

// CollisionLayer is the coarse collision canvas; tile values are opaque
// small integers indexing the collision mask.
type CollisionLayer struct {
	layer
}

// NewCollisionLayer returns a collision layer with the default canvas.
func NewCollisionLayer() *CollisionLayer {
	return &CollisionLayer{layer: newLayer(geom.Dimen{W: 4, H: 64}, geom.Dimen{W: 16, H: 16})}
}

func (l *CollisionLayer) Format() int { return LayerCollision }

func (l *CollisionLayer) Dropper(at geom.Coord) { dropper(l, at) }

// TileCopy is a detached tile buffer captured from a layer; cells holding
// TransparentTile were not selected when captured and never overwrite the
// canvas when pasted.
type TileCopy struct {
	Format int
	Tiles  grid.Grid[uint32]
}

// Copy captures the selected cells within the canvas selection's bounding
// rectangle. When cut is non-nil, captured cells are also reset in place
// and *cut receives the pre-mutation region as an undo record.
func Copy(l TileLayer, cut *Undo) TileCopy {
	rect := geom.Crop(l.Canvas().Rect(), l.CanvasDimen())
	if cut != nil {
		*cut = SaveRect(l, rect)
	}

	tiles := grid.New[uint32](rect.D)
	rect.Each(func(c geom.Coord) {
		if l.Canvas().At(c) {
			tiles.Set(c.Sub(rect.C), l.Get(c))
			if cut != nil {
				l.Reset(c)
			}
		} else {
			tiles.Set(c.Sub(rect.C), TransparentTile)
		}
	})
	return TileCopy{Format: l.Format(), Tiles: tiles}
}

// Paste writes every non-transparent cell of the buffer onto the canvas at
// at plus the cell's offset, skipping out-of-bounds destinations.
func Paste(l TileLayer, cp TileCopy, at geom.Coord) {
	cp.Tiles.Dimen().Each(func(c geom.Coord) {
		v := cp.Tiles.At(c)
		if dst := at.Add(c); v != TransparentTile && geom.InBounds(dst, l.CanvasDimen()) {
			l.Set(dst, v)
		}
	})
}

// Fill tiles the picker selection across every selected canvas cell: each
// cell's offset from the canvas selection's top-left is reduced modulo the
// picker selection's extent and mapped back into the picker region. Returns
// the pre-fill region as an undo record, or nil when either selection is
// empty.
func Fill(l TileLayer) Undo {
	canvasRect := geom.Crop(l.Canvas().Rect(), l.CanvasDimen())
	pickerRect := l.Picker().Rect()
	if canvasRect.Empty() || pickerRect.Empty() {
		return nil
	}

	ret := SaveRect(l, canvasRect)
	l.Canvas().EachSelected(func(c geom.Coord) {
		o := c.Sub(canvasRect.C)
		p := geom.Coord{X: o.X % pickerRect.D.W, Y: o.Y % pickerRect.D.H}.Add(pickerRect.C)
		l.Set(c, l.ToTile(p))
	})
	return ret
}

// FillPaste tiles a detached buffer across the canvas selection with the
// same wraparound as Fill, honoring TransparentTile as "skip".
func FillPaste(l TileLayer, cp TileCopy) Undo {
	canvasRect := geom.Crop(l.Canvas().Rect(), l.CanvasDimen())
	d := cp.Tiles.Dimen()
	if canvasRect.Empty() || d.Empty() {
		return nil
	}

	ret := SaveRect(l, canvasRect)
	l.Canvas().EachSelected(func(c geom.Coord) {
		o := c.Sub(canvasRect.C)
		v := cp.Tiles.At(geom.Coord{X: o.X % d.W, Y: o.Y % d.H})
		if v != TransparentTile && geom.InBounds(c, l.CanvasDimen()) {
			l.Set(c, v)
		}
	})
	return ret
}

// SaveRect snapshots the tile values within rect, cropped to the canvas, as
// an undo record. Returns nil for an empty region.
func SaveRect(l TileLayer, rect geom.Rect) Undo {
	rect = geom.Crop(rect, l.CanvasDimen())
	if rect.Empty() {
		return nil
	}

	u := &UndoTiles{Layer: l, Rect: rect, Tiles: make([]uint32, 0, rect.D.Area())}
	rect.Each(func(c geom.Coord) { u.Tiles = append(u.Tiles, l.Get(c)) })
	return u
}
