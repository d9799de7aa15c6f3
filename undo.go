package tilefab

import (
	"github.com/retrofab/tilefab/geom"
	"github.com/retrofab/tilefab/grid"
)

// UndoLimit bounds the undo stack depth; commands pushed past it discard
// the oldest entry for good.
const UndoLimit = 256

// Undo is one reversible mutation of the document. A nil Undo is the no-op
// command: applying it does nothing and pushing it is ignored. Applying any
// command through Project.Apply returns the command that exactly undoes it.
type Undo interface {
	isUndo()
}

// UndoTiles rewrites a rectangular region of a layer's canvas with the
// recorded values.
type UndoTiles struct {
	Layer TileLayer
	Rect  geom.Rect
	Tiles []uint32 // raster order over Rect
}

// UndoPaletteNum swaps the number of palette rows in use.
type UndoPaletteNum struct {
	Num int
}

// UndoLevelDimen swaps a graphics layer's entire tile grid, recorded before
// a canvas resize.
type UndoLevelDimen struct {
	Layer *CHRLayer
	Tiles grid.Grid[uint32]
}

// UndoNewObject removes the objects at Indices, which must be ordered
// highest first so earlier removals do not shift later ones.
type UndoNewObject struct {
	Level   *Level
	Indices []int
}

// IndexedObject pairs an object with the index it occupies.
type IndexedObject struct {
	Index  int
	Object Object
}

// UndoDeleteObject re-inserts the recorded objects, which must be ordered
// lowest index first so earlier insertions keep later indices valid.
type UndoDeleteObject struct {
	Level   *Level
	Objects []IndexedObject
}

// UndoEditObject swaps the object at a single index.
type UndoEditObject struct {
	Level  *Level
	Index  int
	Object Object
}

// UndoMoveObjects swaps the positions of the objects at Indices.
type UndoMoveObjects struct {
	Level     *Level
	Indices   []int
	Positions []geom.Coord
}

func (*UndoTiles) isUndo()        {}
func (*UndoPaletteNum) isUndo()   {}
func (*UndoLevelDimen) isUndo()   {}
func (*UndoNewObject) isUndo()    {}
func (*UndoDeleteObject) isUndo() {}
func (*UndoEditObject) isUndo()   {}
func (*UndoMoveObjects) isUndo()  {}

// Apply mutates the project according to u and returns the inverse command.
// Any non-nil command marks the project modified.
func (p *Project) Apply(u Undo) Undo {
	if u == nil {
		return nil
	}
	p.Modify()

	switch u := u.(type) {
	case *UndoTiles:
		ret := SaveRect(u.Layer, u.Rect)
		i := 0
		u.Rect.Each(func(c geom.Coord) {
			u.Layer.Set(c, u.Tiles[i])
			i++
		})
		return ret

	case *UndoPaletteNum:
		ret := &UndoPaletteNum{Num: p.Palette.Num}
		p.Palette.Num = u.Num
		return ret

	case *UndoLevelDimen:
		ret := &UndoLevelDimen{Layer: u.Layer, Tiles: u.Layer.tiles.Clone()}
		u.Layer.tiles = u.Tiles.Clone()
		return ret

	case *UndoNewObject:
		ret := &UndoDeleteObject{Level: u.Level}
		for i := len(u.Indices) - 1; i >= 0; i-- {
			index := u.Indices[i]
			ret.Objects = append(ret.Objects, IndexedObject{index, u.Level.Objects[index].Clone()})
		}
		for _, index := range u.Indices {
			u.Level.Objects = append(u.Level.Objects[:index], u.Level.Objects[index+1:]...)
		}
		return ret

	case *UndoDeleteObject:
		ret := &UndoNewObject{Level: u.Level}
		for i := len(u.Objects) - 1; i >= 0; i-- {
			ret.Indices = append(ret.Indices, u.Objects[i].Index)
		}
		for _, o := range u.Objects {
			objects := append(u.Level.Objects, Object{})
			copy(objects[o.Index+1:], objects[o.Index:])
			objects[o.Index] = o.Object.Clone()
			u.Level.Objects = objects
		}
		return ret

	case *UndoEditObject:
		ret := &UndoEditObject{Level: u.Level, Index: u.Index, Object: u.Level.Objects[u.Index].Clone()}
		u.Level.Objects[u.Index] = u.Object.Clone()
		return ret

	case *UndoMoveObjects:
		ret := &UndoMoveObjects{Level: u.Level, Indices: append([]int(nil), u.Indices...)}
		for _, index := range u.Indices {
			ret.Positions = append(ret.Positions, u.Level.Objects[index].Position)
		}
		for i, index := range u.Indices {
			u.Level.Objects[index].Position = u.Positions[i]
		}
		return ret
	}

	return nil
}

// History is the two-stack, depth-bounded undo history. Most recent entries
// sit at the front of each stack.
type History struct {
	undo []Undo
	redo []Undo
}

// Push records a freshly applied command's inverse, clearing the redo stack
// and discarding the oldest entry past UndoLimit. No-op commands are
// ignored.
func (h *History) Push(u Undo) {
	if u == nil {
		return
	}
	h.redo = h.redo[:0]
	h.undo = append([]Undo{u}, h.undo...)
	if len(h.undo) > UndoLimit {
		h.undo = h.undo[:UndoLimit]
	}
}

// CanUndo reports whether the undo stack is non-empty.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Depth returns the undo stack depth.
func (h *History) Depth() int { return len(h.undo) }

// Undo applies the most recent undo entry to p and moves its inverse onto
// the redo stack.
func (h *History) Undo(p *Project) {
	if len(h.undo) == 0 {
		return
	}
	u := h.undo[0]
	h.undo = h.undo[1:]
	h.redo = append([]Undo{p.Apply(u)}, h.redo...)
}

// Redo applies the most recent redo entry to p and moves its inverse onto
// the undo stack.
func (h *History) Redo(p *Project) {
	if len(h.redo) == 0 {
		return
	}
	u := h.redo[0]
	h.redo = h.redo[1:]
	h.undo = append([]Undo{p.Apply(u)}, h.undo...)
}
