package tilefab

import (
	"image"

	"github.com/retrofab/tilefab/chr"
	"github.com/retrofab/tilefab/geom"
)

// CHRFile describes one CHR source: an id, a display name, the path to a
// source image or raw tile file, and the tile data and source-block index
// list derived from it. Only the reference is persisted; the derived data
// is reloaded on demand.
type CHRFile struct {
	ID   uint16
	Name string
	Path string

	Data    []byte
	Indices []uint16
}

// Load replaces the derived tile data through the given loader. A nil
// loader or empty path clears it.
func (f *CHRFile) Load(loader Loader) error {
	f.Data, f.Indices = nil, nil
	if loader == nil || f.Path == "" {
		return nil
	}

	p, err := loader.LoadCHR(f.Path)
	if err != nil {
		return err
	}
	if p == nil {
		return nil
	}
	if len(p.Data) > chr.MaxBytes {
		p.Data = p.Data[:chr.MaxBytes]
	}
	f.Data, f.Indices = p.Data, p.Indices
	return nil
}

// Loader supplies the derived state the model cannot produce itself: CHR
// tile data for a source path, and collision mask bitmaps for a path and
// scale. Implementations live outside the model core; FileLoader is the
// default.
type Loader interface {
	LoadCHR(path string) (*chr.Patterns, error)
	LoadCollision(path string, scale int) ([]*image.RGBA, error)
}

// Project is the aggregate root: the palette model, levels, object classes,
// CHR sources, global collision scale, undo history and dirty flags.
type Project struct {
	Modified          bool
	ModifiedSinceSave bool

	// Path is where the project was last read from or written to; stored
	// paths are relative to its directory.
	Path string

	Palette  *ColorLayer
	Levels   []*Level
	Classes  []*ObjectClass
	CHRFiles []*CHRFile

	// MetatileSize is the global metatile edge; zero means plain 8x8
	// tiles with a collision scale of one.
	MetatileSize int

	CollisionPath    string
	CollisionBitmaps []*image.RGBA

	History History
}

// NewProject returns a project with one default level, object class and CHR
// source.
func NewProject() *Project {
	level := NewLevel()
	level.CHRName = "chr"
	return &Project{
		Palette:  NewColorLayer(),
		Levels:   []*Level{level},
		Classes:  []*ObjectClass{{Name: "object", Color: RGB{255, 255, 255}}},
		CHRFiles: []*CHRFile{{ID: 0, Name: "chr"}},
	}
}

// Modify marks the project dirty.
func (p *Project) Modify() {
	p.Modified = true
	p.ModifiedSinceSave = true
}

// CollisionScale returns the factor by which the collision canvas is
// coarser than the graphics canvas.
func (p *Project) CollisionScale() int {
	if p.MetatileSize > 1 {
		return p.MetatileSize
	}
	return 1
}

// CollisionDiv converts a graphics canvas dimension to the corresponding
// collision canvas dimension, rounding up.
func (p *Project) CollisionDiv(d geom.Dimen) geom.Dimen {
	s := p.CollisionScale()
	return geom.Dimen{W: (d.W + s - 1) / s, H: (d.H + s - 1) / s}
}

// PaletteArray flattens one palette row into the 16-entry array the CHR
// renderer consumes: four 4-color attribute groups, each led by the shared
// backdrop color from column 24.
func (p *Project) PaletteArray(index int) [16]uint8 {
	var ret [16]uint8
	backdrop := uint8(p.Palette.Tiles().At(geom.Coord{X: 24, Y: index}))
	for i := 0; i < 4; i++ {
		ret[i*4] = backdrop
		for j := 0; j < 3; j++ {
			ret[i*4+j+1] = uint8(p.Palette.Tiles().At(geom.Coord{X: i*3 + j, Y: index}))
		}
	}
	return ret
}

// LookupClass resolves an object class by name, or nil.
func (p *Project) LookupClass(name string) *ObjectClass {
	for _, c := range p.Classes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// LookupCHR resolves a CHR source by name, or nil.
func (p *Project) LookupCHR(name string) *CHRFile {
	for _, f := range p.CHRFiles {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// LookupLevel resolves a level by name, or nil.
func (p *Project) LookupLevel(name string) *Level {
	for _, l := range p.Levels {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// RefreshCHR reloads every CHR source and rebuilds each level's bitmap
// cache against its palette row.
func (p *Project) RefreshCHR(loader Loader) error {
	for _, f := range p.CHRFiles {
		if err := f.Load(loader); err != nil {
			return err
		}
	}
	for _, l := range p.Levels {
		l.RefreshBitmaps(p.CHRFiles, p.PaletteArray(int(l.Palette)))
	}
	return nil
}

// LoadCollision reloads the collision mask bitmaps.
func (p *Project) LoadCollision(loader Loader) error {
	p.CollisionBitmaps = nil
	if loader == nil || p.CollisionPath == "" {
		return nil
	}
	bitmaps, err := loader.LoadCollision(p.CollisionPath, p.CollisionScale())
	if err != nil {
		return err
	}
	p.CollisionBitmaps = bitmaps
	return nil
}
