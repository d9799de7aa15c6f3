package tilefab

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/retrofab/tilefab/geom"
)

// The YAML form carries the same data as the binary format in a shape
// suited to hand editing and external tooling. Paths are stored exactly
// as the binary format stores them, relative with forward slashes.

type yamlProject struct {
	Version       int          `yaml:"version"`
	CollisionPath string       `yaml:"collision_path,omitempty"`
	MetatileSize  int          `yaml:"metatile_size"`
	CHR           []yamlCHR    `yaml:"chr"`
	Palettes      yamlPalettes `yaml:"palettes"`
	ObjectClasses []yamlClass  `yaml:"object_classes"`
	Levels        []yamlLevel  `yaml:"levels"`
}

type yamlCHR struct {
	ID   uint16 `yaml:"id"`
	Name string `yaml:"name"`
	Path string `yaml:"path,omitempty"`
}

type yamlPalettes struct {
	Num  int     `yaml:"num"`
	Data []uint8 `yaml:"data,flow"`
}

type yamlClass struct {
	Name   string      `yaml:"name"`
	Macro  string      `yaml:"macro,omitempty"`
	Color  [3]uint8    `yaml:"color,flow"`
	Fields []yamlField `yaml:"fields,omitempty"`
}

type yamlField struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type yamlLevel struct {
	Name       string       `yaml:"name"`
	Macro      string       `yaml:"macro,omitempty"`
	CHR        string       `yaml:"chr"`
	Palette    uint8        `yaml:"palette"`
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	Tiles      []uint32     `yaml:"tiles,flow"`
	Collisions []uint8      `yaml:"collisions,flow"`
	Objects    []yamlObject `yaml:"objects,omitempty"`
}

type yamlObject struct {
	Name   string            `yaml:"name,omitempty"`
	Class  string            `yaml:"class"`
	X      int               `yaml:"x"`
	Y      int               `yaml:"y"`
	Fields map[string]string `yaml:"fields,omitempty"`
}

// WriteYAML encodes the project as YAML. base is the directory of the
// output file, which stored paths are made relative to.
func (p *Project) WriteYAML(out io.Writer, base string) error {
	y := yamlProject{
		Version:       saveVersion,
		CollisionPath: relPath(p.CollisionPath, base),
		MetatileSize:  p.MetatileSize,
	}

	for _, f := range p.CHRFiles {
		y.CHR = append(y.CHR, yamlCHR{ID: f.ID, Name: f.Name, Path: relPath(f.Path, base)})
	}

	y.Palettes.Num = p.Palette.Num
	for _, v := range p.Palette.Tiles().Cells() {
		y.Palettes.Data = append(y.Palettes.Data, uint8(v))
	}

	for _, c := range p.Classes {
		yc := yamlClass{Name: c.Name, Macro: c.Macro, Color: [3]uint8{c.Color.R, c.Color.G, c.Color.B}}
		for _, f := range c.Fields {
			yc.Fields = append(yc.Fields, yamlField{Name: f.Name, Type: f.Type})
		}
		y.ObjectClasses = append(y.ObjectClasses, yc)
	}

	for _, l := range p.Levels {
		d := l.Dimen()
		yl := yamlLevel{
			Name:    l.Name,
			Macro:   l.MacroName,
			CHR:     l.CHRName,
			Palette: l.Palette,
			Width:   d.W,
			Height:  d.H,
			Tiles:   append([]uint32(nil), l.CHR.Tiles().Cells()...),
		}
		for _, v := range l.Collision.Tiles().Cells() {
			yl.Collisions = append(yl.Collisions, uint8(v))
		}
		for _, o := range l.Objects {
			yo := yamlObject{Name: o.Name, Class: o.Class, X: o.Position.X, Y: o.Position.Y}
			if c := p.LookupClass(o.Class); c != nil && len(c.Fields) > 0 {
				yo.Fields = make(map[string]string, len(c.Fields))
				for _, f := range c.Fields {
					yo.Fields[f.Name] = o.Fields[f.Name]
				}
			}
			yl.Objects = append(yl.Objects, yo)
		}
		y.Levels = append(y.Levels, yl)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(&y); err != nil {
		return err
	}
	return enc.Close()
}

// ReadYAML decodes a YAML project. Arguments mirror ReadFile.
func ReadYAML(in io.Reader, base string, loader Loader) (*Project, error) {
	var y yamlProject
	if err := yaml.NewDecoder(in).Decode(&y); err != nil {
		return nil, err
	}
	if y.Version > saveVersion {
		return nil, FormatError("file is from a newer version")
	}

	p := NewProject()
	p.MetatileSize = y.MetatileSize
	p.CollisionPath = absPath(y.CollisionPath, base)

	p.CHRFiles = nil
	for _, f := range y.CHR {
		p.CHRFiles = append(p.CHRFiles, &CHRFile{ID: f.ID, Name: f.Name, Path: absPath(f.Path, base)})
	}

	p.Palette.Num = y.Palettes.Num
	cells := p.Palette.Tiles().Cells()
	for i, v := range y.Palettes.Data {
		if i >= len(cells) {
			break
		}
		cells[i] = uint32(v)
	}

	p.Classes = nil
	for _, c := range y.ObjectClasses {
		pc := &ObjectClass{
			Name:  c.Name,
			Macro: c.Macro,
			Color: RGB{c.Color[0], c.Color[1], c.Color[2]},
		}
		for _, f := range c.Fields {
			pc.Fields = append(pc.Fields, ClassField{Name: f.Name, Type: f.Type})
		}
		p.Classes = append(p.Classes, pc)
	}

	p.Levels = nil
	for _, yl := range y.Levels {
		l := NewLevel()
		l.Name = yl.Name
		l.MacroName = yl.Macro
		l.CHRName = yl.CHR
		l.Palette = yl.Palette
		d := geom.Dimen{W: yl.Width, H: yl.Height}
		l.Resize(d, p.CollisionDiv(d))
		tiles := l.CHR.Tiles().Cells()
		for i, v := range yl.Tiles {
			if i >= len(tiles) {
				break
			}
			tiles[i] = v
		}
		collisions := l.Collision.Tiles().Cells()
		for i, v := range yl.Collisions {
			if i >= len(collisions) {
				break
			}
			collisions[i] = uint32(v)
		}
		for _, yo := range yl.Objects {
			o := Object{
				Name:     yo.Name,
				Class:    yo.Class,
				Position: geom.Coord{X: yo.X, Y: yo.Y},
			}
			if len(yo.Fields) > 0 {
				o.Fields = make(map[string]string, len(yo.Fields))
				for k, v := range yo.Fields {
					o.Fields[k] = v
				}
			}
			l.Objects = append(l.Objects, o)
		}
		p.Levels = append(p.Levels, l)
	}

	if err := p.LoadCollision(loader); err != nil {
		return nil, err
	}
	for _, f := range p.CHRFiles {
		if err := f.Load(loader); err != nil {
			return nil, err
		}
	}

	p.Modified = false
	p.ModifiedSinceSave = false
	return p, nil
}
