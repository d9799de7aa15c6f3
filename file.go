package tilefab

import (
	"bufio"
	"bytes"
	"io"
	"path/filepath"

	"github.com/retrofab/tilefab/geom"
)

// Binary project format: the 7-byte magic (six characters and a zero), one
// version byte, then the sections of WriteFile in fixed order. All integers
// are little-endian; strings are raw bytes with a single zero terminator;
// paths are stored with forward slashes, relative to the file's directory.
// Single-byte counts for CHR sources, palette rows and object classes use
// the 0-as-256 convention.
var magic = []byte("8x8Fab\x00")

const saveVersion = 1

type fileWriter struct {
	w   *bufio.Writer
	err error
}

func (w *fileWriter) bytes(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

func (w *fileWriter) u8(v uint8) {
	if w.err != nil {
		return
	}
	w.err = w.w.WriteByte(v)
}

func (w *fileWriter) u16(v uint16) {
	w.u8(uint8(v))
	w.u8(uint8(v >> 8))
}

func (w *fileWriter) u32(v uint32) {
	w.u16(uint16(v))
	w.u16(uint16(v >> 16))
}

func (w *fileWriter) str(s string) {
	w.bytes([]byte(s))
	w.u8(0)
}

// relPath stores path relative to the project directory when possible,
// always with forward slashes.
func relPath(path, base string) string {
	if path == "" {
		return ""
	}
	if rel, err := filepath.Rel(base, path); err == nil {
		path = rel
	}
	return filepath.ToSlash(path)
}

// absPath reverses relPath, resolving a stored path against the project
// directory.
func absPath(s, base string) string {
	if s == "" {
		return ""
	}
	path := filepath.FromSlash(s)
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	return path
}

// WriteFile encodes the project in the binary format. base is the directory
// of the project file, which stored paths are made relative to.
func (p *Project) WriteFile(out io.Writer, base string) error {
	w := &fileWriter{w: bufio.NewWriter(out)}

	w.bytes(magic)
	w.u8(saveVersion)

	// Collision mask
	w.u8(uint8(p.MetatileSize))
	w.str(relPath(p.CollisionPath, base))

	// CHR sources
	w.u8(uint8(len(p.CHRFiles)))
	for _, f := range p.CHRFiles {
		w.u16(f.ID)
		w.str(f.Name)
		w.str(relPath(f.Path, base))
	}

	// Palettes: the row count in use, then the full color grid
	w.u8(uint8(p.Palette.Num))
	for _, v := range p.Palette.Tiles().Cells() {
		w.u8(uint8(v))
	}

	// Object classes
	w.u8(uint8(len(p.Classes)))
	for _, c := range p.Classes {
		w.str(c.Name)
		w.str(c.Macro)
		w.u8(c.Color.R)
		w.u8(c.Color.G)
		w.u8(c.Color.B)
		w.u8(uint8(len(c.Fields)))
		for _, f := range c.Fields {
			w.str(f.Name)
			w.str(f.Type)
		}
	}

	// Levels
	w.u16(uint16(len(p.Levels)))
	for _, l := range p.Levels {
		w.str(l.Name)
		w.str(l.MacroName)
		w.str(l.CHRName)
		w.u8(l.Palette)
		d := l.Dimen()
		w.u16(uint16(d.W))
		w.u16(uint16(d.H))
		for _, v := range l.CHR.Tiles().Cells() {
			w.u32(v)
		}
		for _, v := range l.Collision.Tiles().Cells() {
			w.u8(uint8(v))
		}
		w.u16(uint16(len(l.Objects)))
		for _, o := range l.Objects {
			w.str(o.Name)
			w.str(o.Class)
			w.u16(uint16(o.Position.X))
			w.u16(uint16(o.Position.Y))
			// Fields are written in the resolved class's order; an
			// absent field is a lone terminator, identical to the
			// empty string.
			if c := p.LookupClass(o.Class); c != nil {
				for _, f := range c.Fields {
					w.str(o.Fields[f.Name])
				}
			}
		}
	}

	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

type fileReader struct {
	r   *bufio.Reader
	err error
}

func (r *fileReader) fail(msg string) {
	if r.err == nil {
		r.err = BoundsError(msg)
	}
}

func (r *fileReader) u8() uint8 {
	if r.err != nil {
		return 0
	}
	b, err := r.r.ReadByte()
	if err != nil {
		r.fail("unable to read 8-bit value")
		return 0
	}
	return b
}

// count8 reads a single-byte count using the 0-as-256 convention.
func (r *fileReader) count8() int {
	if v := r.u8(); v != 0 {
		return int(v)
	}
	if r.err != nil {
		return 0
	}
	return 256
}

func (r *fileReader) u16() uint16 {
	lo := r.u8()
	hi := r.u8()
	if r.err != nil {
		r.fail("unable to read 16-bit value")
	}
	return uint16(lo) | uint16(hi)<<8
}

func (r *fileReader) u32() uint32 {
	lo := r.u16()
	hi := r.u16()
	if r.err != nil {
		r.fail("unable to read 32-bit value")
	}
	return uint32(lo) | uint32(hi)<<16
}

func (r *fileReader) str() string {
	var b []byte
	for {
		c := r.u8()
		if c == 0 || r.err != nil {
			return string(b)
		}
		b = append(b, c)
	}
}

// path reads a stored path and resolves it against the project directory.
func (r *fileReader) path(base string) string {
	return absPath(r.str(), base)
}

// ReadFile decodes a binary project file. base is the directory of the
// file, against which stored paths are resolved; loader, when non-nil,
// supplies the derived CHR data and collision bitmaps. The returned project
// is complete or the error is non-nil; no partially decoded state escapes.
func ReadFile(in io.Reader, base string, loader Loader) (*Project, error) {
	r := &fileReader{r: bufio.NewReader(in)}

	header := make([]byte, len(magic)+1)
	if _, err := io.ReadFull(r.r, header); err != nil {
		return nil, FormatError("unable to read magic number")
	}
	if !bytes.Equal(header[:len(magic)], magic) {
		return nil, FormatError("incorrect magic number")
	}
	if header[len(magic)] > saveVersion {
		return nil, FormatError("file is from a newer version")
	}

	p := NewProject()

	// Collision mask
	p.MetatileSize = int(r.u8())
	p.CollisionPath = r.path(base)

	// CHR sources
	p.CHRFiles = nil
	numCHR := r.count8()
	for i := 0; i < numCHR && r.err == nil; i++ {
		f := &CHRFile{ID: r.u16()}
		f.Name = r.str()
		f.Path = r.path(base)
		p.CHRFiles = append(p.CHRFiles, f)
	}

	// Palettes
	p.Palette.Num = r.count8()
	cells := p.Palette.Tiles().Cells()
	for i := range cells {
		cells[i] = uint32(r.u8())
	}

	// Object classes
	p.Classes = nil
	numClasses := r.count8()
	for i := 0; i < numClasses && r.err == nil; i++ {
		c := &ObjectClass{Name: r.str(), Macro: r.str()}
		c.Color.R = r.u8()
		c.Color.G = r.u8()
		c.Color.B = r.u8()
		numFields := int(r.u8())
		for j := 0; j < numFields && r.err == nil; j++ {
			c.Fields = append(c.Fields, ClassField{Name: r.str(), Type: r.str()})
		}
		p.Classes = append(p.Classes, c)
	}

	// Levels
	p.Levels = nil
	numLevels := int(r.u16())
	for i := 0; i < numLevels && r.err == nil; i++ {
		l := NewLevel()
		l.Name = r.str()
		l.MacroName = r.str()
		l.CHRName = r.str()
		l.Palette = r.u8()
		d := geom.Dimen{W: int(r.u16()), H: int(r.u16())}
		if r.err != nil {
			break
		}
		l.Resize(d, p.CollisionDiv(d))
		tiles := l.CHR.Tiles().Cells()
		for j := range tiles {
			tiles[j] = r.u32()
		}
		collisions := l.Collision.Tiles().Cells()
		for j := range collisions {
			collisions[j] = uint32(r.u8())
		}
		numObjects := int(r.u16())
		for j := 0; j < numObjects && r.err == nil; j++ {
			o := Object{Name: r.str(), Class: r.str()}
			o.Position.X = int(r.u16())
			o.Position.Y = int(r.u16())
			if c := p.LookupClass(o.Class); c != nil && len(c.Fields) > 0 {
				o.Fields = make(map[string]string, len(c.Fields))
				for _, f := range c.Fields {
					o.Fields[f.Name] = r.str()
				}
			}
			l.Objects = append(l.Objects, o)
		}
		p.Levels = append(p.Levels, l)
	}

	if r.err != nil {
		return nil, r.err
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
