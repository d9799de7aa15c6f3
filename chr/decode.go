package chr

import (
	"fmt"
	"image"
	"image/color"
	"io"
)

type decoder struct {
	width, height int

	// One entry per pixel in raster order.
	index       []uint8
	transparent []bool
}

// quantize fills the per-pixel index and transparency buffers according to
// the source color model:
//
//   - indexed: palette entries with alpha >= 128 are renumbered sequentially
//     from 0; pixels using a dropped entry read as 0 and are transparent
//   - fully opaque (grayscale or RGB): top two bits of the first channel,
//     nothing transparent
//   - anything carrying alpha: top two bits of the gray value, alpha < 128
//     marks the pixel transparent
func (d *decoder) quantize(m image.Image) {
	b := m.Bounds()
	d.width, d.height = b.Dx(), b.Dy()
	n := d.width * d.height
	d.index = make([]uint8, n)
	d.transparent = make([]bool, n)

	switch m := m.(type) {
	case *image.Paletted:
		renumber := make([]int, len(m.Palette))
		next := 0
		for i, c := range m.Palette {
			if _, _, _, a := c.RGBA(); a >= 0x8000 {
				renumber[i] = next
				next++
			} else {
				renumber[i] = -1
			}
		}
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				p := int(m.ColorIndexAt(x, y))
				if p < len(renumber) && renumber[p] >= 0 {
					d.index[i] = uint8(renumber[p])
				} else {
					d.transparent[i] = true
				}
				i++
			}
		}

	default:
		opaque := true
		if o, ok := m.(interface{ Opaque() bool }); ok {
			opaque = o.Opaque()
		}
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
				d.index[i] = c.R >> 6
				if !opaque {
					d.transparent[i] = c.A < 128
				}
				i++
			}
		}
	}
}

// pack walks the 8x8 blocks in raster order, packing each non-empty block
// into two bit-planes and skipping blocks whose pixels are all transparent.
func (d *decoder) pack() *Patterns {
	p := &Patterns{
		Data:    make([]byte, 0, d.width*d.height/4),
		Indices: make([]uint16, 0, d.width*d.height/(tileWidth*tileHeight)),
	}

	ordinal := uint16(0)
	for ty := 0; ty < d.height; ty += tileHeight {
		for tx := 0; tx < d.width; tx += tileWidth {
			opaque := false
			for y := 0; y < tileHeight && !opaque; y++ {
				for x := 0; x < tileWidth; x++ {
					if !d.transparent[tx+x+(ty+y)*d.width] {
						opaque = true
						break
					}
				}
			}
			if !opaque {
				p.Indices = append(p.Indices, NoTile)
				continue
			}

			for y := 0; y < tileHeight; y++ {
				var v byte
				for x := 0; x < tileWidth; x++ {
					v |= (d.index[tx+x+(ty+y)*d.width] & 1) << (7 - x)
				}
				p.Data = append(p.Data, v)
			}
			for y := 0; y < tileHeight; y++ {
				var v byte
				for x := 0; x < tileWidth; x++ {
					v |= (d.index[tx+x+(ty+y)*d.width] >> 1 & 1) << (7 - x)
				}
				p.Data = append(p.Data, v)
			}

			p.Indices = append(p.Indices, ordinal)
			ordinal++
		}
	}

	return p
}

// FromImage converts m into packed tile data. The image dimensions must
// each be a multiple of 8.
func FromImage(m image.Image) (*Patterns, error) {
	b := m.Bounds()
	if b.Dx()%tileWidth != 0 {
		return nil, FormatError("image width is not a multiple of 8")
	}
	if b.Dy()%tileHeight != 0 {
		return nil, FormatError("image height is not a multiple of 8")
	}

	var d decoder
	d.quantize(m)
	return d.pack(), nil
}

// Decode reads an image from r and converts it into packed tile data.
// Image formats must be registered by the caller, typically with blank
// imports of image/png and friends.
func Decode(r io.Reader) (*Patterns, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, FormatError(fmt.Sprintf("image decode: %v", err))
	}
	return FromImage(m)
}
