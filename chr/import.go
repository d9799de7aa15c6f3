package chr

import (
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

// Import reduces an arbitrary image to a 4-color indexed image suitable
// for FromImage, using median-cut quantization. Sources that are already
// indexed with at most four colors are returned as-is.
func Import(m image.Image) *image.Paletted {
	if pm, ok := m.(*image.Paletted); ok && len(pm.Palette) <= colorsPerAttr {
		return pm
	}

	b := m.Bounds()
	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colorsPerAttr), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}

// DecodeQuantized reads an image and packs it via Import, so sources with
// more than four colors still convert.
func DecodeQuantized(r io.Reader) (*Patterns, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return FromImage(Import(m))
}
