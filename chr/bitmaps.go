package chr

import (
	"image"
	"image/color"
)

// AttrBitmaps holds the four renderable forms of one tile, one per 2-bit
// attribute value.
type AttrBitmaps [numAttrs]*image.RGBA

// placeholderPattern is the tile drawn wherever a CHR source has no data
// for a position. Four dark colors in a broken-cross arrangement.
var placeholderPattern = [tileHeight]string{
	"  ....++",
	"   ..+++",
	".   +++.",
	".. @@+..",
	"..+@@ ..",
	".+++   .",
	"+++..   ",
	"++....  ",
}

var placeholderColors = map[byte]color.RGBA{
	' ': {0x39, 0x00, 0x00, 0xff},
	'.': {0x00, 0x39, 0x39, 0xff},
	'+': {0x00, 0x00, 0x39, 0xff},
	'@': {0x39, 0x00, 0x39, 0xff},
}

var placeholder = func() AttrBitmaps {
	m := image.NewRGBA(image.Rect(0, 0, tileWidth, tileHeight))
	for y, row := range placeholderPattern {
		for x := 0; x < tileWidth; x++ {
			m.SetRGBA(x, y, placeholderColors[row[x]])
		}
	}
	return AttrBitmaps{m, m, m, m}
}()

// Placeholder returns the fixed bitmaps substituted for missing tiles.
func Placeholder() AttrBitmaps { return placeholder }

// ToBitmaps renders packed tile data into one AttrBitmaps per source block
// listed in indices. Each of the four attribute values selects a 4-color
// sub-row of the 16-entry palette, whose entries are 6-bit codes into the
// master Palette. Blocks whose index is NoTile, or falls outside data, get
// the placeholder.
func ToBitmaps(data []byte, palette [16]uint8, indices []uint16) []AttrBitmaps {
	ret := make([]AttrBitmaps, 0, len(indices))

	for _, tile := range indices {
		off := int(tile) * TileBytes
		if tile == NoTile || off+TileBytes > len(data) {
			ret = append(ret, placeholder)
			continue
		}

		plane0 := data[off : off+planeBytes]
		plane1 := data[off+planeBytes : off+TileBytes]

		var bm AttrBitmaps
		for a := 0; a < numAttrs; a++ {
			bm[a] = image.NewRGBA(image.Rect(0, 0, tileWidth, tileHeight))
		}

		for y := 0; y < tileHeight; y++ {
			for x := 0; x < tileWidth; x++ {
				rx := uint(7 - x)
				entry := plane0[y] >> rx & 1
				entry |= plane1[y] >> rx & 1 << 1
				for a := 0; a < numAttrs; a++ {
					code := palette[int(entry)+a*colorsPerAttr] % 64
					bm[a].SetRGBA(x, y, Palette[code])
				}
			}
		}

		ret = append(ret, bm)
	}

	return ret
}
