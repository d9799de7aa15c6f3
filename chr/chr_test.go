package chr

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opaquePalette() color.Palette {
	return color.Palette{
		color.NRGBA{0, 0, 0, 255},
		color.NRGBA{85, 85, 85, 255},
		color.NRGBA{170, 170, 170, 255},
		color.NRGBA{255, 255, 255, 255},
	}
}

func TestFromImagePaletted(t *testing.T) {
	m := image.NewPaletted(image.Rect(0, 0, 8, 8), opaquePalette())
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			m.SetColorIndex(x, y, uint8((x+y)%4))
		}
	}

	p, err := FromImage(m)
	require.NoError(t, err)

	assert.Len(t, p.Data, TileBytes)
	assert.Equal(t, []uint16{0}, p.Indices)

	// Row 0 indices are 0,1,2,3,0,1,2,3: low plane 01010101, high 00110011
	assert.Equal(t, byte(0x55), p.Data[0])
	assert.Equal(t, byte(0x33), p.Data[8])
}

func TestFromImageDroppedPaletteEntry(t *testing.T) {
	pal := opaquePalette()
	pal = append(pal, color.NRGBA{0, 0, 0, 0}) // dropped from the index space
	m := image.NewPaletted(image.Rect(0, 0, 8, 8), pal)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			m.SetColorIndex(x, y, 3)
		}
	}
	m.SetColorIndex(7, 7, 4) // one transparent corner pixel

	p, err := FromImage(m)
	require.NoError(t, err)

	// Block is not fully transparent, so it still emits a full tile; the
	// transparent pixel reads as index 0.
	assert.Len(t, p.Data, TileBytes)
	assert.Equal(t, []uint16{0}, p.Indices)
	assert.Equal(t, byte(0xfe), p.Data[7])
	assert.Equal(t, byte(0xfe), p.Data[15])
}

func TestFromImageFullyTransparentBlock(t *testing.T) {
	// Left tile fully transparent, right tile opaque.
	m := image.NewNRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 8; x < 16; x++ {
			m.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}

	p, err := FromImage(m)
	require.NoError(t, err)

	assert.Len(t, p.Data, TileBytes)
	assert.Equal(t, []uint16{NoTile, 0}, p.Indices)
}

func TestFromImageGray(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			m.SetGray(x, y, color.Gray{uint8(x * 32)})
		}
	}

	p, err := FromImage(m)
	require.NoError(t, err)
	require.Len(t, p.Data, TileBytes)

	// x*32>>6 per column: 0 0 1 1 2 2 3 3
	assert.Equal(t, byte(0x33), p.Data[0])
	assert.Equal(t, byte(0x0f), p.Data[8])
}

func TestFromImageBadDimensions(t *testing.T) {
	var fe FormatError

	_, err := FromImage(image.NewGray(image.Rect(0, 0, 12, 8)))
	assert.ErrorAs(t, err, &fe)

	_, err = FromImage(image.NewGray(image.Rect(0, 0, 8, 9)))
	assert.ErrorAs(t, err, &fe)
}

func TestRawPatterns(t *testing.T) {
	p := RawPatterns(make([]byte, 3*TileBytes))
	assert.Equal(t, []uint16{0, 1, 2}, p.Indices)
}

func TestToBitmaps(t *testing.T) {
	data := make([]byte, TileBytes)
	for y := 0; y < 8; y++ {
		data[y] = 0xff // every pixel index 1
	}

	var palette [16]uint8
	palette[1] = 0x30        // attribute 0, entry 1
	palette[1+4] = 0x30 + 64 // attribute 1 wraps modulo 64 to the same code

	bitmaps := ToBitmaps(data, palette, []uint16{0, NoTile})
	require.Len(t, bitmaps, 2)

	want := Palette[0x30]
	assert.Equal(t, want, bitmaps[0][0].RGBAAt(3, 3))
	assert.Equal(t, want, bitmaps[0][1].RGBAAt(3, 3))

	// Missing tile gets the placeholder
	assert.Equal(t, Placeholder()[0].RGBAAt(0, 0), bitmaps[1][0].RGBAAt(0, 0))
}

func TestToBitmapsTruncatedData(t *testing.T) {
	bitmaps := ToBitmaps(make([]byte, TileBytes-1), [16]uint8{}, []uint16{0})
	require.Len(t, bitmaps, 1)
	assert.Equal(t, Placeholder(), bitmaps[0])
}

func TestLoadCollision(t *testing.T) {
	// A 16x16 base image only covers the first 2x2 tiles at scale 1.
	base := image.NewRGBA(image.Rect(0, 0, 16, 16))
	blue := color.RGBA{0, 0, 255, 255}
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			base.SetRGBA(x, y, blue)
		}
	}

	tiles := LoadCollision(base, 1)
	require.Len(t, tiles, CollisionTiles)

	assert.Equal(t, 8, tiles[0].Bounds().Dx())
	assert.Equal(t, blue, tiles[0].RGBAAt(0, 0))
	assert.Equal(t, blue, tiles[1].RGBAAt(7, 7))

	// Tiles past the image edge are magenta fill
	magenta := color.RGBA{255, 0, 255, 255}
	assert.Equal(t, magenta, tiles[2].RGBAAt(0, 0))
	assert.Equal(t, magenta, tiles[2*collisionColumns].RGBAAt(0, 0))
}

func TestLoadCollisionZeroScale(t *testing.T) {
	assert.Nil(t, LoadCollision(image.NewRGBA(image.Rect(0, 0, 8, 8)), 0))
}

func TestImportQuantizes(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			m.SetRGBA(x, y, color.RGBA{uint8(x * 30), uint8(y * 30), 0, 255})
		}
	}

	pm := Import(m)
	assert.LessOrEqual(t, len(pm.Palette), 4)

	_, err := FromImage(pm)
	assert.NoError(t, err)
}
