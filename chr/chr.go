/*
Package chr implements the packed 2-bit-per-pixel planar tile codec.

Source images are split into 8 by 8 tiles. Each tile is packed into sixteen
bytes as two 8-byte bit-planes: the low bit of every pixel's 2-bit palette
index first, then the high bit, one byte per row with the most significant
bit holding the leftmost pixel. Tiles whose pixels are all transparent emit
no bytes at all; the parallel index list records which source blocks made it
into the output so a renderer can substitute a placeholder for the rest.
*/
package chr

const (
	tileWidth  = 8
	tileHeight = tileWidth
	planeBytes = tileHeight

	// TileBytes is the packed size of one tile: two bit-planes.
	TileBytes = 2 * planeBytes

	// BankTiles is the number of tiles a single CHR bank holds.
	BankTiles = 256

	// MaxBanks is the number of banks a CHR source may span.
	MaxBanks = 4

	// MaxBytes caps the packed data kept for one CHR source.
	MaxBytes = TileBytes * BankTiles * MaxBanks

	colorsPerAttr = 4
	numAttrs      = 4
)

// NoTile marks a source block that emitted no tile data.
const NoTile = 0xFFFF

// Patterns is the result of converting a source into packed tile data.
type Patterns struct {
	// Data holds the emitted tiles, TileBytes each, densely packed.
	Data []byte

	// Indices has one entry per 8x8 source block in raster order: the
	// ordinal of the block's tile within Data, or NoTile when the block
	// was skipped.
	Indices []uint16
}

// RawPatterns wraps already-packed tile data, as read from a raw .chr file.
// Every block is present, so the indices are the identity mapping.
func RawPatterns(data []byte) *Patterns {
	indices := make([]uint16, len(data)/TileBytes)
	for i := range indices {
		indices[i] = uint16(i)
	}
	return &Patterns{Data: data, Indices: indices}
}

// A FormatError reports that the source is malformed or unsupported.
type FormatError string

func (e FormatError) Error() string { return "chr: " + string(e) }
