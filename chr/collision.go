package chr

import (
	"image"
	"image/color"
	"image/draw"
)

const (
	collisionColumns = 4
	collisionRows    = 64

	// CollisionTiles is the fixed number of tiles a collision mask
	// provides, matching the collision picker layout.
	CollisionTiles = collisionColumns * collisionRows
)

// LoadCollision slices a collision-mask image into the fixed 4 by 64 grid
// of collision tiles, each (8*scale) pixels square. Regions past the edge
// of the image are filled with magenta. Returns nil when scale is not
// positive.
func LoadCollision(m image.Image, scale int) []*image.RGBA {
	if scale <= 0 {
		return nil
	}

	s := tileWidth * scale
	fill := image.NewUniform(color.RGBA{255, 0, 255, 255})
	b := m.Bounds()

	tiles := make([]*image.RGBA, 0, CollisionTiles)
	for ty := 0; ty < collisionRows; ty++ {
		for tx := 0; tx < collisionColumns; tx++ {
			tile := image.NewRGBA(image.Rect(0, 0, s, s))
			draw.Draw(tile, tile.Bounds(), fill, image.Point{}, draw.Src)
			draw.Draw(tile, tile.Bounds(), m, b.Min.Add(image.Pt(tx*s, ty*s)), draw.Src)
			tiles = append(tiles, tile)
		}
	}
	return tiles
}
