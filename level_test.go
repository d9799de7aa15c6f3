package tilefab

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/retrofab/tilefab/geom"
)

func TestCountMetatiles(t *testing.T) {
	p := NewProject()
	p.MetatileSize = 2
	l := p.Levels[0]
	d := geom.Dimen{W: 4, H: 4}
	l.Resize(d, p.CollisionDiv(d))

	// A blank canvas is one metatile repeated
	assert.Equal(t, 1, l.CountMetatiles(2, 0))

	l.CHR.Tiles().Set(geom.Coord{X: 0, Y: 0}, 5)
	assert.Equal(t, 2, l.CountMetatiles(2, 0))

	// The same tiles over a different collision value are distinct
	l.Collision.Tiles().Set(geom.Coord{X: 1, Y: 1}, 3)
	assert.Equal(t, 3, l.CountMetatiles(2, 0))

	assert.Equal(t, 0, l.CountMetatiles(0, 0))
}

func TestCountMetatilesPadding(t *testing.T) {
	p := NewProject()
	p.MetatileSize = 2
	l := p.Levels[0]
	d := geom.Dimen{W: 3, H: 3}
	l.Resize(d, p.CollisionDiv(d))

	// Blocks sticking past the edge read as zero outside, so a blank
	// canvas still collapses to one metatile
	assert.Equal(t, 1, l.CountMetatiles(2, 0))

	l.CHR.Tiles().Set(geom.Coord{X: 2, Y: 2}, 7)
	assert.Equal(t, 2, l.CountMetatiles(2, 0))
}

func TestCountMetatilesSelects(t *testing.T) {
	p := NewProject()
	p.MetatileSize = 2
	l := p.Levels[0]
	d := geom.Dimen{W: 4, H: 4}
	l.Resize(d, p.CollisionDiv(d))
	l.CHR.Tiles().Set(geom.Coord{X: 0, Y: 0}, 5)

	// A stale selection is replaced, not merged
	l.CHR.Canvas().Select(geom.Coord{X: 3, Y: 3}, true)

	// Only the unique block is rare enough to select
	assert.Equal(t, 2, l.CountMetatiles(2, 1))
	assert.True(t, l.CHR.Canvas().At(geom.Coord{X: 0, Y: 0}))
	assert.True(t, l.CHR.Canvas().At(geom.Coord{X: 1, Y: 1}))
	assert.False(t, l.CHR.Canvas().At(geom.Coord{X: 2, Y: 2}))
	assert.False(t, l.CHR.Canvas().At(geom.Coord{X: 3, Y: 3}))
}

func TestPaletteArray(t *testing.T) {
	p := NewProject()

	got := p.PaletteArray(0)
	// Each attribute group leads with the shared backdrop color
	assert.Equal(t, uint8(emptyColor), got[0])
	assert.Equal(t, uint8(emptyColor), got[4])
	assert.Equal(t, uint8(0x11), got[1])
	assert.Equal(t, uint8(0x2B), got[2])
	assert.Equal(t, uint8(0x39), got[3])
	assert.Equal(t, uint8(0x13), got[5])
}

func TestLookups(t *testing.T) {
	p := NewProject()
	assert.NotNil(t, p.LookupClass("object"))
	assert.Nil(t, p.LookupClass("missing"))
	assert.NotNil(t, p.LookupCHR("chr"))
	assert.Nil(t, p.LookupCHR("missing"))
	assert.NotNil(t, p.LookupLevel("level"))
	assert.Nil(t, p.LookupLevel("missing"))
}

func TestCollisionDiv(t *testing.T) {
	p := NewProject()
	assert.Equal(t, 1, p.CollisionScale())
	assert.Equal(t, geom.Dimen{W: 5, H: 5}, p.CollisionDiv(geom.Dimen{W: 5, H: 5}))

	p.MetatileSize = 2
	assert.Equal(t, 2, p.CollisionScale())
	assert.Equal(t, geom.Dimen{W: 3, H: 2}, p.CollisionDiv(geom.Dimen{W: 5, H: 4}))
}
