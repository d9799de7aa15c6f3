package tilefab

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retrofab/tilefab/geom"
)

func TestYAMLRoundTrip(t *testing.T) {
	p := testProject()

	var b bytes.Buffer
	require.NoError(t, p.WriteYAML(&b, "/tmp/proj"))

	got, err := ReadYAML(&b, "/tmp/proj", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, got.MetatileSize)
	assert.Equal(t, 2, got.Palette.Num)
	assert.Equal(t, p.Palette.Tiles().Cells(), got.Palette.Tiles().Cells())
	assert.Equal(t, "/tmp/proj/gfx/sprites.png", got.CHRFiles[1].Path)

	require.Len(t, got.Classes, 2)
	assert.Equal(t, *p.Classes[1], *got.Classes[1])

	require.Len(t, got.Levels, 1)
	l := got.Levels[0]
	assert.Equal(t, geom.Dimen{W: 10, H: 6}, l.Dimen())
	assert.Equal(t, p.Levels[0].CHR.Tiles().Cells(), l.CHR.Tiles().Cells())
	assert.Equal(t, p.Levels[0].Collision.Tiles().Cells(), l.Collision.Tiles().Cells())
	assert.Equal(t, p.Levels[0].Objects[0], l.Objects[0])

	assert.False(t, got.Modified)
}

// The two formats must agree: importing YAML and saving binary gives the
// same bytes as saving the original binary.
func TestYAMLMatchesBinary(t *testing.T) {
	p := testProject()

	var y bytes.Buffer
	require.NoError(t, p.WriteYAML(&y, ""))
	fromYAML, err := ReadYAML(&y, "", nil)
	require.NoError(t, err)

	var direct, converted bytes.Buffer
	require.NoError(t, p.WriteFile(&direct, ""))
	require.NoError(t, fromYAML.WriteFile(&converted, ""))
	assert.Equal(t, direct.Bytes(), converted.Bytes())
}

func TestYAMLNewerVersion(t *testing.T) {
	_, err := ReadYAML(bytes.NewReader([]byte("version: 99\n")), "", nil)
	assert.IsType(t, FormatError(""), err)
}
