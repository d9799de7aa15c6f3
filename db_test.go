package tilefab

import (
	"crypto/sha1"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retrofab/tilefab/chr"
)

func TestCHRCache(t *testing.T) {
	cache, err := NewCHRCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer cache.Close()

	_, ok, err := cache.Get("deadbeef")
	require.NoError(t, err)
	assert.False(t, ok)

	p := &chr.Patterns{
		Data:    []byte{1, 2, 3, 4},
		Indices: []uint16{chr.NoTile, 0, 1},
	}
	require.NoError(t, cache.Put("deadbeef", p))

	got, ok, err := cache.Get("deadbeef")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, p.Data, got.Data)
	assert.Equal(t, p.Indices, got.Indices)

	// Put is an upsert
	p.Data = []byte{9}
	p.Indices = []uint16{0}
	require.NoError(t, cache.Put("deadbeef", p))
	got, ok, err = cache.Get("deadbeef")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte{9}, got.Data)
}

func TestCachingLoader(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCHRCache(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	defer cache.Close()

	raw := make([]byte, chr.TileBytes)
	raw[0] = 0xAA
	file := filepath.Join(dir, "tiles.chr")
	require.NoError(t, os.WriteFile(file, raw, 0o666))

	loader := NewCachingLoader(FileLoader{}, cache)

	p, err := loader.LoadCHR(file)
	require.NoError(t, err)
	assert.Equal(t, raw, p.Data)
	assert.Equal(t, []uint16{0}, p.Indices)

	// The conversion is now cached under the file's checksum
	sum := fmt.Sprintf("%X", sha1.Sum(raw))
	cached, ok, err := cache.Get(sum)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, raw, cached.Data)

	// A second load is served from the cache
	p, err = loader.LoadCHR(file)
	require.NoError(t, err)
	assert.Equal(t, raw, p.Data)

	// Missing files still load as empty rather than failing
	p, err = loader.LoadCHR(filepath.Join(dir, "missing.chr"))
	require.NoError(t, err)
	assert.Empty(t, p.Data)
}
