package tilefab

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/retrofab/tilefab/chr"
)

// FileLoader loads CHR sources and collision masks straight from the
// filesystem. Image files are converted through the chr codec; any other
// extension is treated as raw pre-packed tile data. Missing files yield
// empty data rather than an error, so a project whose assets moved still
// loads.
type FileLoader struct{}

func imageExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".gif", ".jpg", ".jpeg":
		return true
	}
	return false
}

func convertCHR(path string, data []byte) (*chr.Patterns, error) {
	if imageExt(path) {
		return chr.Decode(bytes.NewReader(data))
	}
	return chr.RawPatterns(data), nil
}

// LoadCHR reads and converts one CHR source.
func (FileLoader) LoadCHR(path string) (*chr.Patterns, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &chr.Patterns{}, nil
	}
	return convertCHR(path, data)
}

// LoadCollision reads a collision mask image and slices it into tiles. An
// unreadable or undecodable mask yields no bitmaps rather than an error.
func (FileLoader) LoadCollision(path string, scale int) ([]*image.RGBA, error) {
	if path == "" || scale <= 0 {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, nil
	}
	return chr.LoadCollision(m, scale), nil
}
