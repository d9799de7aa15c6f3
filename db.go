package tilefab

import (
	"crypto/sha1"
	"database/sql"
	"encoding/binary"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/retrofab/tilefab/chr"
)

// CHRCache stores converted pattern data keyed by the SHA-1 of the source
// file, so repeated project loads skip the image decode and quantize work.
type CHRCache struct {
	db *sql.DB
}

func NewCHRCache(file string) (*CHRCache, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS chr (sha1 TEXT PRIMARY KEY NOT NULL, data BLOB NOT NULL, indices BLOB NOT NULL)"); err != nil {
		return nil, err
	}

	return &CHRCache{
		db: db,
	}, nil
}

func (c *CHRCache) Close() error {
	return c.db.Close()
}

func (c *CHRCache) Get(sum string) (*chr.Patterns, bool, error) {
	var data, indices []byte
	switch err := c.db.QueryRow("SELECT data, indices FROM chr WHERE sha1 = ?", sum).Scan(&data, &indices); err {
	case sql.ErrNoRows:
		return nil, false, nil
	case nil:
		p := &chr.Patterns{Data: data}
		for i := 0; i+1 < len(indices); i += 2 {
			p.Indices = append(p.Indices, binary.LittleEndian.Uint16(indices[i:]))
		}
		return p, true, nil
	default:
		return nil, false, err
	}
}

func (c *CHRCache) Put(sum string, p *chr.Patterns) error {
	data := p.Data
	if data == nil {
		data = []byte{}
	}
	indices := make([]byte, 0, len(p.Indices)*2)
	for _, v := range p.Indices {
		indices = binary.LittleEndian.AppendUint16(indices, v)
	}
	if _, err := c.db.Exec("INSERT OR REPLACE INTO chr (sha1, data, indices) VALUES (?, ?, ?)", sum, data, indices); err != nil {
		return err
	}
	return nil
}

// CachingLoader wraps another Loader with a CHRCache. Collision masks are
// never cached; they decode in one pass anyway.
type CachingLoader struct {
	Loader
	cache *CHRCache
}

func NewCachingLoader(l Loader, cache *CHRCache) *CachingLoader {
	return &CachingLoader{
		Loader: l,
		cache:  cache,
	}
}

func (l *CachingLoader) LoadCHR(path string) (*chr.Patterns, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return &chr.Patterns{}, nil
	}

	sum := fmt.Sprintf("%X", sha1.Sum(b))
	if p, ok, err := l.cache.Get(sum); err != nil {
		return nil, err
	} else if ok {
		return p, nil
	}

	p, err := convertCHR(path, b)
	if err != nil {
		return nil, err
	}
	if err := l.cache.Put(sum, p); err != nil {
		return nil, err
	}
	return p, nil
}
