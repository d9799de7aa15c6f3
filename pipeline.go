package tilefab

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/retrofab/tilefab/chr"
)

// Batch converts every image file under a directory tree into packed
// pattern data, written alongside each source with a .chr extension.
type Batch struct {
	logger   logrus.FieldLogger
	quantize bool
}

func NewBatch(logger logrus.FieldLogger, quantize bool) *Batch {
	return &Batch{
		logger:   logger,
		quantize: quantize,
	}
}

func (b *Batch) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !imageExt(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (b *Batch) convertWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if err := b.convertFile(file); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

func (b *Batch) convertFile(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	var p *chr.Patterns
	if b.quantize {
		p, err = chr.DecodeQuantized(f)
	} else {
		p, err = chr.Decode(f)
	}
	if err != nil {
		b.logger.WithField("file", file).WithError(err).Warn("skipping")
		return nil
	}

	out := strings.TrimSuffix(file, filepath.Ext(file)) + ".chr"
	if err := os.WriteFile(out, p.Data, 0o666); err != nil {
		return err
	}

	b.logger.WithFields(logrus.Fields{
		"file":  file,
		"out":   out,
		"tiles": len(p.Data) / chr.TileBytes,
	}).Info("converted")

	return nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks path and converts every image file it finds.
func (b *Batch) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := b.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < 10; i++ {
		errc, err := b.convertWorker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
