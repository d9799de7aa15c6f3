package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/retrofab/tilefab"
	"github.com/retrofab/tilefab/chr"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func newLoader(c *cli.Context) (tilefab.Loader, io.Closer, error) {
	var loader tilefab.Loader = tilefab.FileLoader{}
	if file := c.String("cache"); file != "" {
		cache, err := tilefab.NewCHRCache(file)
		if err != nil {
			return nil, nil, err
		}
		return tilefab.NewCachingLoader(loader, cache), cache, nil
	}
	return loader, nil, nil
}

func openProject(c *cli.Context, path string) (*tilefab.Project, error) {
	loader, closer, err := newLoader(c)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		defer closer.Close()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return tilefab.ReadFile(f, filepath.Dir(path), loader)
}

func main() {
	app := cli.NewApp()

	app.Name = "tilefab"
	app.Usage = "Tile graphics project utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "cache",
			EnvVars: []string{"TILEFAB_CACHE"},
			Usage:   "path to CHR conversion cache",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "info",
			Usage:       "Summarise a project file",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				p, err := openProject(c, c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				fmt.Printf("palettes:\t%d\n", p.Palette.Num)
				fmt.Printf("chr sources:\t%d\n", len(p.CHRFiles))
				fmt.Printf("classes:\t%d\n", len(p.Classes))
				fmt.Printf("levels:\t%d\n", len(p.Levels))
				for _, l := range p.Levels {
					d := l.Dimen()
					fmt.Printf("\t%s\t%dx%d\t%d objects", l.Name, d.W, d.H, len(l.Objects))
					if p.MetatileSize > 1 {
						fmt.Printf("\t%d metatiles", l.CountMetatiles(p.MetatileSize, 0))
					}
					fmt.Println()
				}

				return nil
			},
		},
		{
			Name:        "chr",
			Usage:       "Convert an image to packed pattern data",
			Description: "",
			ArgsUsage:   "IN OUT",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "quantize",
					Aliases: []string{"q"},
					Usage:   "reduce to four colors first",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				f, err := os.Open(c.Args().Get(0))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer f.Close()

				var p *chr.Patterns
				if c.Bool("quantize") {
					p, err = chr.DecodeQuantized(f)
				} else {
					p, err = chr.Decode(f)
				}
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := os.WriteFile(c.Args().Get(1), p.Data, 0o666); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Convert every image under a directory",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "quantize",
					Aliases: []string{"q"},
					Usage:   "reduce to four colors first",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				b := tilefab.NewBatch(newLogger(c), c.Bool("quantize"))
				if err := b.Scan(c.Args().First()); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "export",
			Usage:       "Convert a binary project to YAML",
			Description: "",
			ArgsUsage:   "IN OUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				p, err := openProject(c, c.Args().Get(0))
				if err != nil {
					return cli.Exit(err, 1)
				}

				out := c.Args().Get(1)
				f, err := os.Create(out)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer f.Close()

				if err := p.WriteYAML(f, filepath.Dir(out)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "import",
			Usage:       "Convert a YAML project to binary",
			Description: "",
			ArgsUsage:   "IN OUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				loader, closer, err := newLoader(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				if closer != nil {
					defer closer.Close()
				}

				in := c.Args().Get(0)
				f, err := os.Open(in)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer f.Close()

				p, err := tilefab.ReadYAML(f, filepath.Dir(in), loader)
				if err != nil {
					return cli.Exit(err, 1)
				}

				out := c.Args().Get(1)
				g, err := os.Create(out)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer g.Close()

				if err := p.WriteFile(g, filepath.Dir(out)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
