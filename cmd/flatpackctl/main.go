// flatpackctl inspects and converts flatpack wire-format files.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/op/go-logging"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"

	"github.com/ashgrove/flatpack"
	"github.com/ashgrove/flatpack/adapter/jsonio"
	"github.com/ashgrove/flatpack/adapter/yamlio"
	"github.com/ashgrove/flatpack/mmapbuf"
)

func main() {
	setupLogging(logging.INFO)

	app := cli.NewApp()
	app.Name = "flatpackctl"
	app.Usage = "validate, dump and convert flatpack wire-format files"
	app.Commands = []cli.Command{
		cli.Command{
			Name:      "validate",
			Usage:     "Check that a file is a well-formed wire buffer",
			ArgsUsage: "<file>",
			Action:    validateCommand,
		},
		cli.Command{
			Name:      "dump",
			Usage:     "Print a wire buffer as indented JSON",
			ArgsUsage: "<file>",
			Action:    dumpCommand,
		},
		cli.Command{
			Name:      "convert",
			Usage:     "Convert one file between json, yaml and wire formats",
			ArgsUsage: "<src> <dst>",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "from",
					Usage: "source format: json, yaml or wire (default: by extension)",
				},
				cli.StringFlag{
					Name:  "to",
					Usage: "destination format: json, yaml or wire (default: by extension)",
				},
			},
			Action: convertCommand,
		},
		cli.Command{
			Name:      "convert-dir",
			Usage:     "Convert every matching file in a directory concurrently",
			ArgsUsage: "<srcdir> <dstdir>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "from", Usage: "source format: json, yaml or wire"},
				cli.StringFlag{Name: "to", Usage: "destination format: json, yaml or wire"},
				cli.IntFlag{
					Name:  "workers",
					Usage: "concurrent conversions (default: GOMAXPROCS)",
				},
			},
			Action: convertDirCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func validateCommand(c *cli.Context) error {
	path := c.Args().Get(0)
	if path == "" {
		return fmt.Errorf("usage: flatpackctl validate <file>")
	}
	_, err := mmapbuf.Open(path, flatpack.OwnerAtomic)
	if err != nil {
		fmt.Printf("%s %s: %v\n", red("FAIL"), path, err)
		os.Exit(1)
	}
	fmt.Printf("%s %s\n", green("OK"), path)
	return nil
}

func dumpCommand(c *cli.Context) error {
	path := c.Args().Get(0)
	if path == "" {
		return fmt.Errorf("usage: flatpackctl dump <file>")
	}
	buf, err := mmapbuf.Open(path, flatpack.OwnerAtomic)
	if err != nil {
		return err
	}
	defer buf.Release()
	var compact bytes.Buffer
	if err := jsonio.Encode(&compact, flatpack.NewBufferPacket(buf.Clone())); err != nil {
		return err
	}
	var indented bytes.Buffer
	if err := json.Indent(&indented, compact.Bytes(), "", "  "); err != nil {
		return err
	}
	indented.WriteByte('\n')
	_, err = indented.WriteTo(os.Stdout)
	return err
}

// formatFor resolves an explicit --from/--to value, falling back to the file
// extension.
func formatFor(explicit, path string) (string, error) {
	if explicit != "" {
		switch explicit {
		case "json", "yaml", "wire":
			return explicit, nil
		}
		return "", fmt.Errorf("unknown format %q", explicit)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	case ".fp", ".wire", ".bin":
		return "wire", nil
	}
	return "", fmt.Errorf("cannot infer format of %q; pass --from/--to", path)
}

func convertCommand(c *cli.Context) error {
	src, dst := c.Args().Get(0), c.Args().Get(1)
	if src == "" || dst == "" {
		return fmt.Errorf("usage: flatpackctl convert [--from f] [--to f] <src> <dst>")
	}
	from, err := formatFor(c.String("from"), src)
	if err != nil {
		return err
	}
	to, err := formatFor(c.String("to"), dst)
	if err != nil {
		return err
	}
	if err := convertFile(src, dst, from, to); err != nil {
		return err
	}
	log.Infof("converted %s (%s) -> %s (%s)", src, from, dst, to)
	return nil
}

func convertDirCommand(c *cli.Context) error {
	srcDir, dstDir := c.Args().Get(0), c.Args().Get(1)
	if srcDir == "" || dstDir == "" {
		return fmt.Errorf("usage: flatpackctl convert-dir --from f --to f <srcdir> <dstdir>")
	}
	from, to := c.String("from"), c.String("to")
	if from == "" || to == "" {
		return fmt.Errorf("convert-dir requires explicit --from and --to")
	}
	if _, err := formatFor(from, ""); err != nil {
		return err
	}
	if _, err := formatFor(to, ""); err != nil {
		return err
	}
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return err
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return err
	}

	workers := c.Int("workers")
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var group errgroup.Group
	sem := make(chan struct{}, workers)
	converted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		src := filepath.Join(srcDir, name)
		dst := filepath.Join(dstDir, replaceExt(name, to))
		converted++
		group.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()
			// Each conversion builds its own tree with atomic ownership, so the
			// goroutines never share a mutable handle.
			if err := convertFile(src, dst, from, to); err != nil {
				return fmt.Errorf("%s: %w", src, err)
			}
			log.Debugf("converted %s -> %s", src, dst)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	log.Infof("converted %d file(s) into %s", converted, dstDir)
	return nil
}

func replaceExt(name, format string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	switch format {
	case "json":
		return stem + ".json"
	case "yaml":
		return stem + ".yaml"
	default:
		return stem + ".fp"
	}
}

func convertFile(src, dst, from, to string) error {
	p, err := loadPacket(src, from)
	if err != nil {
		return err
	}
	defer p.Release()
	return writePacket(dst, to, p)
}

func loadPacket(path, format string) (*flatpack.Packet, error) {
	if format == "wire" {
		buf, err := mmapbuf.Open(path, flatpack.OwnerAtomic)
		if err != nil {
			return nil, err
		}
		return flatpack.NewBufferPacket(buf), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	var v flatpack.Value
	if format == "json" {
		v, err = jsonio.Decode(file, flatpack.OwnerAtomic)
	} else {
		v, err = yamlio.Decode(file, flatpack.OwnerAtomic)
	}
	if err != nil {
		return nil, err
	}
	return flatpack.NewHeapPacket(v), nil
}

func writePacket(path, format string, p *flatpack.Packet) error {
	if format == "wire" {
		if err := p.Finalize(); err != nil {
			return err
		}
		buf, err := p.BufferView()
		if err != nil {
			return err
		}
		return os.WriteFile(path, buf.Bytes(), 0644)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	if format == "json" {
		return jsonio.Encode(file, p)
	}
	return yamlio.Encode(file, p)
}
