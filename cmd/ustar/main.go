// Command ustar creates, lists, and extracts ustar tape archives.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/meigma/ustar"
)

func main() {
	logger := zap.Must(zap.NewDevelopment())
	defer logger.Sync() //nolint:errcheck // best-effort flush on exit

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "create":
		err = runCreate(os.Args[2:], logger)
	case "list":
		err = runList(os.Args[2:])
	case "extract":
		err = runExtract(os.Args[2:], logger)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal("command failed", zap.Error(err))
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  ustar create -f archive.tar [-b blocks] file...
  ustar list -f archive.tar
  ustar extract -f archive.tar [-C dir]`)
}

func runCreate(args []string, logger *zap.Logger) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	out := fs.String("f", "", "archive file to write")
	blocks := fs.Int("b", 0, "blocking factor in 512-byte blocks (default 20)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" || fs.NArg() == 0 {
		return errors.New("create: -f and at least one input file are required")
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	w := ustar.NewWriter(f, ustar.WriteOptions{RecordBlocks: *blocks})
	for _, path := range fs.Args() {
		name := filepath.ToSlash(filepath.Clean(path))
		if err := w.AddFile(name, path); err != nil {
			return err
		}
		logger.Info("added entry", zap.String("name", name))
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	in := fs.String("f", "", "archive file to read")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("list: -f is required")
	}

	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer f.Close()

	r := ustar.NewReader(f)
	for {
		hdr, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		info := hdr.FileInfo()
		fmt.Printf("%s %8s %s %s\n",
			info.Mode(),
			humanize.IBytes(uint64(info.Size())),
			hdr.ModTime.Format("2006-01-02 15:04"),
			hdr.Name)
	}
}

func runExtract(args []string, logger *zap.Logger) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	in := fs.String("f", "", "archive file to read")
	dir := fs.String("C", ".", "destination directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("extract: -f is required")
	}

	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer f.Close()

	r := ustar.NewReader(f)
	for {
		hdr, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !filepath.IsLocal(filepath.FromSlash(hdr.Name)) {
			logger.Warn("skipping entry with non-local name", zap.String("name", hdr.Name))
			continue
		}

		dest := filepath.Join(*dir, filepath.FromSlash(hdr.Name))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		switch err := r.Extract(hdr, dest); {
		case errors.Is(err, ustar.ErrExtractTypeFlag):
			logger.Warn("skipping unsupported entry type",
				zap.String("name", hdr.Name), zap.Uint8("typeflag", uint8(hdr.TypeFlag)))
		case err != nil:
			return err
		default:
			logger.Info("extracted entry",
				zap.String("name", hdr.Name), zap.Int64("size", hdr.FileInfo().Size()))
		}
	}
}
