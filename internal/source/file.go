package source

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/machq/internal/query"
	"github.com/oakwood-commons/machq/pkg/loader"
)

// StdinPath selects standard input as the inventory file.
const StdinPath = "-"

// File reads an inventory from a JSON, NDJSON, YAML or TOML file. A Path of
// "-" reads In (standard input when nil) instead.
type File struct {
	Path string
	In   io.Reader
	Log  logr.Logger
}

// Records implements Source.
func (f *File) Records(ctx context.Context) ([]query.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	docs, err := f.load()
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	rows, err := loader.Records(docs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	records, err := fromMaps(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	f.Log.V(1).Info("loaded inventory file", "path", f.Path, "records", len(records))
	return records, nil
}

func (f *File) load() ([]any, error) {
	if f.Path != StdinPath {
		return loader.LoadFile(f.Path)
	}
	in := f.In
	if in == nil {
		in = os.Stdin
	}
	return loader.LoadReader(in, loader.FormatAuto)
}
