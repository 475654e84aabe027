// Package source provides the record sets a session queries. Records are
// pulled once at startup and never refreshed.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/machq/internal/query"
)

// ErrUnknownKind is returned by New for an unsupported source kind.
var ErrUnknownKind = errors.New("unknown source kind")

// Source provides an ordered record set.
type Source interface {
	Records(ctx context.Context) ([]query.Record, error)
}

// Kind names a source implementation.
type Kind string

//revive:disable:exported
const (
	KindSynthetic Kind = "synthetic"
	KindFile      Kind = "file"
	KindSQLite    Kind = "sqlite"
)

//revive:enable:exported

// Config selects and parameterizes a source.
type Config struct {
	Kind  Kind
	Count int       // synthetic
	Seed  uint64    // synthetic; 0 picks a random seed
	Path  string    // file, sqlite; "-" reads Stdin for file
	Table string    // sqlite
	Stdin io.Reader // file with Path "-"; os.Stdin when nil
}

// New builds the source described by cfg.
func New(cfg Config, log logr.Logger) (Source, error) {
	switch Kind(strings.ToLower(string(cfg.Kind))) {
	case "", KindSynthetic:
		return &Synthetic{Count: cfg.Count, Seed: cfg.Seed, Log: log}, nil
	case KindFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file source: no path given")
		}
		return &File{Path: cfg.Path, In: cfg.Stdin, Log: log}, nil
	case KindSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite source: no database path given")
		}
		return &SQLite{Path: cfg.Path, Table: cfg.Table, Log: log}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}

// fromMaps converts decoded rows into records, failing on the first bad row.
func fromMaps(rows []map[string]any) ([]query.Record, error) {
	records := make([]query.Record, 0, len(rows))
	for i, m := range rows {
		r, err := query.RecordFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		records = append(records, r)
	}
	return records, nil
}
