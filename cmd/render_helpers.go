package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/machq/internal/config"
	"github.com/oakwood-commons/machq/internal/formatter"
	"github.com/oakwood-commons/machq/internal/limiter"
	"github.com/oakwood-commons/machq/internal/source"
	"github.com/oakwood-commons/machq/internal/ui"
	"github.com/oakwood-commons/machq/pkg/core"
	"github.com/oakwood-commons/machq/pkg/tui"
)

type snapshotSize struct {
	Width  int
	Height int
}

// resolveSnapshotSize prefers explicit flags, then the detected terminal,
// then 80x24.
func resolveSnapshotSize(flagWidth, flagHeight int) snapshotSize {
	width, height := flagWidth, flagHeight
	if width <= 0 || height <= 0 {
		w, h := detectTerminalSize()
		if width <= 0 {
			width = w
		}
		if height <= 0 {
			height = h
		}
	}
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	return snapshotSize{Width: width, Height: height}
}

// sourceKindForPath guesses the source kind of a positional inventory path.
func sourceKindForPath(path string) source.Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return source.KindSQLite
	default:
		return source.KindFile
	}
}

// sourceConfig resolves the record source: config file first, then the
// positional path, then explicit flags.
func (o *rootOptions) sourceConfig(cfg config.Config, args []string, stdin io.Reader) source.Config {
	sc := source.Config{
		Kind:  source.Kind(cfg.Source.Kind),
		Count: cfg.Source.Count,
		Seed:  cfg.Source.Seed,
		Path:  cfg.Source.Path,
		Table: cfg.Source.Table,
		Stdin: stdin,
	}
	if len(args) > 0 {
		sc.Path = args[0]
		sc.Kind = sourceKindForPath(sc.Path)
	}
	if o.changed("source") {
		sc.Kind = source.Kind(o.source)
	}
	if o.changed("records") {
		sc.Count = o.records
	}
	if o.changed("seed") {
		sc.Seed = o.seed
	}
	if o.changed("table") {
		sc.Table = o.table
	}
	return sc
}

// applyFlagOverrides folds UI flags into the merged config so every path
// (console, snapshot, batch) sees the same settings.
func (o *rootOptions) applyFlagOverrides(cfg *config.Config) error {
	if o.changed("dialect") {
		cfg.UI.Dialect = o.dialect
	}
	if o.changed("engine") {
		cfg.UI.Engine = o.engine
	}
	if o.changed("field-match") {
		cfg.UI.FieldMatch = o.fieldMatch
	}
	if o.changed("theme") {
		cfg.UI.Theme.Default = o.theme
		if _, _, err := cfg.ActiveTheme(); err != nil {
			return err
		}
	}
	return nil
}

// tuiConfig builds the console config from the merged configuration.
func (o *rootOptions) tuiConfig(cfg config.Config, log logr.Logger) (tui.Config, error) {
	_, tc, err := cfg.ActiveTheme()
	if err != nil {
		return tui.Config{}, err
	}
	theme := ui.ThemeFromConfig(tc)
	return tui.Config{
		AppName:        cfg.App.About.Name,
		Width:          o.width,
		Height:         o.height,
		NoColor:        o.noColor,
		Theme:          &theme,
		Prompt:         cfg.UI.Prompt,
		MaxSuggestions: cfg.UI.MaxSuggestions,
		FieldMatch:     cfg.UI.FieldMatch,
		Dialect:        cfg.UI.Dialect,
		Engine:         cfg.UI.Engine,
		InitialQuery:   o.query,
		StartKeys:      o.press,
		Logger:         log,
	}, nil
}

func (o *rootOptions) limits() limiter.Config {
	return limiter.Config{Limit: o.limit, Offset: o.offset, Tail: o.tail}
}

// tableOptions sizes batch table output. A limiter window replaces the
// configured row cap.
func (o *rootOptions) tableOptions(cfg config.Config, width int) formatter.TableOptions {
	opts := formatter.TableOptions{NoColor: o.noColor, MaxWidth: width, MaxRows: cfg.UI.MaxRows}
	if o.limits().IsActive() {
		opts.MaxRows = 0
	}
	return opts
}

func outputWidth(flagWidth int, piped bool) int {
	if flagWidth > 0 {
		return flagWidth
	}
	if piped {
		return 0
	}
	w, _ := detectTerminalSize()
	return w
}

func validateOutput(output string) error {
	switch output {
	case core.OutputTable, core.OutputJSON, core.OutputYAML, core.OutputMarkdown, core.OutputHTML:
		return nil
	default:
		return fmt.Errorf("invalid output %q (use table|json|yaml|markdown|html)", output)
	}
}
