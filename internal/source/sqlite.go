package source

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-logr/logr"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/oakwood-commons/machq/internal/query"
)

// DefaultTable is the table read when none is configured.
const DefaultTable = "machines"

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLite reads an inventory table. Columns are matched by name like file
// keys; TAGS is stored as a comma-separated string.
type SQLite struct {
	Path  string
	Table string
	Log   logr.Logger
}

// Records implements Source.
func (s *SQLite) Records(ctx context.Context) ([]query.Record, error) {
	table, err := tableName(s.Table)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+table+" ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	maps, err := scanMaps(rows)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	records, err := fromMaps(maps)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", table, err)
	}
	s.Log.V(1).Info("loaded sqlite inventory", "path", s.Path, "table", table, "records", len(records))
	return records, nil
}

func scanMaps(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		m := make(map[string]any, len(cols))
		for i, c := range cols {
			switch v := vals[i].(type) {
			case nil:
			case []byte:
				m[c] = string(v)
			default:
				m[c] = v
			}
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// WriteSQLite creates table in the database at path and stores records in it,
// replacing any existing table of that name.
func WriteSQLite(ctx context.Context, path, table string, records []query.Record) error {
	table, err := tableName(table)
	if err != nil {
		return err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	ddl := []string{
		"DROP TABLE IF EXISTS " + table,
		"CREATE TABLE " + table + ` (
			system_id TEXT PRIMARY KEY,
			fqdn      TEXT NOT NULL,
			status    TEXT,
			tags      TEXT,
			zone      TEXT,
			fabric    TEXT,
			cores     INTEGER,
			ram       INTEGER,
			disks     INTEGER,
			storage   REAL
		)`,
	}
	for _, stmt := range ddl {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create %s: %w", table, err)
		}
	}

	insert, err := tx.PrepareContext(ctx, "INSERT INTO "+table+
		" (system_id, fqdn, status, tags, zone, fabric, cores, ram, disks, storage) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer insert.Close()

	for _, r := range records {
		args := []any{r.SystemID().String(), r.FQDN()}
		for _, f := range query.Fields() {
			args = append(args, column(r.Value(f)))
		}
		if _, err := insert.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert %s: %w", r.FQDN(), err)
		}
	}
	return tx.Commit()
}

func column(v query.Value) any {
	if !v.Present() {
		return nil
	}
	switch v.Kind() {
	case query.KindList:
		return strings.Join(v.List(), ",")
	case query.KindNumeric:
		if n, ok := v.Number(); ok {
			return n
		}
		return nil
	default:
		return v.Text()
	}
}

func tableName(name string) (string, error) {
	if name == "" {
		return DefaultTable, nil
	}
	if !identifier.MatchString(name) {
		return "", fmt.Errorf("invalid table name %q", name)
	}
	return name, nil
}
