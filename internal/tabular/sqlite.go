package tabular

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/graph-structure/internal/extract"
	"github.com/pdiddy/graph-structure/pkg/types"
)

// DefaultTable is the edge table read when none is configured.
const DefaultTable = "edges"

// SQLiteSource reads an edge list stored as a table in a SQLite database.
// NULL cells read as empty strings.
type SQLiteSource struct {
	db      *sql.DB
	owned   bool
	table   string
	columns types.TabularColumns
}

// OpenSQLite opens the database at path read-only.
func OpenSQLite(path, table string, cols types.TabularColumns) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening edge database: %w", err)
	}
	s := NewSQLiteSource(db, table, cols)
	s.owned = true
	return s, nil
}

// NewSQLiteSource wraps an existing connection. The caller keeps ownership
// of db.
func NewSQLiteSource(db *sql.DB, table string, cols types.TabularColumns) *SQLiteSource {
	if table == "" {
		table = DefaultTable
	}
	return &SQLiteSource{db: db, table: table, columns: cols.WithDefaults()}
}

// Close releases the connection if this source opened it.
func (s *SQLiteSource) Close() error {
	if s.owned {
		return s.db.Close()
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Edges implements extract.EdgeSource.
func (s *SQLiteSource) Edges(ctx context.Context, fn func(extract.Edge) error) error {
	rows, err := s.db.QueryContext(ctx, `SELECT * FROM `+quoteIdent(s.table))
	if err != nil {
		return fmt.Errorf("querying edge table %s: %w", s.table, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("reading edge table columns: %w", err)
	}
	idx, err := columnIndex(header, s.columns)
	if err != nil {
		return err
	}

	cells := make([]sql.NullString, len(header))
	dest := make([]any, len(header))
	for i := range cells {
		dest[i] = &cells[i]
	}
	rec := make([]string, len(header))

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("scanning edge row: %w", err)
		}
		for i, c := range cells {
			rec[i] = c.String
		}
		if err := fn(idx.project(rec).edge()); err != nil {
			return err
		}
	}
	return rows.Err()
}
