// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package triplestore keeps a node's RDF graph in a SQLite database and
// answers the class-level pattern queries used by the structure extractor.
package triplestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/graph-structure/internal/extract"
	"github.com/pdiddy/graph-structure/pkg/types"
)

const batchSize = 5000

// Store manages the triple store SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the triple store at path and creates the schema if
// it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// OpenReadOnly opens an existing triple store for querying. A missing
// file or a database without the triples table is an error; nothing is
// created.
func OpenReadOnly(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening triple store: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'triples'`).Scan(&name)
	if err != nil {
		db.Close()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s is not a triple store: no triples table", path)
		}
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS triples (
			subject TEXT NOT NULL,
			subject_kind TEXT NOT NULL,
			predicate TEXT NOT NULL,
			object TEXT NOT NULL,
			object_kind TEXT NOT NULL,
			datatype TEXT NOT NULL DEFAULT '',
			lang TEXT NOT NULL DEFAULT '',
			UNIQUE (subject, subject_kind, predicate, object, object_kind, datatype, lang)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_triples_po ON triples(predicate, object)`,
		`CREATE INDEX IF NOT EXISTS idx_triples_sp ON triples(subject, predicate)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// LoadSummary holds counts from one load run.
type LoadSummary struct {
	Inserted   int
	Duplicates int
	Malformed  int
}

// Total returns the number of statements read, malformed ones included.
func (s LoadSummary) Total() int {
	return s.Inserted + s.Duplicates + s.Malformed
}

// Load parses r in format f and inserts every statement. Malformed
// N-Triples lines are reported on w and skipped.
func (s *Store) Load(ctx context.Context, r io.Reader, f Format, w io.Writer) (LoadSummary, error) {
	var summary LoadSummary
	batch := make([]Statement, 0, batchSize)

	flush := func() error {
		inserted, err := s.Insert(ctx, batch)
		if err != nil {
			return err
		}
		summary.Inserted += inserted
		summary.Duplicates += len(batch) - inserted
		batch = batch[:0]
		return nil
	}

	err := Parse(r, f, func(st Statement) error {
		batch = append(batch, st)
		if len(batch) == batchSize {
			return flush()
		}
		return nil
	}, func(e *SyntaxError) {
		fmt.Fprintf(w, "skipped %v\n", e)
		summary.Malformed++
	})
	if err == nil && len(batch) > 0 {
		err = flush()
	}
	if err != nil {
		return summary, fmt.Errorf("loading triples: %w", err)
	}

	fmt.Fprintf(w, "inserted: %d, duplicates: %d, malformed: %d\n",
		summary.Inserted, summary.Duplicates, summary.Malformed)
	return summary, nil
}

// Insert stores statements in one transaction and returns how many were
// new. Plain literals get xsd:string and language-tagged literals get
// rdf:langString as datatype.
func (s *Store) Insert(ctx context.Context, statements []Statement) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO triples (subject, subject_kind, predicate, object, object_kind, datatype, lang)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, st := range statements {
		o := st.Object
		if o.Kind == TermLiteral && o.Datatype == "" {
			o.Datatype = extract.XSDString
			if o.Lang != "" {
				o.Datatype = extract.RDFLangString
			}
		}
		res, err := stmt.ExecContext(ctx,
			st.Subject.Value, string(st.Subject.Kind), st.Predicate.Value,
			o.Value, string(o.Kind), o.Datatype, o.Lang,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting %s %s: %w", st.Subject.Value, st.Predicate.Value, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("reading insert result: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing triples: %w", err)
	}
	return inserted, nil
}

// Count returns the number of stored triples.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM triples`).Scan(&n)
	return n, err
}

// Classes implements extract.PatternStore.
func (s *Store) Classes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT object FROM triples
		 WHERE predicate = ? AND object_kind = 'iri'
		 ORDER BY object`, extract.RDFType)
	if err != nil {
		return nil, fmt.Errorf("querying classes: %w", err)
	}
	defer rows.Close()

	var classes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning class: %w", err)
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// relationsQuery joins "instance of class" -> "predicate to X" -> "X is
// instance of class O" for resources, and reads the datatype directly for
// literal values.
const relationsQuery = `
SELECT r.predicate, ot.object, 'class'
FROM triples ti
JOIN triples r ON r.subject = ti.subject AND r.subject_kind = ti.subject_kind
JOIN triples ot ON ot.subject = r.object AND ot.subject_kind = r.object_kind
	AND ot.predicate = ? AND ot.object_kind = 'iri'
WHERE ti.predicate = ? AND ti.object = ? AND ti.object_kind = 'iri'
	AND r.object_kind <> 'literal'
UNION
SELECT r.predicate, r.datatype, 'literal'
FROM triples ti
JOIN triples r ON r.subject = ti.subject AND r.subject_kind = ti.subject_kind
WHERE ti.predicate = ? AND ti.object = ? AND ti.object_kind = 'iri'
	AND r.object_kind = 'literal'
ORDER BY 1, 2, 3`

// Relations implements extract.PatternStore.
func (s *Store) Relations(ctx context.Context, class string) ([]extract.Relation, error) {
	rows, err := s.db.QueryContext(ctx, relationsQuery,
		extract.RDFType, extract.RDFType, class,
		extract.RDFType, class,
	)
	if err != nil {
		return nil, fmt.Errorf("querying relations: %w", err)
	}
	defer rows.Close()

	var rels []extract.Relation
	for rows.Next() {
		var pred, target, kind string
		if err := rows.Scan(&pred, &target, &kind); err != nil {
			return nil, fmt.Errorf("scanning relation: %w", err)
		}
		rels = append(rels, extract.Relation{
			Predicate: pred,
			Object:    types.Target{Kind: types.URIKind(kind), URI: target},
		})
	}
	return rels, rows.Err()
}

// Label implements extract.PatternStore. Untagged and English labels are
// preferred over other languages.
func (s *Store) Label(ctx context.Context, uri string) (string, error) {
	var label string
	err := s.db.QueryRowContext(ctx,
		`SELECT object FROM triples
		 WHERE subject = ? AND subject_kind = 'iri' AND predicate = ? AND object_kind = 'literal'
		 ORDER BY (lang = '' OR lang = 'en' OR lang LIKE 'en-%') DESC, object
		 LIMIT 1`, uri, extract.RDFSLabel,
	).Scan(&label)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying label: %w", err)
	}
	return label, nil
}
