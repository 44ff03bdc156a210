package tabular

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/graph-structure/internal/extract"
	"github.com/pdiddy/graph-structure/pkg/types"
)

// CSVSource reads an edge list from CSV with a header row. Columns are
// located by name, so extra columns and any column order are accepted.
type CSVSource struct {
	open    func() (io.ReadCloser, error)
	columns types.TabularColumns
}

// NewCSVFile returns a CSVSource reading path on every extraction.
func NewCSVFile(path string, cols types.TabularColumns) *CSVSource {
	return &CSVSource{
		open:    func() (io.ReadCloser, error) { return os.Open(path) },
		columns: cols.WithDefaults(),
	}
}

// NewCSVReader returns a CSVSource over r. It can be read once.
func NewCSVReader(r io.Reader, cols types.TabularColumns) *CSVSource {
	return &CSVSource{
		open:    func() (io.ReadCloser, error) { return io.NopCloser(r), nil },
		columns: cols.WithDefaults(),
	}
}

// Edges implements extract.EdgeSource. An empty input has no edges.
func (s *CSVSource) Edges(ctx context.Context, fn func(extract.Edge) error) error {
	rc, err := s.open()
	if err != nil {
		return fmt.Errorf("opening edge list: %w", err)
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	idx, err := columnIndex(header, s.columns)
	if err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			// A broken row only loses that row.
			continue
		}
		if err != nil {
			return fmt.Errorf("reading edge list: %w", err)
		}
		if err := fn(idx.project(rec).edge()); err != nil {
			return err
		}
	}
}

// indexes holds the position of each configured column, -1 if absent.
type indexes struct {
	subjectType, predicate, objectType, objectDatatype, subjectLabel, objectLabel int
}

func columnIndex(header []string, cols types.TabularColumns) (indexes, error) {
	find := func(name string) int {
		if name == "" {
			return -1
		}
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}

	idx := indexes{
		subjectType:    find(cols.SubjectType),
		predicate:      find(cols.Predicate),
		objectType:     find(cols.ObjectType),
		objectDatatype: find(cols.ObjectDatatype),
		subjectLabel:   find(cols.SubjectLabel),
		objectLabel:    find(cols.ObjectLabel),
	}

	var missing []string
	if idx.subjectType < 0 {
		missing = append(missing, cols.SubjectType)
	}
	if idx.predicate < 0 {
		missing = append(missing, cols.Predicate)
	}
	if idx.objectType < 0 && idx.objectDatatype < 0 {
		missing = append(missing, cols.ObjectType+"|"+cols.ObjectDatatype)
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("edge list header missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func (idx indexes) project(rec []string) row {
	get := func(i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	return row{
		subjectType:    get(idx.subjectType),
		predicate:      get(idx.predicate),
		objectType:     get(idx.objectType),
		objectDatatype: get(idx.objectDatatype),
		subjectLabel:   get(idx.subjectLabel),
		objectLabel:    get(idx.objectLabel),
	}
}
