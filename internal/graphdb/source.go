package graphdb

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/pdiddy/graph-structure/internal/extract"
	"github.com/pdiddy/graph-structure/internal/triplestore"
	"github.com/pdiddy/graph-structure/pkg/types"
)

const importBatch = 1000

// Store answers the extractor's pattern queries with Cypher.
type Store struct {
	driver GraphDriver
}

// NewStore wraps a driver. Closing the driver stays with the caller.
func NewStore(d GraphDriver) *Store {
	return &Store{driver: d}
}

func stringValue(rec *neo4j.Record, key string) (string, error) {
	v, ok := rec.Get(key)
	if !ok {
		return "", fmt.Errorf("record has no %q column", key)
	}
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("column %q is %T, not string", key, v)
	}
	return s, nil
}

// Classes implements extract.PatternStore.
func (s *Store) Classes(ctx context.Context) ([]string, error) {
	res, err := s.driver.ExecuteQuery(ctx, ClassesQuery, map[string]any{
		"rdf_type": extract.RDFType,
	})
	if err != nil {
		return nil, err
	}
	classes := make([]string, 0, len(res.Records))
	for _, rec := range res.Records {
		c, err := stringValue(rec, "class")
		if err != nil {
			return nil, err
		}
		if c != "" && !isBlank(c) {
			classes = append(classes, c)
		}
	}
	return classes, nil
}

// Relations implements extract.PatternStore.
func (s *Store) Relations(ctx context.Context, class string) ([]extract.Relation, error) {
	res, err := s.driver.ExecuteQuery(ctx, RelationsQuery, map[string]any{
		"rdf_type":    extract.RDFType,
		"class":       class,
		"xsd_string":  extract.XSDString,
		"lang_string": extract.RDFLangString,
	})
	if err != nil {
		return nil, err
	}
	rels := make([]extract.Relation, 0, len(res.Records))
	for _, rec := range res.Records {
		var vals [3]string
		for i, key := range []string{"predicate", "target", "kind"} {
			if vals[i], err = stringValue(rec, key); err != nil {
				return nil, err
			}
		}
		if isBlank(vals[1]) {
			continue
		}
		rels = append(rels, extract.Relation{
			Predicate: vals[0],
			Object:    types.Target{Kind: types.URIKind(vals[2]), URI: vals[1]},
		})
	}
	return rels, nil
}

// Label implements extract.PatternStore.
func (s *Store) Label(ctx context.Context, uri string) (string, error) {
	res, err := s.driver.ExecuteQuery(ctx, LabelQuery, map[string]any{
		"uri":        uri,
		"rdfs_label": extract.RDFSLabel,
	})
	if err != nil {
		return "", err
	}
	if len(res.Records) == 0 {
		return "", nil
	}
	return stringValue(res.Records[0], "label")
}

// Import writes statements into the graph in batches. Blank nodes become
// resources whose uri keeps the "_:" prefix.
func (s *Store) Import(ctx context.Context, statements []triplestore.Statement, w io.Writer) error {
	for _, q := range IndexQueries {
		if _, err := s.driver.ExecuteQuery(ctx, q, nil); err != nil {
			fmt.Fprintf(w, "warning: index %q: %v\n", q, err)
		}
	}

	var resources, literals []map[string]any
	flush := func() error {
		if len(resources) > 0 {
			if _, err := s.driver.ExecuteQuery(ctx, SaveResourceStatementsQuery, map[string]any{"rows": resources}); err != nil {
				return fmt.Errorf("saving resource statements: %w", err)
			}
			resources = nil
		}
		if len(literals) > 0 {
			if _, err := s.driver.ExecuteQuery(ctx, SaveLiteralStatementsQuery, map[string]any{"rows": literals}); err != nil {
				return fmt.Errorf("saving literal statements: %w", err)
			}
			literals = nil
		}
		return nil
	}

	for _, st := range statements {
		subject := termID(st.Subject)
		if st.Object.Kind == triplestore.TermLiteral {
			dt := st.Object.Datatype
			if dt == "" {
				dt = extract.XSDString
				if st.Object.Lang != "" {
					dt = extract.RDFLangString
				}
			}
			literals = append(literals, map[string]any{
				"s": subject, "p": st.Predicate.Value,
				"v": st.Object.Value, "dt": dt, "lang": st.Object.Lang,
			})
		} else {
			resources = append(resources, map[string]any{
				"s": subject, "p": st.Predicate.Value, "o": termID(st.Object),
			})
		}
		if len(resources)+len(literals) >= importBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "imported %d statements\n", len(statements))
	return nil
}

func isBlank(id string) bool {
	return strings.HasPrefix(id, "_:")
}

func termID(t triplestore.Term) string {
	if t.Kind == triplestore.TermBlank {
		return "_:" + t.Value
	}
	return t.Value
}
