package extract

import (
	"context"
	"fmt"

	"github.com/pdiddy/graph-structure/pkg/types"
)

// Relation is one (predicate, target) pair reachable from instances of a
// class.
type Relation struct {
	Predicate string
	Object    types.Target
}

// PatternStore is a triple store that answers the three pattern queries
// the extractor needs.
type PatternStore interface {
	// Classes returns the distinct objects of rdf:type statements.
	Classes(ctx context.Context) ([]string, error)

	// Relations returns, for instances of class, every predicate used and
	// the class of the resource (or datatype of the literal) it reaches.
	Relations(ctx context.Context, class string) ([]Relation, error)

	// Label returns the rdfs:label of a class resource, or "" if none.
	Label(ctx context.Context, uri string) (string, error)
}

// FromStore walks a PatternStore as an EdgeSource: discover classes, drop
// the reserved ones before querying them, then emit one edge per relation
// with the class labels attached.
func FromStore(store PatternStore) EdgeSource {
	return EdgeSourceFunc(func(ctx context.Context, fn func(Edge) error) error {
		classes, err := store.Classes(ctx)
		if err != nil {
			return fmt.Errorf("discovering classes: %w", err)
		}

		labels := make(map[string]string)
		label := func(uri string) (string, error) {
			if l, ok := labels[uri]; ok {
				return l, nil
			}
			l, err := store.Label(ctx, uri)
			if err != nil {
				return "", fmt.Errorf("reading label of %s: %w", uri, err)
			}
			labels[uri] = l
			return l, nil
		}

		for _, class := range classes {
			if IsReserved(class) {
				continue
			}
			rels, err := store.Relations(ctx, class)
			if err != nil {
				return fmt.Errorf("reading relations of %s: %w", class, err)
			}
			if len(rels) == 0 {
				continue
			}
			subjectLabel, err := label(class)
			if err != nil {
				return err
			}
			for _, rel := range rels {
				e := Edge{
					SubjectClass: class,
					SubjectLabel: subjectLabel,
					Predicate:    rel.Predicate,
					Object:       rel.Object,
				}
				if rel.Object.Kind == types.KindClass && !IsReserved(rel.Object.URI) {
					if e.ObjectLabel, err = label(rel.Object.URI); err != nil {
						return err
					}
				}
				if err := fn(e); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
