// Package source opens a node's local graph as an extract.EdgeSource from
// configuration.
package source

import (
	"context"
	"fmt"

	"github.com/pdiddy/graph-structure/internal/extract"
	"github.com/pdiddy/graph-structure/internal/graphdb"
	"github.com/pdiddy/graph-structure/internal/tabular"
	"github.com/pdiddy/graph-structure/internal/triplestore"
	"github.com/pdiddy/graph-structure/pkg/types"
)

// Source is an opened local graph. Close releases whatever connection
// backs it.
type Source struct {
	extract.EdgeSource
	close func() error
}

// Close releases the underlying resources.
func (s *Source) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open returns the source described by cfg.
func Open(ctx context.Context, cfg types.SourceConfig) (*Source, error) {
	switch cfg.Kind {
	case types.SourceCSV:
		if cfg.Path == "" {
			return nil, fmt.Errorf("csv source requires a path")
		}
		return &Source{EdgeSource: tabular.NewCSVFile(cfg.Path, cfg.Columns)}, nil

	case types.SourceEdgesDB:
		if cfg.Path == "" {
			return nil, fmt.Errorf("edges-db source requires a path")
		}
		s, err := tabular.OpenSQLite(cfg.Path, cfg.Table, cfg.Columns)
		if err != nil {
			return nil, err
		}
		return &Source{EdgeSource: s, close: s.Close}, nil

	case types.SourceTripleStore:
		if cfg.Path == "" {
			return nil, fmt.Errorf("triplestore source requires a path")
		}
		st, err := triplestore.OpenReadOnly(cfg.Path)
		if err != nil {
			return nil, err
		}
		return &Source{EdgeSource: extract.FromStore(st), close: st.Close}, nil

	case types.SourceGraphDB:
		d, err := graphdb.Connect(ctx, cfg.GraphDB)
		if err != nil {
			return nil, err
		}
		return &Source{
			EdgeSource: extract.FromStore(graphdb.NewStore(d)),
			close:      func() error { return d.Close(context.Background()) },
		}, nil
	}
	return nil, fmt.Errorf("unknown source kind %q: use csv, edges-db, triplestore, or graphdb", cfg.Kind)
}
