// Package graphdb reads a node's RDF graph from a Neo4j or Memgraph
// instance over bolt.
//
// Resources are (:Resource {uri}) nodes, literal values are
// (:Literal {value, datatype, lang}) nodes, and every RDF statement is a
// [:STATEMENT {predicate}] relationship between them.
package graphdb

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/pdiddy/graph-structure/pkg/types"
)

// GraphDriver runs Cypher queries and collects their results eagerly.
type GraphDriver interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error)
	Close(ctx context.Context) error
}

// BoltDriver is a GraphDriver backed by the Neo4j Go driver. It works
// against Neo4j and Memgraph alike.
type BoltDriver struct {
	driver   neo4j.DriverWithContext
	database string
}

// Connect opens a driver and verifies the server is reachable.
func Connect(ctx context.Context, cfg types.GraphDBConfig) (*BoltDriver, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("graphdb uri is required")
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating graph driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("connecting to %s: %w", cfg.URI, err)
	}
	return &BoltDriver{driver: driver, database: cfg.Database}, nil
}

// Close releases the driver.
func (d *BoltDriver) Close(ctx context.Context) error {
	return d.driver.Close(ctx)
}

// ExecuteQuery implements GraphDriver.
func (d *BoltDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	var opts []neo4j.ExecuteQueryConfigurationOption
	if d.database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(d.database))
	}
	result, err := neo4j.ExecuteQuery(ctx, d.driver, query, params, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}
