// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/graph-structure/internal/graphdb"
	"github.com/pdiddy/graph-structure/internal/triplestore"
	"github.com/pdiddy/graph-structure/pkg/types"
)

var loadCmd = &cobra.Command{
	Use:   "load FILE...",
	Short: "Load N-Triples or Turtle into a node's triple store",
	Long: `Load parses RDF files and stores their statements where a node can
extract from them: a SQLite triple store (--source-kind triplestore) or a
Neo4j/Memgraph database (--source-kind graphdb).

Files ending in .ttl are read as Turtle and everything else as N-Triples,
unless --format says otherwise. Malformed N-Triples lines are reported with
their line number and skipped; a Turtle syntax error stops the load. Use
"-" to read stdin.`,
	Example: `  graph-structure load data.nt --source graph.db
  graph-structure load ontology.ttl --source graph.db
  cat data.ttl | graph-structure load - --format ttl --source graph.db
  graph-structure load data.nt --source-kind graphdb --graphdb-uri bolt://localhost:7687`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	err := bindFlags(cmd, map[string]string{
		"source.kind":             "source-kind",
		"source.path":             "source",
		"source.graphdb.uri":      "graphdb-uri",
		"source.graphdb.user":     "graphdb-user",
		"source.graphdb.database": "graphdb-database",
	})
	if err != nil {
		return err
	}

	formatOf, err := rdfFormat(cmd)
	if err != nil {
		return err
	}

	switch kind := types.SourceKind(viper.GetString("source.kind")); kind {
	case types.SourceTripleStore:
		return loadTripleStore(cmd, viper.GetString("source.path"), args, formatOf)
	case types.SourceGraphDB:
		return loadGraphDB(cmd, graphDBConfig("source.graphdb"), args, formatOf)
	default:
		return fmt.Errorf("cannot load into %q: use triplestore or graphdb", kind)
	}
}

// rdfFormat returns the format to read each input with: --format when set,
// otherwise the file extension.
func rdfFormat(cmd *cobra.Command) (func(path string) triplestore.Format, error) {
	name, _ := cmd.Flags().GetString("format")
	if name == "" {
		return triplestore.FormatOf, nil
	}
	f, err := triplestore.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return func(string) triplestore.Format { return f }, nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, nil
}

func loadTripleStore(cmd *cobra.Command, dbPath string, files []string, formatOf func(string) triplestore.Format) error {
	if dbPath == "" {
		return fmt.Errorf("--source is required: path of the SQLite triple store")
	}
	store, err := triplestore.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var total triplestore.LoadSummary
	for _, path := range files {
		in, err := openInput(path)
		if err != nil {
			return err
		}
		f := formatOf(path)
		fmt.Fprintf(os.Stdout, "Loading %s (%s)\n", path, f)
		summary, err := store.Load(cmd.Context(), in, f, os.Stdout)
		in.Close()
		if err != nil {
			return err
		}
		total.Inserted += summary.Inserted
		total.Duplicates += summary.Duplicates
		total.Malformed += summary.Malformed
	}

	n, err := store.Count(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Loaded %d statements from %d file(s); store holds %d triples\n", total.Total(), len(files), n)
	return nil
}

func loadGraphDB(cmd *cobra.Command, cfg types.GraphDBConfig, files []string, formatOf func(string) triplestore.Format) error {
	ctx := cmd.Context()

	var statements []triplestore.Statement
	malformed := 0
	for _, path := range files {
		in, err := openInput(path)
		if err != nil {
			return err
		}
		err = triplestore.Parse(in, formatOf(path), func(st triplestore.Statement) error {
			statements = append(statements, st)
			return nil
		}, func(e *triplestore.SyntaxError) {
			fmt.Fprintf(os.Stdout, "%s: skipped %v\n", path, e)
			malformed++
		})
		in.Close()
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	fmt.Fprintf(os.Stdout, "parsed: %d, malformed: %d\n", len(statements), malformed)

	d, err := graphdb.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close(ctx)

	return graphdb.NewStore(d).Import(ctx, statements, os.Stdout)
}

func init() {
	loadCmd.Flags().String("source-kind", string(types.SourceTripleStore), "target store: triplestore or graphdb")
	loadCmd.Flags().String("source", "", "SQLite triple store path (triplestore)")
	loadCmd.Flags().String("format", "", "input format: nt or ttl (default from file extension)")
	loadCmd.Flags().String("graphdb-uri", "", "bolt URI of the graph database")
	loadCmd.Flags().String("graphdb-user", "", "graph database user")
	loadCmd.Flags().String("graphdb-database", "", "graph database name")

	rootCmd.AddCommand(loadCmd)
}
