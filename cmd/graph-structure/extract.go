// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/graph-structure/internal/extract"
	"github.com/pdiddy/graph-structure/internal/report"
	"github.com/pdiddy/graph-structure/internal/source"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the class-level structure of a local graph",
	Long: `Extract reads the node's local graph and writes the report a node would
send for get_structure: the set of (subject class, predicate, object class
or datatype) triples and the known labels of the classes involved.

Sources:
  csv          tabular edge list with a header row
  edges-db     the same columns in a SQLite table
  triplestore  SQLite triple store built with "load"
  graphdb      Neo4j or Memgraph over bolt`,
	Example: `  graph-structure extract --source edges.csv --out report.json
  graph-structure extract --source-kind triplestore --source graph.db --format yaml`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := sourceConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	src, err := source.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	r, stats, err := extract.Extract(ctx, src)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "edges: %d seen, %d filtered, %d skipped; relations: %d, uris: %d\n",
		stats.Seen, stats.Filtered, stats.Skipped, r.Structure.Len(), len(r.URIData))

	return output(cmd, r)
}

// output writes v to --out, or to stdout in --format.
func output(cmd *cobra.Command, v any) error {
	out, _ := cmd.Flags().GetString("out")
	if out != "" {
		if err := report.Write(out, v); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
		return nil
	}

	name, _ := cmd.Flags().GetString("format")
	f, err := report.ParseFormat(name)
	if err != nil {
		return err
	}
	return report.Encode(os.Stdout, v, f)
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("out", "", "output file (.json, .yaml); default stdout")
	cmd.Flags().String("format", "json", "stdout format: json or yaml")
}

func init() {
	addSourceFlags(extractCmd.Flags())
	addOutputFlags(extractCmd)

	rootCmd.AddCommand(extractCmd)
}
