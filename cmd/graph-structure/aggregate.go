package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/graph-structure/internal/aggregate"
	"github.com/pdiddy/graph-structure/internal/report"
	"github.com/pdiddy/graph-structure/pkg/types"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate REPORT...",
	Short: "Merge node reports into union, intersection, and URI metadata",
	Long: `Aggregate reads report files written by "extract" and merges them. Each
file stands for one participant, named after the file's base name. Reports
are folded in the order given; with --sort they are folded in participant
order instead, which decides whose label wins when nodes disagree.`,
	Example: `  graph-structure aggregate reports/*.json --out merged.yaml`,
	RunE:    runAggregate,
}

func runAggregate(cmd *cobra.Command, args []string) error {
	sortByParticipant, _ := cmd.Flags().GetBool("sort")

	results := make([]types.NodeResult, 0, len(args))
	for _, path := range args {
		r, err := report.Read(path)
		if err != nil {
			return err
		}
		results = append(results, types.NodeResult{ParticipantID: report.ParticipantID(path), Report: r})
	}

	agg := aggregate.Results(results, sortByParticipant)
	fmt.Fprintf(os.Stderr, "reports: %d; union: %d, intersect: %d, uris: %d\n",
		len(results), agg.Union.Len(), agg.Intersect.Len(), len(agg.URIData))
	return output(cmd, agg)
}

func init() {
	aggregateCmd.Flags().Bool("sort", false, "fold reports in participant order")
	addOutputFlags(aggregateCmd)

	rootCmd.AddCommand(aggregateCmd)
}
