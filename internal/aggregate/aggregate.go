// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate merges node structure reports into a union, an N-way
// intersection, and a combined URI metadata dictionary.
package aggregate

import (
	"sort"

	"github.com/pdiddy/graph-structure/pkg/types"
)

// Aggregate merges reports in the given order. It is a pure function and
// accepts any number of reports, including none.
//
// The intersection accumulator starts as the first report's structure and
// is narrowed by every later report; with no reports it is empty. URI
// metadata is folded left to right and a later record replaces an earlier
// one for the same URI in full.
func Aggregate(reports []types.NodeStructureReport) types.AggregateResult {
	result := types.NewAggregateResult()

	for i, r := range reports {
		for t := range r.Structure {
			result.Union.Add(t)
		}

		if i == 0 {
			result.Intersect = r.Structure.Clone()
		} else {
			result.Intersect = result.Intersect.Intersect(r.Structure)
		}

		for uri, rec := range r.URIData {
			result.URIData[uri] = rec
		}
	}

	return result
}

// Results aggregates the reports returned by the task platform. Arrival
// order is kept unless sortByParticipant is set, in which case results are
// folded in participant ID order so last-write-wins metadata does not
// depend on which node answered last.
func Results(results []types.NodeResult, sortByParticipant bool) types.AggregateResult {
	ordered := results
	if sortByParticipant {
		ordered = make([]types.NodeResult, len(results))
		copy(ordered, results)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].ParticipantID < ordered[j].ParticipantID
		})
	}

	reports := make([]types.NodeStructureReport, len(ordered))
	for i, r := range ordered {
		reports[i] = r.Report
	}
	return Aggregate(reports)
}
