// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns a node's private graph into a NodeStructureReport
// holding only class- and datatype-level relations.
//
// Every input shape (tabular edge lists, triple stores) is read through
// EdgeSource, so filtering and metadata harvesting are written once.
package extract

import (
	"context"
	"fmt"

	"github.com/pdiddy/graph-structure/pkg/types"
)

// Edge is one class-level relation observed in the local graph: instances
// of SubjectClass reach, through Predicate, a resource of class Object.URI
// or a literal of datatype Object.URI. Labels are optional.
type Edge struct {
	SubjectClass string
	SubjectLabel string
	Predicate    string
	Object       types.Target
	ObjectLabel  string
}

// EdgeSource yields the typed edges of a local graph. Implementations call
// fn once per edge and stop at the first error fn returns.
type EdgeSource interface {
	Edges(ctx context.Context, fn func(Edge) error) error
}

// EdgeSourceFunc adapts a function to EdgeSource.
type EdgeSourceFunc func(ctx context.Context, fn func(Edge) error) error

// Edges calls f.
func (f EdgeSourceFunc) Edges(ctx context.Context, fn func(Edge) error) error {
	return f(ctx, fn)
}

// Stats counts what happened to the edges of one extraction. It stays on
// the node and is never part of the report.
type Stats struct {
	Seen     int
	Emitted  int
	Filtered int
	Skipped  int
}

func (e Edge) malformed() bool {
	return e.SubjectClass == "" || e.Predicate == "" || e.Object.URI == "" || !e.Object.Kind.Valid()
}

func (e Edge) reserved() bool {
	return IsReserved(e.SubjectClass) || IsReserved(e.Predicate) || IsReserved(e.Object.URI)
}

// Extract reads every edge of src and builds the node's report. Malformed
// edges are skipped, edges touching a reserved vocabulary are dropped, and
// an empty source yields an empty report. Only source failures and context
// cancellation are returned as errors.
//
// Labels are harvested from every well-formed edge, dropped ones included,
// but only attached to URIs that some kept edge mentions.
func Extract(ctx context.Context, src EdgeSource) (types.NodeStructureReport, Stats, error) {
	report := types.NewNodeStructureReport()
	labels := make(map[string]string)
	var stats Stats

	err := src.Edges(ctx, func(e Edge) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Seen++
		if e.malformed() {
			stats.Skipped++
			return nil
		}
		harvest(labels, e.SubjectClass, e.SubjectLabel)
		harvest(labels, e.Object.URI, e.ObjectLabel)
		if e.reserved() {
			stats.Filtered++
			return nil
		}

		t := types.NewTriple(e.SubjectClass, e.Predicate, e.Object)
		if !report.Structure.Has(t) {
			report.Structure.Add(t)
			stats.Emitted++
		}
		observe(report.URIData, e.SubjectClass, types.KindClass)
		observe(report.URIData, e.Object.URI, e.Object.Kind)
		return nil
	})
	if err != nil {
		return types.NodeStructureReport{}, stats, fmt.Errorf("reading local graph: %w", err)
	}

	for uri, rec := range report.URIData {
		if l, ok := labels[uri]; ok {
			rec.Label = l
			report.URIData[uri] = rec
		}
	}
	return report, stats, nil
}

// observe records the latest kind for uri.
func observe(d types.URIData, uri string, kind types.URIKind) {
	rec := d[uri]
	rec.Kind = kind
	d[uri] = rec
}

// harvest keeps the most recent non-empty label of a non-reserved uri.
func harvest(labels map[string]string, uri, label string) {
	if label != "" && !IsReserved(uri) {
		labels[uri] = label
	}
}
