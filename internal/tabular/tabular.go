// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tabular reads pre-extracted edge lists: one row per
// (subject type, predicate, object type or datatype) with optional labels.
package tabular

import (
	"github.com/pdiddy/graph-structure/internal/extract"
	"github.com/pdiddy/graph-structure/pkg/types"
)

// row holds the projected columns of one input row.
type row struct {
	subjectType    string
	predicate      string
	objectType     string
	objectDatatype string
	subjectLabel   string
	objectLabel    string
}

// edge converts a row to an extractor edge. A filled object type column
// makes a class target; otherwise the datatype column makes a literal
// target. Rows with neither produce an edge the extractor skips as
// malformed.
func (r row) edge() extract.Edge {
	e := extract.Edge{
		SubjectClass: r.subjectType,
		SubjectLabel: r.subjectLabel,
		Predicate:    r.predicate,
	}
	switch {
	case r.objectType != "":
		e.Object = types.Class(r.objectType)
		e.ObjectLabel = r.objectLabel
	case r.objectDatatype != "":
		e.Object = types.Literal(r.objectDatatype)
	}
	return e
}
