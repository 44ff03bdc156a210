// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package node answers task requests on a participating node. The only
// method is get_structure, which runs the structure extractor over the
// node's local graph.
package node

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pdiddy/graph-structure/internal/extract"
	"github.com/pdiddy/graph-structure/pkg/types"
)

// ErrUnknownMethod is returned for a request naming a method the node does
// not implement.
var ErrUnknownMethod = errors.New("unknown method")

// Handle dispatches req against the node's graph. Extraction statistics
// are written to w and never leave the node.
func Handle(ctx context.Context, src extract.EdgeSource, req types.TaskRequest, w io.Writer) (types.NodeStructureReport, error) {
	if req.Method != types.MethodGetStructure {
		return types.NodeStructureReport{}, fmt.Errorf("%w %q", ErrUnknownMethod, req.Method)
	}

	report, stats, err := extract.Extract(ctx, src)
	if err != nil {
		return types.NodeStructureReport{}, err
	}
	fmt.Fprintf(w, "get_structure: %d relations, %d uris (edges seen: %d, filtered: %d, skipped: %d)\n",
		report.Structure.Len(), len(report.URIData), stats.Seen, stats.Filtered, stats.Skipped)
	return report, nil
}

// Local runs requests in-process against a local graph.
type Local struct {
	Source extract.EdgeSource
	Out    io.Writer
}

// Run implements platform.Runner.
func (l Local) Run(ctx context.Context, req types.TaskRequest) (types.NodeStructureReport, error) {
	out := l.Out
	if out == nil {
		out = io.Discard
	}
	return Handle(ctx, l.Source, req, out)
}
