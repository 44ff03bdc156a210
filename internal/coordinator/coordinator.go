// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package coordinator drives one federated structure discovery: it asks
// every participant's node for its report through the task platform,
// waits for all of them, and merges the reports.
package coordinator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/graph-structure/internal/aggregate"
	"github.com/pdiddy/graph-structure/internal/platform"
	"github.com/pdiddy/graph-structure/pkg/types"
)

// DefaultPollInterval is used when the config leaves PollInterval unset.
const DefaultPollInterval = time.Second

// Run enumerates the participants, dispatches get_structure to them, polls
// until the platform reports the task complete, then fetches and merges
// the reports. Only ctx bounds the wait.
func Run(ctx context.Context, p platform.Platform, cfg types.CoordinatorConfig, w io.Writer) (types.AggregateResult, error) {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	participants, err := p.Participants(ctx)
	if err != nil {
		return types.AggregateResult{}, fmt.Errorf("enumerating participants: %w", err)
	}
	ids := cfg.Participants
	if len(ids) == 0 {
		for _, pt := range participants {
			ids = append(ids, pt.ID)
		}
	}
	fmt.Fprintf(w, "participants: %d (dispatching to %d)\n", len(participants), len(ids))

	handle, err := p.Dispatch(ctx, ids, types.TaskRequest{Method: types.MethodGetStructure})
	if err != nil {
		return types.AggregateResult{}, fmt.Errorf("dispatching %s: %w", types.MethodGetStructure, err)
	}
	fmt.Fprintf(w, "task %s dispatched\n", handle.ID)

	if err := waitComplete(ctx, p, handle, interval, w); err != nil {
		return types.AggregateResult{}, err
	}

	results, err := p.Results(ctx, handle)
	if err != nil {
		return types.AggregateResult{}, fmt.Errorf("fetching results of task %s: %w", handle.ID, err)
	}
	fmt.Fprintf(w, "reports received: %d of %d\n", len(results), len(ids))

	agg := aggregate.Results(results, cfg.SortByParticipant)
	fmt.Fprintf(w, "union: %d, intersect: %d, uris: %d\n", agg.Union.Len(), agg.Intersect.Len(), len(agg.URIData))
	return agg, nil
}

func waitComplete(ctx context.Context, p platform.Platform, h types.TaskHandle, interval time.Duration, w io.Writer) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for polls := 1; ; polls++ {
		done, err := p.Complete(ctx, h)
		if err != nil {
			return fmt.Errorf("polling task %s: %w", h.ID, err)
		}
		if done {
			fmt.Fprintf(w, "task %s complete after %d polls\n", h.ID, polls)
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for task %s: %w", h.ID, ctx.Err())
		case <-ticker.C:
		}
	}
}
