// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package platform

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/graph-structure/pkg/types"
)

// DefaultRetention is how long a finished task stays queryable.
const DefaultRetention = time.Hour

// Hub is an in-process Platform. Each dispatched task runs one goroutine
// per participant; results accumulate in completion order. Finished tasks
// are dropped once older than the retention period.
type Hub struct {
	order   []string
	members map[string]Member
	w       io.Writer

	mu     sync.Mutex
	tasks  map[string]*task
	retain time.Duration
}

type task struct {
	participants []string
	pending      int
	results      []types.NodeResult
	failed       []string
	done         chan struct{}
	finished     time.Time
}

// Test overrides.
var (
	newTaskID = func() string { return uuid.NewString() }
	now       = time.Now
)

// NewHub returns a hub over members. Participant IDs must be non-empty and
// unique. Progress and node failures are written to w.
func NewHub(members []Member, w io.Writer) (*Hub, error) {
	if w == nil {
		w = io.Discard
	}
	h := &Hub{
		members: make(map[string]Member, len(members)),
		tasks:   make(map[string]*task),
		w:       w,
		retain:  DefaultRetention,
	}
	for _, m := range members {
		id := m.Participant.ID
		if id == "" {
			return nil, fmt.Errorf("participant with empty id")
		}
		if _, ok := h.members[id]; ok {
			return nil, fmt.Errorf("duplicate participant %q", id)
		}
		if m.Runner == nil {
			return nil, fmt.Errorf("participant %q has no runner", id)
		}
		h.members[id] = m
		h.order = append(h.order, id)
	}
	return h, nil
}

// SetRetention changes how long finished tasks are kept. A non-positive d
// restores DefaultRetention.
func (h *Hub) SetRetention(d time.Duration) {
	if d <= 0 {
		d = DefaultRetention
	}
	h.mu.Lock()
	h.retain = d
	h.mu.Unlock()
}

// Participants returns the members in registration order.
func (h *Hub) Participants(ctx context.Context) ([]types.Participant, error) {
	out := make([]types.Participant, 0, len(h.order))
	for _, id := range h.order {
		out = append(out, h.members[id].Participant)
	}
	return out, nil
}

// Dispatch starts req on every named participant. The runs outlive ctx's
// cancellation so a request-scoped context can dispatch long tasks.
func (h *Hub) Dispatch(ctx context.Context, ids []string, req types.TaskRequest) (types.TaskHandle, error) {
	if len(ids) == 0 {
		ids = h.order
	}

	seen := make(map[string]bool, len(ids))
	var targets []string
	for _, id := range ids {
		if _, ok := h.members[id]; !ok {
			return types.TaskHandle{}, fmt.Errorf("%w %q", ErrUnknownParticipant, id)
		}
		if !seen[id] {
			seen[id] = true
			targets = append(targets, id)
		}
	}

	t := &task{
		participants: targets,
		pending:      len(targets),
		done:         make(chan struct{}),
	}
	handle := types.TaskHandle{ID: newTaskID()}

	h.mu.Lock()
	h.prune()
	if len(targets) == 0 {
		t.finished = now()
		close(t.done)
	}
	h.tasks[handle.ID] = t
	h.mu.Unlock()

	fmt.Fprintf(h.w, "task %s: %s dispatched to %d participants\n", handle.ID, req.Method, len(targets))
	if len(targets) == 0 {
		return handle, nil
	}

	runCtx := context.WithoutCancel(ctx)
	for _, id := range targets {
		go h.run(runCtx, handle.ID, t, h.members[id], req)
	}
	return handle, nil
}

func (h *Hub) run(ctx context.Context, taskID string, t *task, m Member, req types.TaskRequest) {
	report, err := m.Runner.Run(ctx, req)

	h.mu.Lock()
	defer h.mu.Unlock()

	id := m.Participant.ID
	if err != nil {
		fmt.Fprintf(h.w, "task %s: participant %s failed: %v\n", taskID, id, err)
		t.failed = append(t.failed, id)
	} else {
		t.results = append(t.results, types.NodeResult{ParticipantID: id, Report: report})
	}
	t.pending--
	if t.pending == 0 {
		fmt.Fprintf(h.w, "task %s: complete (%d succeeded, %d failed)\n", taskID, len(t.results), len(t.failed))
		t.finished = now()
		close(t.done)
	}
}

// prune drops tasks that finished more than the retention period ago.
// Callers hold h.mu.
func (h *Hub) prune() {
	cutoff := now().Add(-h.retain)
	for id, t := range h.tasks {
		if t.pending == 0 && t.finished.Before(cutoff) {
			delete(h.tasks, id)
		}
	}
}

func (h *Hub) lookup(handle types.TaskHandle) (*task, error) {
	t, ok := h.tasks[handle.ID]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownTask, handle.ID)
	}
	return t, nil
}

// Complete reports whether every participant of the task has finished.
func (h *Hub) Complete(ctx context.Context, handle types.TaskHandle) (bool, error) {
	st, err := h.Status(ctx, handle)
	if err != nil {
		return false, err
	}
	return st.Complete, nil
}

// Status describes the task's progress.
func (h *Hub) Status(ctx context.Context, handle types.TaskHandle) (types.TaskStatus, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, err := h.lookup(handle)
	if err != nil {
		return types.TaskStatus{}, err
	}
	return types.TaskStatus{
		ID:           handle.ID,
		Complete:     t.pending == 0,
		Participants: append([]string(nil), t.participants...),
		Failed:       append([]string(nil), t.failed...),
	}, nil
}

// Results returns the reports gathered so far in completion order. Failed
// participants are absent.
func (h *Hub) Results(ctx context.Context, handle types.TaskHandle) ([]types.NodeResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, err := h.lookup(handle)
	if err != nil {
		return nil, err
	}
	return append([]types.NodeResult(nil), t.results...), nil
}

// Wait blocks until the task completes or ctx ends.
func (h *Hub) Wait(ctx context.Context, handle types.TaskHandle) error {
	h.mu.Lock()
	t, err := h.lookup(handle)
	h.mu.Unlock()
	if err != nil {
		return err
	}

	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
