package coordinator

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/graph-structure/internal/extract"
	"github.com/pdiddy/graph-structure/internal/node"
	"github.com/pdiddy/graph-structure/internal/platform"
	"github.com/pdiddy/graph-structure/pkg/types"
)

const (
	person  = "http://example.org/Person"
	address = "http://example.org/Address"
	livesAt = "http://example.org/livesAt"
	worksAt = "http://example.org/worksAt"
	org     = "http://example.org/Organization"
)

// fakePlatform completes after a fixed number of polls.
type fakePlatform struct {
	participants []types.Participant
	results      []types.NodeResult
	pollsToDone  int

	dispatched []string
	polls      int
	err        map[string]error
}

func (f *fakePlatform) Participants(ctx context.Context) ([]types.Participant, error) {
	return f.participants, f.err["participants"]
}

func (f *fakePlatform) Dispatch(ctx context.Context, ids []string, req types.TaskRequest) (types.TaskHandle, error) {
	if req.Method != types.MethodGetStructure {
		return types.TaskHandle{}, errors.New("unexpected method")
	}
	f.dispatched = ids
	return types.TaskHandle{ID: "t1"}, f.err["dispatch"]
}

func (f *fakePlatform) Complete(ctx context.Context, h types.TaskHandle) (bool, error) {
	f.polls++
	return f.polls >= f.pollsToDone, f.err["complete"]
}

func (f *fakePlatform) Results(ctx context.Context, h types.TaskHandle) ([]types.NodeResult, error) {
	if f.polls < f.pollsToDone {
		return nil, errors.New("fetched before completion")
	}
	return f.results, f.err["results"]
}

func report(label string, ts ...types.Triple) types.NodeStructureReport {
	r := types.NewNodeStructureReport()
	for _, t := range ts {
		r.Structure.Add(t)
	}
	r.URIData[person] = types.URIRecord{Kind: types.KindClass, Label: label}
	return r
}

var (
	tLives = types.NewTriple(person, livesAt, types.Class(address))
	tWorks = types.NewTriple(person, worksAt, types.Class(org))
)

func TestRun(t *testing.T) {
	f := &fakePlatform{
		participants: []types.Participant{{ID: "b"}, {ID: "a"}},
		results: []types.NodeResult{
			{ParticipantID: "b", Report: report("from b", tLives, tWorks)},
			{ParticipantID: "a", Report: report("from a", tLives)},
		},
		pollsToDone: 3,
	}

	var out bytes.Buffer
	got, err := Run(context.Background(), f, types.CoordinatorConfig{PollInterval: time.Millisecond}, &out)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, f.dispatched)
	assert.Equal(t, 3, f.polls)
	assert.Equal(t, types.NewTripleSet(tLives, tWorks), got.Union)
	assert.Equal(t, types.NewTripleSet(tLives), got.Intersect)
	assert.Equal(t, "from a", got.URIData[person].Label)
	assert.Contains(t, out.String(), "complete after 3 polls")
	assert.Contains(t, out.String(), "union: 2, intersect: 1")
}

func TestRun_SortByParticipant(t *testing.T) {
	f := &fakePlatform{
		participants: []types.Participant{{ID: "a"}, {ID: "b"}},
		results: []types.NodeResult{
			{ParticipantID: "b", Report: report("from b", tLives)},
			{ParticipantID: "a", Report: report("from a", tLives)},
		},
		pollsToDone: 1,
	}

	got, err := Run(context.Background(), f, types.CoordinatorConfig{PollInterval: time.Millisecond, SortByParticipant: true}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "from b", got.URIData[person].Label)
}

func TestRun_RestrictedParticipants(t *testing.T) {
	f := &fakePlatform{
		participants: []types.Participant{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		pollsToDone:  1,
	}

	got, err := Run(context.Background(), f, types.CoordinatorConfig{Participants: []string{"c"}}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, f.dispatched)
	assert.Equal(t, types.NewAggregateResult(), got)
}

func TestRun_PlatformErrors(t *testing.T) {
	for _, step := range []string{"participants", "dispatch", "complete", "results"} {
		t.Run(step, func(t *testing.T) {
			f := &fakePlatform{
				participants: []types.Participant{{ID: "a"}},
				pollsToDone:  1,
				err:          map[string]error{step: errors.New("platform down")},
			}
			_, err := Run(context.Background(), f, types.CoordinatorConfig{PollInterval: time.Millisecond}, io.Discard)
			assert.ErrorContains(t, err, "platform down")
		})
	}
}

func TestRun_ContextCancelledWhilePolling(t *testing.T) {
	f := &fakePlatform{participants: []types.Participant{{ID: "a"}}, pollsToDone: 1 << 30}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := Run(ctx, f, types.CoordinatorConfig{PollInterval: time.Millisecond}, io.Discard)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func source(es ...extract.Edge) extract.EdgeSource {
	return extract.EdgeSourceFunc(func(ctx context.Context, fn func(extract.Edge) error) error {
		for _, e := range es {
			if err := fn(e); err != nil {
				return err
			}
		}
		return nil
	})
}

func TestRun_WithHub(t *testing.T) {
	lives := extract.Edge{SubjectClass: person, Predicate: livesAt, Object: types.Class(address)}
	works := extract.Edge{SubjectClass: person, Predicate: worksAt, Object: types.Class(org)}
	broken := extract.EdgeSourceFunc(func(ctx context.Context, fn func(extract.Edge) error) error {
		return errors.New("database offline")
	})

	hub, err := platform.NewHub([]platform.Member{
		{Participant: types.Participant{ID: "a"}, Runner: node.Local{Source: source(lives, works)}},
		{Participant: types.Participant{ID: "b"}, Runner: node.Local{Source: source(lives)}},
		{Participant: types.Participant{ID: "c"}, Runner: node.Local{Source: broken}},
	}, io.Discard)
	require.NoError(t, err)

	got, err := Run(context.Background(), hub, types.CoordinatorConfig{PollInterval: time.Millisecond}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, types.NewTripleSet(tLives, tWorks), got.Union)
	assert.Equal(t, types.NewTripleSet(tLives), got.Intersect)
	require.NoError(t, got.Validate())
}
