// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package platform is the federated task platform: it knows the
// participants, dispatches a task to their nodes, and hands back each
// node's report once every node has finished. Hub runs the platform in
// process, Server puts it behind a REST API, and HTTPClient talks to that
// API from a coordinator.
package platform

import (
	"context"
	"errors"

	"github.com/pdiddy/graph-structure/pkg/types"
)

var (
	ErrUnknownTask        = errors.New("unknown task")
	ErrUnknownParticipant = errors.New("unknown participant")
	ErrUnauthorized       = errors.New("unauthorized")
)

// Platform is what a coordinator needs from the task platform.
type Platform interface {
	// Participants enumerates the collaboration's members.
	Participants(ctx context.Context) ([]types.Participant, error)

	// Dispatch starts req on the nodes of ids. Empty ids means every
	// participant.
	Dispatch(ctx context.Context, ids []string, req types.TaskRequest) (types.TaskHandle, error)

	// Complete reports whether every dispatched node has finished.
	Complete(ctx context.Context, h types.TaskHandle) (bool, error)

	// Results returns the reports of the nodes that succeeded, in the order
	// they finished.
	Results(ctx context.Context, h types.TaskHandle) ([]types.NodeResult, error)
}

// Runner executes a task request on one participant's node.
type Runner interface {
	Run(ctx context.Context, req types.TaskRequest) (types.NodeStructureReport, error)
}

// Member binds a participant to the runner that reaches its node.
type Member struct {
	Participant types.Participant
	Runner      Runner
}
