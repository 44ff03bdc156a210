// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MethodGetStructure is the only method a node answers: run the structure
// extractor over the node's local graph.
const MethodGetStructure = "get_structure"

// TaskRequest is the input handed to every node of a task.
type TaskRequest struct {
	Method string `json:"method" yaml:"method"`
}

// Participant is one member of the collaboration.
type Participant struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// TaskHandle identifies a dispatched task on the platform.
type TaskHandle struct {
	ID string `json:"id" yaml:"id"`
}

// NodeResult is one participant's report as returned by the platform.
type NodeResult struct {
	ParticipantID string              `json:"participant_id" yaml:"participant_id"`
	Report        NodeStructureReport `json:"report" yaml:"report"`
}

// TaskStatus describes a task's progress on the platform.
type TaskStatus struct {
	ID           string   `json:"id" yaml:"id"`
	Complete     bool     `json:"complete" yaml:"complete"`
	Participants []string `json:"participants" yaml:"participants"`

	// Failed lists participants whose run ended with an error. They are
	// absent from the task's results.
	Failed []string `json:"failed,omitempty" yaml:"failed,omitempty"`
}
