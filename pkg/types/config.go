// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that call another
// service (platform client, node client).
type HTTPConfig struct {
	// Timeout is the per-request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with requests
	// (e.g. "graph-structure/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retries on 429/503 responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SourceKind selects how a node reads its private graph.
type SourceKind string

const (
	SourceCSV         SourceKind = "csv"
	SourceEdgesDB     SourceKind = "edges-db"
	SourceTripleStore SourceKind = "triplestore"
	SourceGraphDB     SourceKind = "graphdb"
)

// TabularColumns names the columns of a tabular edge list. Empty label
// columns mean the input carries no labels.
type TabularColumns struct {
	SubjectType    string `json:"subject_type" yaml:"subject_type"`
	Predicate      string `json:"predicate" yaml:"predicate"`
	ObjectType     string `json:"object_type" yaml:"object_type"`
	ObjectDatatype string `json:"object_datatype" yaml:"object_datatype"`
	SubjectLabel   string `json:"subject_label,omitempty" yaml:"subject_label,omitempty"`
	ObjectLabel    string `json:"object_label,omitempty" yaml:"object_label,omitempty"`
}

// DefaultTabularColumns returns the column names used when none are
// configured.
func DefaultTabularColumns() TabularColumns {
	return TabularColumns{
		SubjectType:    "subject_type",
		Predicate:      "predicate",
		ObjectType:     "object_type",
		ObjectDatatype: "object_datatype",
		SubjectLabel:   "subject_label",
		ObjectLabel:    "object_label",
	}
}

// WithDefaults fills unset required columns from DefaultTabularColumns.
// Label columns are left as given.
func (c TabularColumns) WithDefaults() TabularColumns {
	d := DefaultTabularColumns()
	if c.SubjectType == "" {
		c.SubjectType = d.SubjectType
	}
	if c.Predicate == "" {
		c.Predicate = d.Predicate
	}
	if c.ObjectType == "" {
		c.ObjectType = d.ObjectType
	}
	if c.ObjectDatatype == "" {
		c.ObjectDatatype = d.ObjectDatatype
	}
	return c
}

// GraphDBConfig holds the bolt connection settings for a Neo4j or
// Memgraph instance holding the node's graph.
type GraphDBConfig struct {
	URI      string `json:"uri" yaml:"uri"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	Database string `json:"database,omitempty" yaml:"database,omitempty"`
}

// SourceConfig selects and configures a node's local graph.
type SourceConfig struct {
	// Kind is one of csv, edges-db, triplestore, graphdb.
	Kind SourceKind `json:"kind" yaml:"kind"`

	// Path is the CSV file (csv) or SQLite database (edges-db, triplestore).
	Path string `json:"path" yaml:"path"`

	// Table is the edge table for edges-db (default "edges").
	Table string `json:"table,omitempty" yaml:"table,omitempty"`

	// Columns maps tabular columns for csv and edges-db.
	Columns TabularColumns `json:"columns" yaml:"columns"`

	// GraphDB configures the graphdb source.
	GraphDB GraphDBConfig `json:"graphdb" yaml:"graphdb"`
}

// NodeConfig holds settings for serving the node RPC.
type NodeConfig struct {
	// Listen is the HTTP listen address (default ":8081").
	Listen string `json:"listen" yaml:"listen"`

	Source SourceConfig `json:"source" yaml:"source"`
}

// PlatformConfig holds settings for talking to the task platform.
type PlatformConfig struct {
	HTTPConfig `yaml:",inline"`

	// URL is the platform base URL (e.g. "http://localhost:8080").
	URL string `json:"url" yaml:"url"`

	// APIKey is sent as a bearer token when set.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// HubConfig holds settings for the self-hosted task platform.
type HubConfig struct {
	HTTPConfig `yaml:",inline"`

	// Listen is the HTTP listen address (default ":8080").
	Listen string `json:"listen" yaml:"listen"`

	// ParticipantsFile is the TOML participant registry.
	ParticipantsFile string `json:"participants_file" yaml:"participants_file"`

	// APIKey, when set, is required as a bearer token on every API call.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// CoordinatorConfig holds settings for one coordination run.
type CoordinatorConfig struct {
	// PollInterval is the delay between completion checks (default 1s).
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`

	// SortByParticipant folds reports in participant ID order instead of
	// arrival order, making last-write-wins metadata deterministic.
	SortByParticipant bool `json:"sort_by_participant" yaml:"sort_by_participant"`

	// Participants restricts the task to these IDs. Empty means everyone.
	Participants []string `json:"participants,omitempty" yaml:"participants,omitempty"`
}
