package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/graph-structure/internal/secrets"
	"github.com/pdiddy/graph-structure/pkg/types"
)

const (
	defaultTimeout = 30 * time.Second
	// Hub calls wait on a node's whole extraction.
	defaultNodeTimeout = 10 * time.Minute
)

// source.graphdb.uri -> GRAPH_STRUCTURE_SOURCE_GRAPHDB_URI
var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// bindFlags binds config keys to the running command's flags. Call it from
// RunE only: commands share keys and viper keeps one flag per key.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, flag := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			return fmt.Errorf("binding %s: no flag --%s", key, flag)
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

// addSourceFlags registers the flags selecting a node's local graph.
func addSourceFlags(fs *pflag.FlagSet) {
	d := types.DefaultTabularColumns()
	fs.String("source-kind", string(types.SourceCSV), "local graph kind: csv, edges-db, triplestore, graphdb")
	fs.String("source", "", "CSV file (csv) or SQLite database (edges-db, triplestore)")
	fs.String("table", "", "edge table for edges-db (default \"edges\")")
	fs.String("col-subject-type", d.SubjectType, "column holding the subject class")
	fs.String("col-predicate", d.Predicate, "column holding the predicate")
	fs.String("col-object-type", d.ObjectType, "column holding the object class")
	fs.String("col-object-datatype", d.ObjectDatatype, "column holding the literal datatype")
	fs.String("col-subject-label", d.SubjectLabel, "column holding the subject class label")
	fs.String("col-object-label", d.ObjectLabel, "column holding the object class label")
	fs.String("graphdb-uri", "", "bolt URI of the graph database (e.g. bolt://localhost:7687)")
	fs.String("graphdb-user", "", "graph database user")
	fs.String("graphdb-database", "", "graph database name")
}

var sourceKeys = map[string]string{
	"source.kind":                    "source-kind",
	"source.path":                    "source",
	"source.table":                   "table",
	"source.columns.subject_type":    "col-subject-type",
	"source.columns.predicate":       "col-predicate",
	"source.columns.object_type":     "col-object-type",
	"source.columns.object_datatype": "col-object-datatype",
	"source.columns.subject_label":   "col-subject-label",
	"source.columns.object_label":    "col-object-label",
	"source.graphdb.uri":             "graphdb-uri",
	"source.graphdb.user":            "graphdb-user",
	"source.graphdb.database":        "graphdb-database",
}

func sourceConfig(cmd *cobra.Command) (types.SourceConfig, error) {
	if err := bindFlags(cmd, sourceKeys); err != nil {
		return types.SourceConfig{}, err
	}
	return types.SourceConfig{
		Kind:  types.SourceKind(viper.GetString("source.kind")),
		Path:  viper.GetString("source.path"),
		Table: viper.GetString("source.table"),
		Columns: types.TabularColumns{
			SubjectType:    viper.GetString("source.columns.subject_type"),
			Predicate:      viper.GetString("source.columns.predicate"),
			ObjectType:     viper.GetString("source.columns.object_type"),
			ObjectDatatype: viper.GetString("source.columns.object_datatype"),
			SubjectLabel:   viper.GetString("source.columns.subject_label"),
			ObjectLabel:    viper.GetString("source.columns.object_label"),
		},
		GraphDB: graphDBConfig("source.graphdb"),
	}, nil
}

func graphDBConfig(prefix string) types.GraphDBConfig {
	return types.GraphDBConfig{
		URI:      viper.GetString(prefix + ".uri"),
		User:     viper.GetString(prefix + ".user"),
		Password: loadedSecrets.Or(viper.GetString(prefix+".password"), secrets.GraphDBPassword),
		Database: viper.GetString(prefix + ".database"),
	}
}

// addHTTPFlags registers the outbound HTTP settings. timeout is the
// default applied when neither the flag nor config sets one.
func addHTTPFlags(fs *pflag.FlagSet, timeout time.Duration) {
	fs.Duration("timeout", 0, fmt.Sprintf("per-request timeout (default %s)", timeout))
	fs.Int("max-retries", 0, "retries on 429/503 responses (default 5)")
}

func httpConfig(cmd *cobra.Command, prefix string, timeout time.Duration) (types.HTTPConfig, error) {
	err := bindFlags(cmd, map[string]string{
		prefix + ".timeout":     "timeout",
		prefix + ".max_retries": "max-retries",
	})
	if err != nil {
		return types.HTTPConfig{}, err
	}

	cfg := types.HTTPConfig{
		Timeout:    viper.GetDuration(prefix + ".timeout"),
		UserAgent:  viper.GetString(prefix + ".user_agent"),
		MaxRetries: viper.GetInt(prefix + ".max_retries"),
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "graph-structure/" + version
	}
	return cfg, nil
}
