// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the graph-structure CLI.
//
// Nodes run "node serve" next to their private graph. A hub ("hub serve")
// dispatches tasks to the nodes and a coordinator ("coordinate") merges
// the class-level structure they report. "extract" and "aggregate" run
// the same steps offline over files.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/graph-structure/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

var rootCmd = &cobra.Command{
	Use:   "graph-structure",
	Short: "Federated discovery of RDF class structure",
	Long: `graph-structure discovers the class-level structure of RDF graphs held
privately by several organisations. Each node reports only which classes
link to which classes or datatypes through which predicates; instances and
literal values never leave the node. A coordinator merges the reports into
the union of all relations, the relations shared by every node, and a
dictionary of class labels.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", s.Keys())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./graph-structure.yaml or ~/.config/graph-structure/graph-structure.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets", "directory of credential files")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("graph-structure")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "graph-structure"))
		}
	}

	viper.SetEnvPrefix("GRAPH_STRUCTURE")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not read .env: %v", err)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
