//go:build mage

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/magefile/mage/mg"

	"github.com/pdiddy/graph-structure/internal/container"
)

// GraphDB manages a local Neo4j for the graphdb source.
type GraphDB mg.Namespace

const neo4jContainer = "graph-structure-neo4j"

// neo4jPassword reads .secrets/graphdb-password, falling back to a dev default.
func neo4jPassword() string {
	if data, err := os.ReadFile(".secrets/graphdb-password"); err == nil {
		if pw := strings.TrimSpace(string(data)); pw != "" {
			return pw
		}
	}
	return "graph-structure"
}

// Start runs Neo4j with bolt on localhost:7687.
func (GraphDB) Start() error {
	rt, err := container.DetectRuntime()
	if err != nil {
		return err
	}
	if rt.Running(neo4jContainer) {
		fmt.Printf("%s already running (%s)\n", neo4jContainer, rt.Name())
		return nil
	}
	if err := rt.Start(container.Neo4j(neo4jContainer, neo4jPassword(), 7687)); err != nil {
		return err
	}
	fmt.Printf("Started %s with %s; bolt://localhost:7687 user neo4j\n", neo4jContainer, rt.Name())
	return nil
}

// Stop stops the local Neo4j.
func (GraphDB) Stop() error {
	rt, err := container.DetectRuntime()
	if err != nil {
		return err
	}
	if err := rt.Stop(neo4jContainer); err != nil {
		return err
	}
	fmt.Printf("Stopped %s\n", neo4jContainer)
	return nil
}
