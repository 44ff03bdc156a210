// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container starts and stops the local graph database used for
// development and integration runs of the graphdb source. Docker is
// preferred; Podman is the fallback.
package container

import (
	"fmt"
	"os/exec"
	"sort"
)

const (
	binDocker = "docker"
	binPodman = "podman"
)

// Spec describes a detached container.
type Spec struct {
	Name  string
	Image string
	// Ports are host:container mappings, e.g. "7687:7687".
	Ports []string
	Env   map[string]string
}

func (s Spec) runArgs() []string {
	args := []string{"run", "-d", "--rm", "--name", s.Name}
	for _, p := range s.Ports {
		args = append(args, "-p", p)
	}
	keys := make([]string, 0, len(s.Env))
	for k := range s.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-e", k+"="+s.Env[k])
	}
	return append(args, s.Image)
}

// Runtime provides the container operations the dev tooling needs.
type Runtime interface {
	// Name returns the runtime name ("docker" or "podman").
	Name() string

	// Available reports whether the runtime binary exists on PATH and
	// responds to an info command.
	Available() bool

	// Running reports whether a container with the given name is up.
	Running(name string) bool

	// Start runs spec detached.
	Start(spec Spec) error

	// Stop stops the named container.
	Stop(name string) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
}

type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// runtime implements Runtime for one container binary. Docker and Podman
// accept the same run/stop/inspect arguments.
type runtime struct {
	bin  string
	exec executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available() bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(r.bin, "info") == nil
}

func (r *runtime) Running(name string) bool {
	return r.exec.RunSilent(r.bin, "container", "inspect", name) == nil
}

func (r *runtime) Start(spec Spec) error {
	if spec.Name == "" || spec.Image == "" {
		return fmt.Errorf("container spec needs a name and an image")
	}
	if err := r.exec.RunSilent(r.bin, spec.runArgs()...); err != nil {
		return fmt.Errorf("starting %s container %s (%s): %w", r.bin, spec.Name, spec.Image, err)
	}
	return nil
}

func (r *runtime) Stop(name string) error {
	if err := r.exec.RunSilent(r.bin, "stop", name); err != nil {
		return fmt.Errorf("stopping %s container %s: %w", r.bin, name, err)
	}
	return nil
}

var defaultExec = &osExecutor{}

// DetectRuntime tries docker first, falls back to podman. Returns an error
// if neither runtime is available.
func DetectRuntime() (Runtime, error) {
	return detectRuntime(defaultExec)
}

func detectRuntime(exec executor) (Runtime, error) {
	for _, bin := range []string{binDocker, binPodman} {
		rt := &runtime{bin: bin, exec: exec}
		if rt.Available() {
			return rt, nil
		}
	}
	return nil, fmt.Errorf(
		"no container runtime available: neither %s nor %s found or operational",
		binDocker, binPodman,
	)
}

// Neo4j returns the spec of a single-node Neo4j server listening for bolt
// on boltPort.
func Neo4j(name, password string, boltPort int) Spec {
	return Spec{
		Name:  name,
		Image: "neo4j:5",
		Ports: []string{fmt.Sprintf("%d:7687", boltPort), "7474:7474"},
		Env:   map[string]string{"NEO4J_AUTH": "neo4j/" + password},
	}
}
