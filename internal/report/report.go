// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report reads and writes structure reports and aggregate results
// as JSON or YAML files. The format follows the file extension.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/graph-structure/pkg/types"
)

// Format is a report file encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatOf picks the format from path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unsupported report file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
}

// ParseFormat accepts a format name as given on the command line.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want json or yaml)", name)
}

// Encode writes v to w in the given format. Triple sets are written in
// sorted order so equal values produce equal output.
func Encode(w io.Writer, v any, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	return fmt.Errorf("unknown format %q", f)
}

func decode(r io.Reader, v any, f Format) error {
	switch f {
	case JSON:
		return json.NewDecoder(r).Decode(v)
	case YAML:
		return yaml.NewDecoder(r).Decode(v)
	}
	return fmt.Errorf("unknown format %q", f)
}

// Write encodes v into path, creating parent directories as needed.
func Write(path string, v any) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Encode(out, v, f); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return out.Close()
}

func readFile(path string, v any) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	defer in.Close()

	if err := decode(in, v, f); err != nil && err != io.EOF {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Read loads a node structure report and validates it. An empty file is
// an empty report.
func Read(path string) (types.NodeStructureReport, error) {
	var r types.NodeStructureReport
	if err := readFile(path, &r); err != nil {
		return types.NodeStructureReport{}, err
	}
	if err := r.Validate(); err != nil {
		return types.NodeStructureReport{}, fmt.Errorf("invalid report %s: %w", path, err)
	}
	if r.Structure == nil {
		r.Structure = types.TripleSet{}
	}
	if r.URIData == nil {
		r.URIData = types.URIData{}
	}
	return r, nil
}

// ReadResult loads an aggregate result and validates it.
func ReadResult(path string) (types.AggregateResult, error) {
	var r types.AggregateResult
	if err := readFile(path, &r); err != nil {
		return types.AggregateResult{}, err
	}
	if err := r.Validate(); err != nil {
		return types.AggregateResult{}, fmt.Errorf("invalid result %s: %w", path, err)
	}
	empty := types.NewAggregateResult()
	if r.Union == nil {
		r.Union = empty.Union
	}
	if r.Intersect == nil {
		r.Intersect = empty.Intersect
	}
	if r.URIData == nil {
		r.URIData = empty.URIData
	}
	return r, nil
}

// ParticipantID names the participant behind a report file: its base name
// without extension.
func ParticipantID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
