package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/graph-structure/pkg/types"
)

const (
	person  = "http://example.org/Person"
	address = "http://example.org/Address"
	livesAt = "http://example.org/livesAt"
	name    = "http://example.org/name"
	xsdStr  = "http://www.w3.org/2001/XMLSchema#string"
)

func sample() types.NodeStructureReport {
	return types.NodeStructureReport{
		Structure: types.NewTripleSet(
			types.NewTriple(person, name, types.Literal(xsdStr)),
			types.NewTriple(person, livesAt, types.Class(address)),
		),
		URIData: types.URIData{
			person:  {Kind: types.KindClass, Label: "Person"},
			address: {Kind: types.KindClass},
			xsdStr:  {Kind: types.KindLiteral},
		},
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out/report.json", JSON, false},
		{"report.YAML", YAML, false},
		{"report.yml", YAML, false},
		{"report.txt", "", true},
		{"report", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatOf(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteRead(t *testing.T) {
	for _, ext := range []string{".json", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "node-a"+ext)
			require.NoError(t, Write(path, sample()))

			got, err := Read(path)
			require.NoError(t, err)
			assert.Equal(t, sample(), got)
		})
	}
}

func TestEncode_Deterministic(t *testing.T) {
	for _, f := range []Format{JSON, YAML} {
		var a, b bytes.Buffer
		require.NoError(t, Encode(&a, sample(), f))
		require.NoError(t, Encode(&b, sample(), f))
		assert.Equal(t, a.String(), b.String())
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sample(), JSON))
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(livesAt)), bytes.Index(buf.Bytes(), []byte(name)))
}

func TestRead_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, types.NewNodeStructureReport(), got)
}

func TestRead_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"structure":[{"subject":"http://x/A","predicate":"http://x/p","object":{"kind":"thing","uri":"http://x/B"}}]}`), 0o644))

	_, err := Read(path)
	assert.ErrorContains(t, err, `unknown kind "thing"`)

	path = filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))
	_, err = Read(path)
	assert.ErrorContains(t, err, "parsing")
}

func TestReadResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	want := types.AggregateResult{
		Union:     sample().Structure,
		Intersect: types.NewTripleSet(types.NewTriple(person, livesAt, types.Class(address))),
		URIData:   sample().URIData,
	}
	require.NoError(t, Write(path, want))

	got, err := ReadResult(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	bad := want
	bad.Union = types.NewTripleSet()
	require.NoError(t, Write(path, bad))
	_, err = ReadResult(path)
	assert.ErrorContains(t, err, "not a subset")
}

func TestParticipantID(t *testing.T) {
	assert.Equal(t, "hospital-a", ParticipantID("/tmp/reports/hospital-a.json"))
	assert.Equal(t, "b.v2", ParticipantID("b.v2.yaml"))
}
