package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/graph-structure/internal/extract"
	"github.com/pdiddy/graph-structure/internal/triplestore"
	"github.com/pdiddy/graph-structure/pkg/types"
)

func TestOpen_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"subject_type,predicate,object_type,object_datatype\n"+
			"http://ex.org/A,http://ex.org/p,http://ex.org/B,\n"), 0o644))

	src, err := Open(context.Background(), types.SourceConfig{Kind: types.SourceCSV, Path: path})
	require.NoError(t, err)
	defer src.Close()

	report, _, err := extract.Extract(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Structure.Len())
}

func TestOpen_TripleStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triples.db")
	st, err := triplestore.Open(path)
	require.NoError(t, err)
	_, err = st.Load(context.Background(), strings.NewReader(
		"<http://ex.org/a> <"+extract.RDFType+"> <http://ex.org/A> .\n"+
			"<http://ex.org/a> <http://ex.org/p> \"x\" .\n"), triplestore.FormatNTriples, &strings.Builder{})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	src, err := Open(context.Background(), types.SourceConfig{Kind: types.SourceTripleStore, Path: path})
	require.NoError(t, err)
	defer src.Close()

	report, _, err := extract.Extract(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, report.Structure.Has(types.NewTriple("http://ex.org/A", "http://ex.org/p", types.Literal(extract.XSDString))))
}

func TestOpen_TripleStoreMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo", "triples.db")

	_, err := Open(context.Background(), types.SourceConfig{Kind: types.SourceTripleStore, Path: path})
	require.Error(t, err)
	assert.NoFileExists(t, path)
	assert.NoDirExists(t, filepath.Dir(path))
}

func TestOpen_TripleStoreNotAStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := Open(context.Background(), types.SourceConfig{Kind: types.SourceTripleStore, Path: path})
	assert.ErrorContains(t, err, "not a triple store")
}

func TestOpen_Errors(t *testing.T) {
	for _, cfg := range []types.SourceConfig{
		{Kind: "spreadsheet"},
		{Kind: types.SourceCSV},
		{Kind: types.SourceEdgesDB},
		{Kind: types.SourceTripleStore},
		{Kind: types.SourceGraphDB},
	} {
		_, err := Open(context.Background(), cfg)
		assert.Error(t, err, cfg.Kind)
	}
}
