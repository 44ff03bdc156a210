// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tabular

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/graph-structure/internal/extract"
	"github.com/pdiddy/graph-structure/pkg/types"
)

const (
	exPerson  = "http://example.org/Person"
	exAddress = "http://example.org/Address"
	exLives   = "http://example.org/livesAt"
	exName    = "http://example.org/name"
	xsdString = "http://www.w3.org/2001/XMLSchema#string"
)

const edgeCSV = `subject_type,predicate,object_type,object_datatype,subject_label,object_label
http://example.org/Person,http://example.org/livesAt,http://example.org/Address,,Person,Address
http://example.org/Person,http://example.org/name,,http://www.w3.org/2001/XMLSchema#string,,
,http://example.org/name,,http://www.w3.org/2001/XMLSchema#string,,
http://example.org/Person,http://www.w3.org/1999/02/22-rdf-syntax-ns#type,http://www.w3.org/2002/07/owl#Class,,,
http://example.org/Person,http://example.org/knows,,,,
`

func wantReport() types.NodeStructureReport {
	r := types.NewNodeStructureReport()
	r.Structure.Add(types.NewTriple(exPerson, exLives, types.Class(exAddress)))
	r.Structure.Add(types.NewTriple(exPerson, exName, types.Literal(xsdString)))
	r.URIData[exPerson] = types.URIRecord{Kind: types.KindClass, Label: "Person"}
	r.URIData[exAddress] = types.URIRecord{Kind: types.KindClass, Label: "Address"}
	r.URIData[xsdString] = types.URIRecord{Kind: types.KindLiteral}
	return r
}

func collect(t *testing.T, src extract.EdgeSource) []extract.Edge {
	t.Helper()
	var edges []extract.Edge
	require.NoError(t, src.Edges(context.Background(), func(e extract.Edge) error {
		edges = append(edges, e)
		return nil
	}))
	return edges
}

// --- CSV ---

func TestCSVSource_Extract(t *testing.T) {
	src := NewCSVReader(strings.NewReader(edgeCSV), types.TabularColumns{})

	report, stats, err := extract.Extract(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, wantReport(), report)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 1, stats.Filtered)
}

func TestCSVSource_ColumnMappingAndOrder(t *testing.T) {
	in := "pred,extra,stype,dtype,otype\n" +
		exName + ",x," + exPerson + "," + xsdString + ",\n"
	cols := types.TabularColumns{
		SubjectType:    "stype",
		Predicate:      "pred",
		ObjectType:     "otype",
		ObjectDatatype: "dtype",
	}

	edges := collect(t, NewCSVReader(strings.NewReader(in), cols))
	require.Len(t, edges, 1)
	assert.Equal(t, extract.Edge{
		SubjectClass: exPerson,
		Predicate:    exName,
		Object:       types.Literal(xsdString),
	}, edges[0])
}

func TestCSVSource_ShortRowsAreMalformedNotFatal(t *testing.T) {
	in := "subject_type,predicate,object_type\n" +
		exPerson + "\n" +
		exPerson + "," + exLives + "," + exAddress + "\n"

	report, stats, err := extract.Extract(context.Background(), NewCSVReader(strings.NewReader(in), types.TabularColumns{}))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Structure.Len())
	assert.Equal(t, 1, stats.Skipped)
}

func TestCSVSource_LabelOnTypeRow(t *testing.T) {
	in := "subject_type,predicate,object_type,object_datatype,subject_label,object_label\n" +
		exPerson + ",http://www.w3.org/1999/02/22-rdf-syntax-ns#type,http://www.w3.org/2002/07/owl#Class,,Person,\n" +
		exPerson + ",http://example.org/knows," + exPerson + ",,,\n"

	report, stats, err := extract.Extract(context.Background(), NewCSVReader(strings.NewReader(in), types.TabularColumns{}))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Filtered)
	assert.Equal(t, types.URIData{
		exPerson: {Kind: types.KindClass, Label: "Person"},
	}, report.URIData)
}

func TestCSVSource_Empty(t *testing.T) {
	report, _, err := extract.Extract(context.Background(), NewCSVReader(strings.NewReader(""), types.TabularColumns{}))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Structure.Len())
}

func TestCSVSource_MissingColumns(t *testing.T) {
	src := NewCSVReader(strings.NewReader("a,b\n1,2\n"), types.TabularColumns{})
	err := src.Edges(context.Background(), func(extract.Edge) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subject_type")
}

func TestCSVFile_ReadsEachTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.csv")
	require.NoError(t, os.WriteFile(path, []byte(edgeCSV), 0o644))

	src := NewCSVFile(path, types.TabularColumns{})
	assert.Len(t, collect(t, src), 5)
	assert.Len(t, collect(t, src), 5)
}

// --- SQLite ---

func TestSQLiteSource_MatchesCSV(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "edges.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE edges (
		subject_type TEXT, predicate TEXT, object_type TEXT,
		object_datatype TEXT, subject_label TEXT, object_label TEXT)`)
	require.NoError(t, err)

	for _, line := range strings.Split(strings.TrimSpace(edgeCSV), "\n")[1:] {
		cells := strings.Split(line, ",")
		args := make([]any, len(cells))
		for i, c := range cells {
			if c == "" {
				args[i] = nil
			} else {
				args[i] = c
			}
		}
		_, err := db.Exec(`INSERT INTO edges VALUES (?, ?, ?, ?, ?, ?)`, args...)
		require.NoError(t, err)
	}

	src := NewSQLiteSource(db, "", types.TabularColumns{})
	report, _, err := extract.Extract(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, wantReport(), report)
	assert.NoError(t, src.Close())
}

func TestSQLiteSource_MissingTable(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	src := NewSQLiteSource(db, "nope", types.TabularColumns{})
	err = src.Edges(context.Background(), func(extract.Edge) error { return nil })
	assert.ErrorContains(t, err, "nope")
}
