package graphdb

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/graph-structure/internal/extract"
	"github.com/pdiddy/graph-structure/internal/triplestore"
	"github.com/pdiddy/graph-structure/pkg/types"
)

type executedQuery struct {
	Query  string
	Params map[string]any
}

type MockDriver struct {
	Results  map[string]func(params map[string]any) neo4j.EagerResult
	Executed []executedQuery
	Err      error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	m.Executed = append(m.Executed, executedQuery{Query: query, Params: params})
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	if fn, ok := m.Results[query]; ok {
		return fn(params), nil
	}
	return neo4j.EagerResult{}, nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

func records(keys []string, rows ...[]any) neo4j.EagerResult {
	res := neo4j.EagerResult{Keys: keys}
	for _, r := range rows {
		res.Records = append(res.Records, &neo4j.Record{Keys: keys, Values: r})
	}
	return res
}

const (
	exPerson  = "http://example.org/Person"
	exAddress = "http://example.org/Address"
	exLives   = "http://example.org/livesAt"
	exName    = "http://example.org/name"
)

func personGraph() *MockDriver {
	return &MockDriver{Results: map[string]func(map[string]any) neo4j.EagerResult{
		ClassesQuery: func(map[string]any) neo4j.EagerResult {
			return records([]string{"class"},
				[]any{exAddress}, []any{exPerson}, []any{"_:anon"}, []any{extract.NamespaceOWL + "Class"})
		},
		RelationsQuery: func(p map[string]any) neo4j.EagerResult {
			if p["class"] != exPerson {
				return neo4j.EagerResult{}
			}
			keys := []string{"predicate", "target", "kind"}
			return records(keys,
				[]any{exLives, exAddress, "class"},
				[]any{exName, extract.XSDString, "literal"},
				[]any{"http://example.org/knows", "_:b0", "class"},
			)
		},
		LabelQuery: func(p map[string]any) neo4j.EagerResult {
			if p["uri"] == exPerson {
				return records([]string{"label"}, []any{"Person"})
			}
			return neo4j.EagerResult{}
		},
	}}
}

func TestStore_Extract(t *testing.T) {
	d := personGraph()
	report, _, err := extract.Extract(context.Background(), extract.FromStore(NewStore(d)))
	require.NoError(t, err)

	assert.Equal(t, types.NewTripleSet(
		types.NewTriple(exPerson, exLives, types.Class(exAddress)),
		types.NewTriple(exPerson, exName, types.Literal(extract.XSDString)),
	), report.Structure)
	assert.Equal(t, types.URIRecord{Kind: types.KindClass, Label: "Person"}, report.URIData[exPerson])
	assert.Equal(t, types.URIRecord{Kind: types.KindClass}, report.URIData[exAddress])

	for _, q := range d.Executed {
		if q.Query == RelationsQuery {
			assert.NotEqual(t, "_:anon", q.Params["class"])
			assert.NotEqual(t, extract.NamespaceOWL+"Class", q.Params["class"])
		}
	}
}

func TestStore_QueryError(t *testing.T) {
	d := &MockDriver{Err: errors.New("bolt: connection reset")}
	_, _, err := extract.Extract(context.Background(), extract.FromStore(NewStore(d)))
	assert.ErrorContains(t, err, "connection reset")
}

func TestStore_UnexpectedColumnType(t *testing.T) {
	d := &MockDriver{Results: map[string]func(map[string]any) neo4j.EagerResult{
		ClassesQuery: func(map[string]any) neo4j.EagerResult {
			return records([]string{"class"}, []any{int64(7)})
		},
	}}
	_, err := NewStore(d).Classes(context.Background())
	assert.ErrorContains(t, err, "not string")
}

func TestStore_Import(t *testing.T) {
	d := &MockDriver{}
	statements := []triplestore.Statement{
		{
			Subject:   triplestore.Term{Kind: triplestore.TermIRI, Value: "http://example.org/alice"},
			Predicate: triplestore.Term{Kind: triplestore.TermIRI, Value: extract.RDFType},
			Object:    triplestore.Term{Kind: triplestore.TermIRI, Value: exPerson},
		},
		{
			Subject:   triplestore.Term{Kind: triplestore.TermBlank, Value: "b1"},
			Predicate: triplestore.Term{Kind: triplestore.TermIRI, Value: exName},
			Object:    triplestore.Term{Kind: triplestore.TermLiteral, Value: "Alice", Lang: "en"},
		},
	}

	var out bytes.Buffer
	require.NoError(t, NewStore(d).Import(context.Background(), statements, &out))

	var saved []executedQuery
	for _, q := range d.Executed {
		if q.Query == SaveResourceStatementsQuery || q.Query == SaveLiteralStatementsQuery {
			saved = append(saved, q)
		}
	}
	require.Len(t, saved, 2)

	res := saved[0].Params["rows"].([]map[string]any)
	assert.Equal(t, exPerson, res[0]["o"])

	lit := saved[1].Params["rows"].([]map[string]any)
	assert.Equal(t, "_:b1", lit[0]["s"])
	assert.Equal(t, extract.RDFLangString, lit[0]["dt"])
	assert.Contains(t, out.String(), "imported 2 statements")
}
