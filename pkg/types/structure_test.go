// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

const (
	exPerson  = "http://example.org/Person"
	exAddress = "http://example.org/Address"
	exLives   = "http://example.org/livesAt"
	exName    = "http://example.org/name"
	xsdString = "http://www.w3.org/2001/XMLSchema#string"
)

var (
	livesAt = NewTriple(exPerson, exLives, Class(exAddress))
	named   = NewTriple(exPerson, exName, Literal(xsdString))
)

func TestTripleSet_CollapsesDuplicates(t *testing.T) {
	s := NewTripleSet(livesAt, livesAt, named)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(livesAt))
	assert.True(t, s.Has(named))
}

func TestTripleSet_ClassAndLiteralTargetsDiffer(t *testing.T) {
	a := NewTriple(exPerson, exName, Class(xsdString))
	b := NewTriple(exPerson, exName, Literal(xsdString))
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, NewTripleSet(a, b).Len())
}

func TestTripleSet_UnionIntersect(t *testing.T) {
	a := NewTripleSet(livesAt, named)
	b := NewTripleSet(named)

	assert.Equal(t, NewTripleSet(livesAt, named), a.Union(b))
	assert.Equal(t, NewTripleSet(named), a.Intersect(b))
	assert.True(t, b.IsSubsetOf(a))
	assert.False(t, a.IsSubsetOf(b))

	// Operands are not modified.
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 1, b.Len())
}

func TestTripleSet_CloneOfNil(t *testing.T) {
	var s TripleSet
	c := s.Clone()
	require.NotNil(t, c)
	c.Add(livesAt)
	assert.Equal(t, 1, c.Len())
}

func TestTripleSet_JSONIsSortedAndDeduplicated(t *testing.T) {
	data, err := json.Marshal(NewTripleSet(named, livesAt))
	require.NoError(t, err)

	var list []Triple
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Equal(t, []Triple{livesAt, named}, list)

	dup := `[` + string(data[1:len(data)-1]) + `,` + string(data[1:len(data)-1]) + `]`
	var s TripleSet
	require.NoError(t, json.Unmarshal([]byte(dup), &s))
	assert.Equal(t, NewTripleSet(livesAt, named), s)
}

func TestNodeStructureReport_YAML(t *testing.T) {
	r := NewNodeStructureReport()
	r.Structure.Add(livesAt)
	r.URIData[exPerson] = URIRecord{Kind: KindClass, Label: "Person"}
	r.URIData[xsdString] = URIRecord{Kind: KindLiteral}

	data, err := yaml.Marshal(&r)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: class")
	assert.Contains(t, string(data), "label: Person")

	var back NodeStructureReport
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, r, back)
}

func TestValidate(t *testing.T) {
	good := NewNodeStructureReport()
	good.Structure.Add(livesAt)
	assert.NoError(t, good.Validate())

	bad := NewNodeStructureReport()
	bad.Structure.Add(NewTriple(exPerson, "", Class(exAddress)))
	bad.Structure.Add(NewTriple(exPerson, exLives, Target{Kind: "blank", URI: "x"}))
	bad.URIData[exPerson] = URIRecord{Kind: "thing"}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty predicate")
	assert.Contains(t, err.Error(), `unknown kind "blank"`)
	assert.Contains(t, err.Error(), `unknown kind "thing"`)
}

func TestAggregateResult_ValidateSubset(t *testing.T) {
	r := NewAggregateResult()
	r.Intersect.Add(livesAt)
	assert.ErrorContains(t, r.Validate(), "not a subset")

	r.Union.Add(livesAt)
	assert.NoError(t, r.Validate())
}

func TestTabularColumns_WithDefaults(t *testing.T) {
	c := TabularColumns{Predicate: "pred"}.WithDefaults()
	assert.Equal(t, "subject_type", c.SubjectType)
	assert.Equal(t, "pred", c.Predicate)
	assert.Empty(t, c.SubjectLabel)
}
