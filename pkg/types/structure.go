// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data contract shared by the structure extractor,
// the aggregation engine, and the task platform.
package types

import (
	"encoding/json"
	"fmt"
	"sort"

	"go.yaml.in/yaml/v3"
)

// URIKind records whether a URI was observed as a class or as a literal
// datatype.
type URIKind string

const (
	KindClass   URIKind = "class"
	KindLiteral URIKind = "literal"
)

// Valid reports whether k is one of the known kinds.
func (k URIKind) Valid() bool {
	return k == KindClass || k == KindLiteral
}

// Target is the third position of a class relation: either another class
// or the datatype of a literal value.
type Target struct {
	Kind URIKind `json:"kind" yaml:"kind"`
	URI  string  `json:"uri" yaml:"uri"`
}

// Class returns a Target naming a class URI.
func Class(uri string) Target { return Target{Kind: KindClass, URI: uri} }

// Literal returns a Target naming a literal datatype URI.
func Literal(datatype string) Target { return Target{Kind: KindLiteral, URI: datatype} }

func (t Target) String() string {
	if t.Kind == KindLiteral {
		return "^^<" + t.URI + ">"
	}
	return "<" + t.URI + ">"
}

// Triple states that instances of Subject are related through Predicate to
// instances of the class (or literals of the datatype) named by Object.
// It is a value type and is used directly as a set key.
type Triple struct {
	Subject   string `json:"subject" yaml:"subject"`
	Predicate string `json:"predicate" yaml:"predicate"`
	Object    Target `json:"object" yaml:"object"`
}

// NewTriple is shorthand for building a Triple.
func NewTriple(subject, predicate string, object Target) Triple {
	return Triple{Subject: subject, Predicate: predicate, Object: object}
}

func (t Triple) String() string {
	return fmt.Sprintf("<%s> <%s> %s", t.Subject, t.Predicate, t.Object)
}

func (t Triple) less(o Triple) bool {
	if t.Subject != o.Subject {
		return t.Subject < o.Subject
	}
	if t.Predicate != o.Predicate {
		return t.Predicate < o.Predicate
	}
	if t.Object.URI != o.Object.URI {
		return t.Object.URI < o.Object.URI
	}
	return t.Object.Kind < o.Object.Kind
}

// TripleSet is a set of class relations. The zero value is not usable for
// Add; use NewTripleSet.
type TripleSet map[Triple]struct{}

// NewTripleSet returns a set holding ts. Duplicates collapse.
func NewTripleSet(ts ...Triple) TripleSet {
	s := make(TripleSet, len(ts))
	for _, t := range ts {
		s[t] = struct{}{}
	}
	return s
}

// Add inserts t.
func (s TripleSet) Add(t Triple) { s[t] = struct{}{} }

// Has reports whether t is in the set.
func (s TripleSet) Has(t Triple) bool {
	_, ok := s[t]
	return ok
}

// Len returns the number of triples.
func (s TripleSet) Len() int { return len(s) }

// Clone returns an independent copy of s. A nil set clones to an empty one.
func (s TripleSet) Clone() TripleSet {
	c := make(TripleSet, len(s))
	for t := range s {
		c[t] = struct{}{}
	}
	return c
}

// Union returns a new set with every triple of s and other.
func (s TripleSet) Union(other TripleSet) TripleSet {
	u := s.Clone()
	for t := range other {
		u[t] = struct{}{}
	}
	return u
}

// Intersect returns a new set with the triples present in both s and other.
func (s TripleSet) Intersect(other TripleSet) TripleSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(TripleSet)
	for t := range small {
		if _, ok := large[t]; ok {
			out[t] = struct{}{}
		}
	}
	return out
}

// IsSubsetOf reports whether every triple of s is in other.
func (s TripleSet) IsSubsetOf(other TripleSet) bool {
	for t := range s {
		if _, ok := other[t]; !ok {
			return false
		}
	}
	return true
}

// Sorted returns the triples ordered by subject, predicate, object.
func (s TripleSet) Sorted() []Triple {
	out := make([]Triple, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// MarshalJSON encodes the set as a sorted list so equal sets encode to
// equal bytes.
func (s TripleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a list of triples, collapsing duplicates.
func (s *TripleSet) UnmarshalJSON(data []byte) error {
	var list []Triple
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*s = NewTripleSet(list...)
	return nil
}

// MarshalYAML encodes the set as a sorted sequence.
func (s TripleSet) MarshalYAML() (interface{}, error) {
	return s.Sorted(), nil
}

// UnmarshalYAML decodes a sequence of triples, collapsing duplicates.
func (s *TripleSet) UnmarshalYAML(value *yaml.Node) error {
	var list []Triple
	if err := value.Decode(&list); err != nil {
		return err
	}
	*s = NewTripleSet(list...)
	return nil
}

// URIRecord is the metadata kept for one class or datatype URI.
type URIRecord struct {
	// Kind is the latest observed role of the URI.
	Kind URIKind `json:"kind" yaml:"kind"`

	// Label is a best-effort human readable name. Empty when none was seen.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// URIData maps a URI to its metadata record.
type URIData map[string]URIRecord

// Clone returns an independent copy of d.
func (d URIData) Clone() URIData {
	c := make(URIData, len(d))
	for k, v := range d {
		c[k] = v
	}
	return c
}

// NodeStructureReport is everything one node discloses: class-level
// relations and metadata for the URIs they mention. It never carries
// instance identifiers, literal values, or counts.
type NodeStructureReport struct {
	Structure TripleSet `json:"structure" yaml:"structure"`
	URIData   URIData   `json:"uri_data" yaml:"uri_data"`
}

// NewNodeStructureReport returns an empty, ready to fill report.
func NewNodeStructureReport() NodeStructureReport {
	return NodeStructureReport{Structure: TripleSet{}, URIData: URIData{}}
}

// AggregateResult is the coordinator's merge of every node report.
type AggregateResult struct {
	// Union holds every triple reported by any node.
	Union TripleSet `json:"union" yaml:"union"`

	// Intersect holds the triples reported by all nodes.
	Intersect TripleSet `json:"intersect" yaml:"intersect"`

	// URIData is the last-write-wins merge of every node's metadata.
	URIData URIData `json:"uri_data" yaml:"uri_data"`
}

// NewAggregateResult returns an empty result.
func NewAggregateResult() AggregateResult {
	return AggregateResult{Union: TripleSet{}, Intersect: TripleSet{}, URIData: URIData{}}
}
