package triplestore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/knakk/rdf"
)

// TermKind distinguishes the kinds of RDF terms.
type TermKind string

const (
	TermIRI     TermKind = "iri"
	TermBlank   TermKind = "blank"
	TermLiteral TermKind = "literal"
)

// Term is one RDF term. Datatype and Lang apply to literals only; a
// language-tagged literal carries no datatype.
type Term struct {
	Kind     TermKind
	Value    string
	Datatype string
	Lang     string
}

// Statement is one parsed RDF triple.
type Statement struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// Format is an RDF serialization accepted by Parse.
type Format string

const (
	FormatNTriples Format = "nt"
	FormatTurtle   Format = "ttl"
)

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "nt", "ntriples", "n-triples":
		return FormatNTriples, nil
	case "ttl", "turtle":
		return FormatTurtle, nil
	}
	return "", fmt.Errorf("unknown RDF format %q: use nt or ttl", name)
}

// FormatOf picks the format from a file extension. Anything other than
// .ttl is read as N-Triples.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".ttl") {
		return FormatTurtle
	}
	return FormatNTriples
}

// SyntaxError reports a malformed N-Triples line.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parse reads statements in format f from r and calls fn for each.
//
// N-Triples is decoded line by line: a malformed line is passed to onError
// (when non-nil) and skipped. A Turtle document is decoded as a whole and
// its first syntax error stops the parse. Read failures and errors
// returned by fn always stop it.
func Parse(r io.Reader, f Format, fn func(Statement) error, onError func(*SyntaxError)) error {
	switch f {
	case FormatNTriples:
		return parseNTriples(r, fn, onError)
	case FormatTurtle:
		return parseTurtle(r, fn)
	}
	return fmt.Errorf("unknown RDF format %q", f)
}

func parseNTriples(r io.Reader, fn func(Statement) error, onError func(*SyntaxError)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		st, err := decodeLine(line)
		if err != nil {
			if onError != nil {
				onError(&SyntaxError{Line: n, Msg: err.Error()})
			}
			continue
		}
		if err := fn(st); err != nil {
			return err
		}
	}
	return sc.Err()
}

// decodeLine accepts a line holding exactly one statement.
func decodeLine(line string) (Statement, error) {
	triples, err := rdf.NewTripleDecoder(strings.NewReader(line+"\n"), rdf.NTriples).DecodeAll()
	if err != nil {
		return Statement{}, err
	}
	switch len(triples) {
	case 0:
		return Statement{}, errors.New("no statement")
	case 1:
		return statementOf(triples[0])
	}
	return Statement{}, fmt.Errorf("%d statements on one line", len(triples))
}

func parseTurtle(r io.Reader, fn func(Statement) error) error {
	dec := rdf.NewTripleDecoder(r, rdf.Turtle)
	for {
		tr, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("turtle: %w", err)
		}
		st, err := statementOf(tr)
		if err != nil {
			return fmt.Errorf("turtle: %w", err)
		}
		if err := fn(st); err != nil {
			return err
		}
	}
}

func statementOf(tr rdf.Triple) (Statement, error) {
	var st Statement
	var err error
	if st.Subject, err = termOf(tr.Subj); err != nil {
		return st, fmt.Errorf("subject: %w", err)
	}
	if st.Subject.Kind == TermLiteral {
		return st, errors.New("subject: literal not allowed")
	}
	if st.Predicate, err = termOf(tr.Pred); err != nil {
		return st, fmt.Errorf("predicate: %w", err)
	}
	if st.Predicate.Kind != TermIRI {
		return st, errors.New("predicate: must be an IRI")
	}
	if st.Object, err = termOf(tr.Obj); err != nil {
		return st, fmt.Errorf("object: %w", err)
	}
	return st, nil
}

func termOf(t rdf.Term) (Term, error) {
	switch v := t.(type) {
	case rdf.IRI:
		if v.String() == "" {
			return Term{}, errors.New("empty IRI")
		}
		return Term{Kind: TermIRI, Value: v.String()}, nil
	case rdf.Blank:
		return Term{Kind: TermBlank, Value: strings.TrimPrefix(v.String(), "_:")}, nil
	case rdf.Literal:
		lit := Term{Kind: TermLiteral, Value: v.String(), Lang: strings.ToLower(v.Lang())}
		if lit.Lang == "" {
			lit.Datatype = v.DataType.String()
		}
		return lit, nil
	}
	return Term{}, fmt.Errorf("unsupported term %v", t)
}
