package extract

import "strings"

// Namespaces of the modelling vocabularies themselves.
const (
	NamespaceRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceOWL  = "http://www.w3.org/2002/07/owl#"
	NamespaceXSD  = "http://www.w3.org/2001/XMLSchema#"
)

// Well-known terms.
const (
	RDFType       = NamespaceRDF + "type"
	RDFLangString = NamespaceRDF + "langString"
	RDFSLabel     = NamespaceRDFS + "label"
	XSDString     = NamespaceXSD + "string"
)

var reservedPrefixes = []string{NamespaceRDF, NamespaceRDFS, NamespaceOWL}

// IsReserved reports whether uri belongs to the RDF, RDFS, or OWL
// vocabulary. Such URIs describe the modelling language, not the domain,
// and never appear in a report.
func IsReserved(uri string) bool {
	for _, p := range reservedPrefixes {
		if strings.HasPrefix(uri, p) {
			return true
		}
	}
	return false
}
