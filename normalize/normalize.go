// Package normalize repairs legacy and malformed values found in Wikibase
// RDF dumps. Every function is pure: input that needs no repair is returned
// unchanged, and callers compare results by value to detect a change.
package normalize

import (
	"strings"

	"github.com/geoknoesis/rdf-munge/rdf"
	"github.com/geoknoesis/rdf-munge/wikibase"
)

var legacyMarkers = strings.NewReplacer(
	"ontology-0.0.1", "ontology",
	"ontology-beta", "ontology",
)

// illegalIRIChars escapes characters that are not allowed in IRIs but show up
// in dumps.
var illegalIRIChars = strings.NewReplacer(
	"\n", "%0A",
	"|", "%7C",
	`\`, "%5C",
	"{", "%7B",
	"}", "%7D",
	"`", "%60",
	"^", "%5E",
)

const illegalIRICharSet = "\n|\\{}`^"

// Namespace normalizes a namespace declaration IRI.
func Namespace(uri string) string {
	return fixLegacyNamespace(uri)
}

// IRI normalizes a single IRI.
func IRI(iri rdf.IRI) rdf.IRI {
	fixed := fixLegacyNamespace(iri.Value)
	if strings.ContainsAny(fixed, illegalIRICharSet) {
		fixed = illegalIRIChars.Replace(fixed)
	}
	return rdf.IRI{Value: fixed}
}

func fixLegacyNamespace(uri string) string {
	if strings.Contains(uri, "ontology-") {
		uri = legacyMarkers.Replace(uri)
	}
	if rest, ok := strings.CutPrefix(uri, wikibase.OldOntologyNamespace); ok {
		uri = wikibase.OntologyNamespace + rest
	}
	return uri
}

// Literal normalizes an object literal: bad numerals become "0" and WKT
// points get canonical casing, with any globe prefix stripped.
func Literal(lit rdf.Literal) rdf.Literal {
	switch lit.Datatype.Value {
	case wikibase.XSDDecimal, wikibase.XSDInteger:
		if !isNumeral(lit.Lexical) {
			return rdf.Literal{Lexical: "0", Datatype: lit.Datatype}
		}
	case wikibase.WKTLiteral:
		return fixPoint(lit)
	}
	return lit
}

// isNumeral accepts an optional sign followed by digits with at most one dot.
func isNumeral(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	seenDot, seenDigit := false, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '.':
			if seenDot {
				return false
			}
			seenDot = true
		case c >= '0' && c <= '9':
			seenDigit = true
		default:
			return false
		}
	}
	return seenDigit
}

func fixPoint(lit rdf.Literal) rdf.Literal {
	label := lit.Lexical
	if strings.HasPrefix(label, "<") {
		if end := strings.LastIndexByte(label, '>'); end > 0 {
			stripped := strings.TrimLeft(label[end+1:], " ")
			return rdf.NewTypedLiteral(strings.ReplaceAll(stripped, "Point", "POINT"), wikibase.WKTCRSLiteral)
		}
	}
	if strings.Contains(label, "Point") {
		return rdf.Literal{Lexical: strings.ReplaceAll(label, "Point", "POINT"), Datatype: lit.Datatype}
	}
	return lit
}

// Triple normalizes every IRI of t and its object literal.
func Triple(t rdf.Triple) rdf.Triple {
	out := t
	if s, ok := t.S.(rdf.IRI); ok {
		out.S = IRI(s)
	}
	out.P = IRI(t.P)
	switch o := t.O.(type) {
	case rdf.IRI:
		out.O = IRI(o)
	case rdf.Literal:
		out.O = Literal(o)
	}
	return out
}

// Handler returns a handler that normalizes each triple before passing it to next.
func Handler(next rdf.Handler) rdf.Handler {
	return func(t rdf.Triple) error {
		return next(Triple(t))
	}
}
