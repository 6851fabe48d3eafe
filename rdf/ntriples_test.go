package rdf

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func decodeAll(t *testing.T, input string) []Triple {
	t.Helper()
	dec := NewTripleDecoder(strings.NewReader(input), DecodeOptions{})
	defer dec.Close()
	var out []Triple
	for {
		triple, err := dec.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out = append(out, triple)
	}
}

func TestNTriplesDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"missing object":  "<http://example.org/s> <http://example.org/p> .\n",
		"missing dot":     "<http://example.org/s> <http://example.org/p> <http://example.org/o>\n",
		"literal subject": "\"s\" <http://example.org/p> <http://example.org/o> .\n",
		"graph term":      "<http://example.org/s> <http://example.org/p> <http://example.org/o> <http://example.org/g> .\n",
		"open literal":    "<http://example.org/s> <http://example.org/p> \"abc .\n",
	}
	for name, input := range cases {
		dec := NewTripleDecoder(strings.NewReader(input), DecodeOptions{})
		_, err := dec.Next()
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) || parseErr.Line != 1 {
			t.Fatalf("%s: expected ParseError on line 1, got %v", name, err)
		}
		if Code(err) != ErrCodeParseError {
			t.Fatalf("%s: unexpected code %s", name, Code(err))
		}
	}
}

func TestNTriplesDecodeBlankAndLiteral(t *testing.T) {
	triples := decodeAll(t, "# header\n\n_:b1 <http://example.org/p> \"v\"@en-GB .\n")
	if len(triples) != 1 {
		t.Fatalf("expected 1 triple, got %d", len(triples))
	}
	if b, ok := triples[0].S.(BlankNode); !ok || b.ID != "b1" {
		t.Fatalf("expected blank node subject, got %v", triples[0].S)
	}
	if lit, ok := triples[0].O.(Literal); !ok || lit.Lang != "en-GB" || lit.Lexical != "v" {
		t.Fatalf("expected lang literal, got %v", triples[0].O)
	}
}

func TestNTriplesDecodeDatatypeLiteral(t *testing.T) {
	triples := decodeAll(t, "<http://example.org/s> <http://example.org/p> \"1\"^^<http://example.org/dt> .\n")
	if lit, ok := triples[0].O.(Literal); !ok || lit.Datatype.Value != "http://example.org/dt" {
		t.Fatalf("expected datatype literal")
	}
}

func TestNTriplesDecodeEscapes(t *testing.T) {
	triples := decodeAll(t, `<http://example.org/sé> <http://example.org/p> "a\"b\\c\ndé" .`+"\n")
	if triples[0].S.(IRI).Value != "http://example.org/sé" {
		t.Fatalf("unexpected subject %q", triples[0].S)
	}
	if got := triples[0].O.(Literal).Lexical; got != "a\"b\\c\ndé" {
		t.Fatalf("unexpected lexical %q", got)
	}
}

func TestNTriplesDecodeKeepsRawBackslashInIRI(t *testing.T) {
	triples := decodeAll(t, `<http://example.org/a\b> <http://example.org/p> <http://example.org/o> .`+"\n")
	if triples[0].S.(IRI).Value != `http://example.org/a\b` {
		t.Fatalf("unexpected subject %q", triples[0].S)
	}
}

func TestNTriplesLineTooLong(t *testing.T) {
	input := "<http://example.org/s> <http://example.org/p> \"" + strings.Repeat("x", 256) + "\" .\n"
	dec := NewTripleDecoder(strings.NewReader(input), DecodeOptions{MaxLineBytes: 64})
	_, err := dec.Next()
	if !errors.Is(err, ErrLineTooLong) {
		t.Fatalf("expected ErrLineTooLong, got %v", err)
	}
	if Code(err) != ErrCodeLineTooLong {
		t.Fatalf("unexpected code %s", Code(err))
	}
}

func TestNTriplesRoundTrip(t *testing.T) {
	input := []Triple{
		NewTriple(IRI{Value: "http://example.org/s"}, IRI{Value: "http://example.org/p"}, NewLangLiteral("quote \" and \\ and\nnewline", "en")),
		NewTriple(BlankNode{ID: "x1"}, IRI{Value: "http://example.org/p"}, NewTypedLiteral("12", "http://www.w3.org/2001/XMLSchema#integer")),
		NewTriple(IRI{Value: "http://example.org/s"}, IRI{Value: "http://example.org/p"}, Literal{Lexical: "plain\ttab"}),
		NewTriple(IRI{Value: "http://example.org/s"}, IRI{Value: "http://example.org/p"}, BlankNode{ID: "x1"}),
	}
	var buf bytes.Buffer
	enc := NewTripleEncoder(&buf)
	for _, triple := range input {
		if err := enc.Write(triple); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	got := decodeAll(t, buf.String())
	if len(got) != len(input) {
		t.Fatalf("expected %d triples, got %d", len(input), len(got))
	}
	for i := range input {
		if got[i] != input[i] {
			t.Fatalf("triple %d: got %v want %v", i, got[i], input[i])
		}
	}
}

func TestNTriplesEncodeRejectsEmpty(t *testing.T) {
	enc := NewTripleEncoder(io.Discard)
	if err := enc.Write(Triple{}); err == nil {
		t.Fatal("expected error for empty triple")
	}
	if err := enc.Write(Triple{S: IRI{Value: "http://example.org/s"}}); err == nil {
		t.Fatal("expected error for partial triple")
	}
}

func TestNTriplesEncodeEscapesIRI(t *testing.T) {
	decoded := decodeAll(t, "<http://example.org/a\\u0020b\\u003Ec> <http://example.org/p> <http://example.org/x\\u005Cy> .\n")
	if len(decoded) != 1 || decoded[0].S.(IRI).Value != "http://example.org/a b>c" {
		t.Fatalf("unexpected decode: %v", decoded)
	}
	var buf bytes.Buffer
	enc := NewTripleEncoder(&buf)
	if err := enc.Write(decoded[0]); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	want := "<http://example.org/a\\u0020b\\u003Ec> <http://example.org/p> <http://example.org/x\\u005Cy> .\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
	again := decodeAll(t, buf.String())
	if len(again) != 1 || again[0] != decoded[0] {
		t.Fatalf("round trip changed triple: %v", again)
	}
}
