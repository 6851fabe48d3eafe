package rdf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const formatNTriples = "ntriples"

// DefaultMaxLineBytes bounds a single N-Triples line.
const DefaultMaxLineBytes = 1 << 20

// DecodeOptions configures the N-Triples decoder.
// Zero values use defaults.
type DecodeOptions struct {
	MaxLineBytes int
}

// TripleDecoder streams triples from an input.
type TripleDecoder interface {
	// Next returns the next triple, or io.EOF when the input is exhausted.
	Next() (Triple, error)
	Err() error
	Close() error
}

// TripleEncoder streams triples to an output.
type TripleEncoder interface {
	Write(Triple) error
	Flush() error
	Close() error
}

type ntDecoder struct {
	scanner *bufio.Scanner
	line    int
	err     error
}

// NewTripleDecoder returns an N-Triples decoder reading from r.
func NewTripleDecoder(r io.Reader, opts DecodeOptions) TripleDecoder {
	if opts.MaxLineBytes <= 0 {
		opts.MaxLineBytes = DefaultMaxLineBytes
	}
	scanner := bufio.NewScanner(r)
	initial := 64 * 1024
	if initial > opts.MaxLineBytes {
		initial = opts.MaxLineBytes
	}
	scanner.Buffer(make([]byte, 0, initial), opts.MaxLineBytes)
	return &ntDecoder{scanner: scanner}
}

func (d *ntDecoder) Next() (Triple, error) {
	if d.err != nil {
		return Triple{}, d.err
	}
	for d.scanner.Scan() {
		d.line++
		line := strings.TrimSpace(d.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		triple, err := parseNTLine(line)
		if err != nil {
			d.err = &ParseError{Format: formatNTriples, Statement: line, Line: d.line, Err: err}
			return Triple{}, d.err
		}
		return triple, nil
	}
	if err := d.scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			err = ErrLineTooLong
		}
		d.err = &ParseError{Format: formatNTriples, Line: d.line + 1, Err: err}
		return Triple{}, d.err
	}
	return Triple{}, io.EOF
}

func (d *ntDecoder) Err() error { return d.err }

func (d *ntDecoder) Close() error { return nil }

// ParseNTriplesLine parses a single N-Triples statement.
func ParseNTriplesLine(line string) (Triple, error) {
	triple, err := parseNTLine(strings.TrimSpace(line))
	if err != nil {
		return Triple{}, &ParseError{Format: formatNTriples, Statement: line, Err: err}
	}
	return triple, nil
}

func parseNTLine(line string) (Triple, error) {
	cursor := &ntCursor{input: line}
	subject, err := cursor.parseTerm(false)
	if err != nil {
		return Triple{}, err
	}
	predicate, err := cursor.parseIRI()
	if err != nil {
		return Triple{}, err
	}
	object, err := cursor.parseTerm(true)
	if err != nil {
		return Triple{}, err
	}
	if !cursor.consume('.') {
		return Triple{}, cursor.errorf("expected '.' at end of statement")
	}
	cursor.skipWS()
	if cursor.pos < len(cursor.input) && cursor.input[cursor.pos] != '#' {
		return Triple{}, cursor.errorf("unexpected content after '.'")
	}
	return Triple{S: subject, P: predicate, O: object}, nil
}

type ntCursor struct {
	input string
	pos   int
}

func (c *ntCursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return
		}
	}
}

func (c *ntCursor) consume(ch byte) bool {
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *ntCursor) parseTerm(allowLiteral bool) (Term, error) {
	c.skipWS()
	if c.pos >= len(c.input) {
		return nil, c.errorf("unexpected end of line")
	}
	switch {
	case c.input[c.pos] == '<':
		return c.parseIRI()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNode()
	case c.input[c.pos] == '"':
		if !allowLiteral {
			return nil, c.errorf("literal not allowed here")
		}
		return c.parseLiteral()
	default:
		return nil, c.errorf("unexpected token")
	}
}

func (c *ntCursor) parseIRI() (IRI, error) {
	if !c.consume('<') {
		return IRI{}, c.errorf("expected IRI")
	}
	var builder strings.Builder
	for c.pos < len(c.input) {
		ch := c.input[c.pos]
		if ch == '>' {
			c.pos++
			return IRI{Value: builder.String()}, nil
		}
		if ch == '\\' {
			if err := c.parseEscape(&builder, true); err != nil {
				return IRI{}, err
			}
			continue
		}
		builder.WriteByte(ch)
		c.pos++
	}
	return IRI{}, c.errorf("unterminated IRI")
}

func (c *ntCursor) parseBlankNode() (BlankNode, error) {
	c.pos += 2
	start := c.pos
	for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
		c.pos++
	}
	// A label may contain dots but never ends with one.
	for c.pos > start && c.input[c.pos-1] == '.' {
		c.pos--
	}
	if start == c.pos {
		return BlankNode{}, c.errorf("blank node id missing")
	}
	return BlankNode{ID: c.input[start:c.pos]}, nil
}

func (c *ntCursor) parseLiteral() (Literal, error) {
	if !c.consume('"') {
		return Literal{}, c.errorf("expected literal")
	}
	var builder strings.Builder
	closed := false
	for c.pos < len(c.input) {
		ch := c.input[c.pos]
		if ch == '"' {
			c.pos++
			closed = true
			break
		}
		if ch == '\\' {
			if err := c.parseEscape(&builder, false); err != nil {
				return Literal{}, err
			}
			continue
		}
		builder.WriteByte(ch)
		c.pos++
	}
	if !closed {
		return Literal{}, c.errorf("unterminated literal")
	}
	lexical := builder.String()
	if strings.HasPrefix(c.input[c.pos:], "@") {
		c.pos++
		start := c.pos
		for c.pos < len(c.input) && isLangChar(c.input[c.pos]) {
			c.pos++
		}
		if start == c.pos {
			return Literal{}, c.errorf("language tag missing")
		}
		return Literal{Lexical: lexical, Lang: c.input[start:c.pos]}, nil
	}
	if strings.HasPrefix(c.input[c.pos:], "^^") {
		c.pos += 2
		dt, err := c.parseIRI()
		if err != nil {
			return Literal{}, err
		}
		return Literal{Lexical: lexical, Datatype: dt}, nil
	}
	return Literal{Lexical: lexical}, nil
}

// parseEscape decodes the escape sequence at the cursor into builder.
// Inside IRIs only the numeric \u and \U forms are decoded.
func (c *ntCursor) parseEscape(builder *strings.Builder, numericOnly bool) error {
	if c.pos+1 >= len(c.input) {
		return c.errorf("unterminated escape")
	}
	next := c.input[c.pos+1]
	switch next {
	case 'u', 'U':
		width := 4
		if next == 'U' {
			width = 8
		}
		start := c.pos + 2
		if start+width > len(c.input) {
			return c.errorf("truncated unicode escape")
		}
		code, err := strconv.ParseUint(c.input[start:start+width], 16, 32)
		if err != nil {
			return c.errorf("invalid unicode escape %q", c.input[c.pos:start+width])
		}
		builder.WriteRune(rune(code))
		c.pos = start + width
		return nil
	}
	if numericOnly {
		// Dumps carry raw backslashes in IRIs; keep them for the normalizer.
		builder.WriteByte('\\')
		c.pos++
		return nil
	}
	switch next {
	case 'n':
		builder.WriteByte('\n')
	case 't':
		builder.WriteByte('\t')
	case 'r':
		builder.WriteByte('\r')
	case 'b':
		builder.WriteByte('\b')
	case 'f':
		builder.WriteByte('\f')
	case '"', '\'', '\\':
		builder.WriteByte(next)
	default:
		return c.errorf("invalid escape \\%c", next)
	}
	c.pos += 2
	return nil
}

func (c *ntCursor) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("column %d: "+format, append([]interface{}{c.pos + 1}, args...)...)
}

func isTermDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '<', '"':
		return true
	default:
		return false
	}
}

func isLangChar(ch byte) bool {
	return ch == '-' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

type ntEncoder struct {
	writer *bufio.Writer
	err    error
}

// NewTripleEncoder returns an N-Triples encoder writing to w.
func NewTripleEncoder(w io.Writer) TripleEncoder {
	return &ntEncoder{writer: bufio.NewWriter(w)}
}

func (e *ntEncoder) Write(t Triple) error {
	if e.err != nil {
		return e.err
	}
	if t.IsZero() {
		return fmt.Errorf("ntriples: empty statement")
	}
	if t.S == nil || t.P.Value == "" || t.O == nil {
		return fmt.Errorf("ntriples: missing statement fields")
	}
	_, err := e.writer.WriteString(t.String() + " .\n")
	if err != nil {
		e.err = err
	}
	return err
}

func (e *ntEncoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	return e.writer.Flush()
}

func (e *ntEncoder) Close() error {
	return e.Flush()
}

func renderIRI(iri IRI) string {
	return "<" + escapeIRI(iri.Value) + ">"
}

// escapeIRI writes the characters IRIREF forbids as \uXXXX escapes so decoded
// IRIs survive a round trip.
func escapeIRI(s string) string {
	if strings.IndexFunc(s, isIRIForbidden) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		if isIRIForbidden(r) {
			fmt.Fprintf(&b, `\u%04X`, r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isIRIForbidden(r rune) bool {
	if r <= 0x20 {
		return true
	}
	switch r {
	case '<', '>', '"', '{', '}', '|', '^', '`', '\\':
		return true
	}
	return false
}

func renderTerm(term Term) string {
	switch value := term.(type) {
	case IRI:
		return renderIRI(value)
	case BlankNode:
		return value.String()
	case Literal:
		quoted := `"` + escapeLexical(value.Lexical) + `"`
		if value.Lang != "" {
			return quoted + "@" + value.Lang
		}
		if value.Datatype.Value != "" {
			return quoted + "^^" + renderIRI(value.Datatype)
		}
		return quoted
	default:
		return ""
	}
}

var lexicalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func escapeLexical(s string) string {
	return lexicalEscaper.Replace(s)
}
