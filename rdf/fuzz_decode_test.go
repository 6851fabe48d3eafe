package rdf

import (
	"bytes"
	"io"
	"testing"
)

const fuzzMaxLineBytes = 8 << 10

func FuzzDecodeNTriples(f *testing.F) {
	f.Add([]byte(`<http://example.org/s> <http://example.org/p> "v" .`))
	f.Add([]byte(`_:b1 <http://example.org/p> "vé"@en-GB .`))
	f.Add([]byte(`<http://example.org/s> <http://example.org/p> "1"^^<http://www.w3.org/2001/XMLSchema#integer> .`))
	f.Fuzz(func(t *testing.T, data []byte) {
		dec := NewTripleDecoder(bytes.NewReader(data), DecodeOptions{MaxLineBytes: fuzzMaxLineBytes})
		var buf bytes.Buffer
		enc := NewTripleEncoder(&buf)
		for {
			triple, err := dec.Next()
			if err != nil {
				if err != io.EOF && Code(err) == "" {
					t.Fatalf("error without code: %v", err)
				}
				break
			}
			if err := enc.Write(triple); err != nil {
				t.Fatalf("decoded triple does not encode: %v", err)
			}
		}
		if err := enc.Flush(); err != nil {
			t.Fatal(err)
		}
	})
}
