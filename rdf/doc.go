// Package rdf provides the compact RDF term model used by the munging tools,
// with a streaming N-Triples decoder and encoder.
//
// Terms are plain comparable values: two IRIs, blank nodes or literals are
// equal exactly when their fields are equal, so a Triple can be used as a map
// key and batches of triples can be treated as sets.
//
// Example (decoding triples):
//
//	dec := rdf.NewTripleDecoder(strings.NewReader(input), rdf.DecodeOptions{})
//	defer dec.Close()
//
//	for {
//	    triple, err := dec.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        // handle error
//	    }
//	    // process triple.S, triple.P, triple.O
//	}
//
// Example (encoding triples):
//
//	enc := rdf.NewTripleEncoder(w)
//	defer enc.Close()
//	_ = enc.Write(rdf.NewTriple(rdf.IRI{Value: "http://example.org/s"},
//	    rdf.IRI{Value: "http://example.org/p"}, rdf.NewLangLiteral("v", "en")))
package rdf
