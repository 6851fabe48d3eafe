package munge

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/rdf-munge/rdf"
	"github.com/geoknoesis/rdf-munge/wikibase"
)

var uris = wikibase.DefaultURIs()

const bogus = "http://example.com/bogus"

// term turns entity ids into entity IRIs, http strings into IRIs and
// anything else into a plain literal.
func term(v any) rdf.Term {
	switch x := v.(type) {
	case rdf.Term:
		return x
	case string:
		switch {
		case wikibase.IsEntityID(x):
			return rdf.IRI{Value: uris.Entity() + x}
		case strings.HasPrefix(x, "http"):
			return rdf.IRI{Value: x}
		default:
			return rdf.Literal{Lexical: x}
		}
	}
	panic("unsupported term")
}

func iri(v string) rdf.IRI {
	return term(v).(rdf.IRI)
}

func statement(s, p string, o any) rdf.Triple {
	return rdf.NewTriple(term(s), iri(p), term(o))
}

func basicEntity(id string) []rdf.Triple {
	data := uris.EntityData() + id
	return []rdf.Triple{
		statement(data, wikibase.SchemaAbout, id),
		statement(data, wikibase.SchemaVersion, rdf.NewTypedLiteral("123", wikibase.XSDInteger)),
		statement(data, wikibase.SchemaDateModified, rdf.NewTypedLiteral("2015-04-02T10:54:56Z", wikibase.XSDDateTime)),
		statement(data, wikibase.RDFType, wikibase.SchemaDataset),
		statement(id, wikibase.RDFType, wikibase.Item),
	}
}

func siteLink(id, link, lang string, withSite bool) []rdf.Triple {
	out := []rdf.Triple{
		statement(link, wikibase.RDFType, wikibase.SchemaArticle),
		statement(link, wikibase.SchemaAbout, id),
		statement(link, wikibase.SchemaInLanguage, rdf.Literal{Lexical: lang}),
	}
	if withSite {
		site := "https://" + lang + ".wikipedia.org/"
		out = append(out,
			statement(link, wikibase.SchemaIsPartOf, site),
			statement(site, wikibase.WikiGroup, "wikipedia"))
	}
	return out
}

// fixture collects an entity batch together with the statements the munger
// is expected to keep and to remove.
type fixture struct {
	t          *testing.T
	id         string
	munger     *Munger
	statements []rdf.Triple
	toRetain   []rdf.Triple
	toRemove   []rdf.Triple
}

func entity(t *testing.T, id string) *fixture {
	return &fixture{
		t:          t,
		id:         id,
		munger:     New(uris),
		statements: basicEntity(id),
	}
}

func (f *fixture) retain(ts ...rdf.Triple) *fixture {
	f.statements = append(f.statements, ts...)
	f.toRetain = append(f.toRetain, ts...)
	return f
}

func (f *fixture) remove(ts ...rdf.Triple) *fixture {
	f.statements = append(f.statements, ts...)
	f.toRemove = append(f.toRemove, ts...)
	return f
}

func (f *fixture) configure(fn func(*Munger) *Munger) *fixture {
	f.munger = fn(f.munger)
	return f
}

func (f *fixture) format(version string, h FormatHandler) *fixture {
	f.remove(statement(uris.EntityData()+f.id, wikibase.SchemaSoftwareVersion, version))
	f.munger = f.munger.WithFormatHandler(version, h)
	return f
}

// test shuffles the batch before munging.
func (f *fixture) test() []rdf.Triple {
	rand.Shuffle(len(f.statements), func(i, j int) {
		f.statements[i], f.statements[j] = f.statements[j], f.statements[i]
	})
	return f.testWithoutShuffle()
}

func (f *fixture) testWithoutShuffle() []rdf.Triple {
	f.t.Helper()
	out, err := f.munger.Munge(f.id, f.statements)
	require.NoError(f.t, err)
	for _, x := range f.toRetain {
		assert.Contains(f.t, out, x)
	}
	for _, x := range f.toRemove {
		assert.NotContains(f.t, out, x)
	}
	return out
}

func asSet(ts []rdf.Triple) map[rdf.Triple]struct{} {
	set := make(map[rdf.Triple]struct{}, len(ts))
	for _, t := range ts {
		set[t] = struct{}{}
	}
	return set
}
