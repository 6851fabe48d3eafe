package munge

import (
	"slices"
	"strings"

	"github.com/geoknoesis/rdf-munge/rdf"
	"github.com/geoknoesis/rdf-munge/wikibase"
)

type termSet map[rdf.Term]struct{}

func (s termSet) add(t rdf.Term) { s[t] = struct{}{} }

func (s termSet) has(t rdf.Term) bool {
	_, ok := s[t]
	return ok
}

type edge struct {
	from rdf.Term
	to   rdf.Term
}

// graph is the result of the classification pass over one entity's batch.
type graph struct {
	entity    wikibase.EntityURIs
	entityIRI rdf.IRI
	dataIRI   rdf.IRI

	// versions are the distinct dump format versions declared by the entity
	// data header, sorted.
	versions []string

	statements termSet
	references termSet
	values     termSet
	siteLinks  termSet
	sites      termSet
	orphans    termSet

	labels labelChoice
}

// subjectKind says how a subject relates to the entity being munged.
type subjectKind int

const (
	subjectEntity subjectKind = iota
	subjectEntityData
	subjectNode
	subjectSiteLink
	subjectForeign
	subjectUnexpected
)

// classify builds the node sets of the batch. Edges are collected in one scan
// and resolved afterwards so input order does not matter; node chains are at
// most entity -> statement -> reference -> value deep.
func (m *Munger) classify(e wikibase.EntityURIs, batch []rdf.Triple) *graph {
	g := &graph{
		entity:     e,
		entityIRI:  rdf.IRI{Value: e.EntityIRI},
		dataIRI:    rdf.IRI{Value: e.EntityDataIRI},
		statements: termSet{},
		references: termSet{},
		values:     termSet{},
		siteLinks:  termSet{},
		sites:      termSet{},
		orphans:    termSet{},
		labels:     newLabelChoice(m.singleLabelLanguages, m.limitLanguages),
	}

	var derived, valueEdges, blankEdges, partOf []edge
	articles := termSet{}
	aboutEntity := termSet{}
	aboutOther := termSet{}

	for _, t := range batch {
		switch {
		case t.S == g.dataIRI && t.P.Value == wikibase.SchemaSoftwareVersion:
			if lit, ok := t.O.(rdf.Literal); ok && !slices.Contains(g.versions, lit.Lexical) {
				g.versions = append(g.versions, lit.Lexical)
			}
		case t.S == g.entityIRI:
			if o, ok := t.O.(rdf.IRI); ok && strings.HasPrefix(o.Value, e.Statement()) {
				g.statements.add(o)
			}
			if lit, ok := t.O.(rdf.Literal); ok {
				g.labels.offer(t.P.Value, lit)
			}
		}

		switch t.P.Value {
		case wikibase.ProvWasDerivedFrom:
			derived = append(derived, edge{t.S, t.O})
		case wikibase.RDFType:
			if o, ok := t.O.(rdf.IRI); ok && o.Value == wikibase.SchemaArticle {
				articles.add(t.S)
			}
		case wikibase.SchemaAbout:
			if s, ok := t.S.(rdf.IRI); ok && strings.HasPrefix(s.Value, e.EntityData()) {
				break
			}
			if t.O == g.entityIRI {
				aboutEntity.add(t.S)
			} else {
				aboutOther.add(t.S)
			}
		case wikibase.SchemaIsPartOf:
			partOf = append(partOf, edge{t.S, t.O})
		}

		if m.uris.IsValuePredicate(t.P.Value) && m.isValueNode(t.O) {
			valueEdges = append(valueEdges, edge{t.S, t.O})
		}
		if _, ok := t.O.(rdf.BlankNode); ok {
			blankEdges = append(blankEdges, edge{t.S, t.O})
		}
	}

	for _, d := range derived {
		if g.statements.has(d.from) && d.to.Kind() != rdf.TermLiteral {
			g.references.add(d.to)
		}
	}
	slices.Sort(g.versions)
	// Value and blank nodes may hang off each other, so repeat until nothing
	// new is reached.
	for changed := true; changed; {
		changed = false
		for _, v := range valueEdges {
			if !g.values.has(v.to) && g.isNode(v.from) {
				g.values.add(v.to)
				changed = true
			}
		}
		for _, b := range blankEdges {
			if !g.values.has(b.to) && g.ownsBlankSource(b.from) {
				g.values.add(b.to)
				changed = true
			}
		}
	}

	for link := range articles {
		if aboutOther.has(link) && !aboutEntity.has(link) {
			g.orphans.add(link)
			continue
		}
		g.siteLinks.add(link)
	}
	for link := range aboutEntity {
		g.siteLinks.add(link)
	}
	for link := range aboutOther {
		if !g.siteLinks.has(link) {
			g.orphans.add(link)
		}
	}
	for _, p := range partOf {
		if g.siteLinks.has(p.from) && p.to.Kind() == rdf.TermIRI {
			g.sites.add(p.to)
		}
	}
	return g
}

// isValueNode reports whether a value edge can land on term.
func (m *Munger) isValueNode(term rdf.Term) bool {
	switch o := term.(type) {
	case rdf.IRI:
		return strings.HasPrefix(o.Value, m.uris.Value())
	case rdf.BlankNode:
		return true
	}
	return false
}

func (g *graph) ownsBlankSource(t rdf.Term) bool {
	if t == g.entityIRI || g.isNode(t) {
		return true
	}
	if s, ok := t.(rdf.IRI); ok {
		_, local, found := g.entity.PropertyLocalName(s.Value)
		return found && local == g.entity.ID
	}
	return false
}

func (g *graph) isNode(t rdf.Term) bool {
	return g.statements.has(t) || g.references.has(t) || g.values.has(t)
}

// subjectKind classifies the subject of t.
func (g *graph) subjectKind(t rdf.Triple) subjectKind {
	switch {
	case t.S == g.entityIRI:
		return subjectEntity
	case t.S == g.dataIRI:
		return subjectEntityData
	case g.isNode(t.S):
		return subjectNode
	case g.siteLinks.has(t.S) || g.sites.has(t.S):
		return subjectSiteLink
	case g.orphans.has(t.S):
		return subjectForeign
	}

	s, ok := t.S.(rdf.IRI)
	if !ok {
		// Blank nodes that no retained node points at.
		return subjectUnexpected
	}
	uris := g.entity.URIs
	switch {
	case strings.HasPrefix(s.Value, uris.Statement()):
		if owner, _, found := strings.Cut(strings.TrimPrefix(s.Value, uris.Statement()), "-"); found {
			owner = strings.ToUpper(owner)
			if wikibase.IsEntityID(owner) && owner != g.entity.ID {
				return subjectForeign
			}
		}
		return subjectUnexpected
	case strings.HasPrefix(s.Value, uris.Reference()), strings.HasPrefix(s.Value, uris.Value()):
		return subjectUnexpected
	case strings.HasPrefix(s.Value, uris.Entity()):
		return foreignIfEntityID(strings.TrimPrefix(s.Value, uris.Entity()), g.entity.ID)
	case strings.HasPrefix(s.Value, uris.EntityData()):
		return foreignIfEntityID(strings.TrimPrefix(s.Value, uris.EntityData()), g.entity.ID)
	}
	if _, local, ok := uris.PropertyLocalName(s.Value); ok {
		if local == g.entity.ID {
			return subjectNode
		}
		return foreignIfEntityID(local, g.entity.ID)
	}
	return subjectUnexpected
}

func foreignIfEntityID(local, self string) subjectKind {
	if wikibase.IsEntityID(local) && local != self {
		return subjectForeign
	}
	return subjectUnexpected
}
