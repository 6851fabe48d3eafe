// Package munge reduces the RDF exported for one Wikibase entity to the
// statements an index should store.
//
// A Munger is configured once through its With* methods, each of which
// returns a new Munger, and is then safe for concurrent use: Munge keeps all
// per-batch state local to the call.
package munge

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/geoknoesis/rdf-munge/rdf"
	"github.com/geoknoesis/rdf-munge/wikibase"
)

// ErrInvalidEntityID is returned when Munge is called with a malformed id.
var ErrInvalidEntityID = errors.New("invalid entity id")

// Munger filters entity batches according to its policies.
type Munger struct {
	uris   wikibase.URIs
	logger *slog.Logger

	removeSiteLinks      bool
	limitLanguages       map[string]struct{}
	singleLabelLanguages []string
	formatHandlers       map[string]FormatHandler
}

// Option configures a Munger at construction.
type Option func(*Munger)

// WithLogger sets the logger used for per-batch debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Munger) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New returns a Munger for the given namespace system with every policy off.
func New(uris wikibase.URIs, opts ...Option) *Munger {
	m := &Munger{
		uris:   uris,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Munger) clone() *Munger {
	c := *m
	c.limitLanguages = maps.Clone(m.limitLanguages)
	c.singleLabelLanguages = slices.Clone(m.singleLabelLanguages)
	c.formatHandlers = maps.Clone(m.formatHandlers)
	return &c
}

// WithSiteLinksRemoved returns a copy that drops site links.
func (m *Munger) WithSiteLinksRemoved() *Munger {
	c := m.clone()
	c.removeSiteLinks = true
	return c
}

// WithLimitedLabelLanguages returns a copy that keeps labels, descriptions and
// aliases only in the given languages. No languages means no limit.
func (m *Munger) WithLimitedLabelLanguages(langs ...string) *Munger {
	c := m.clone()
	c.limitLanguages = nil
	if normalized := normalizeLanguages(langs); len(normalized) > 0 {
		c.limitLanguages = make(map[string]struct{}, len(normalized))
		for _, l := range normalized {
			c.limitLanguages[l] = struct{}{}
		}
	}
	return c
}

// WithSingleLabelMode returns a copy that keeps at most one label, description
// and alias per entity, picking the first language of langs that is present.
// No languages turns the mode off.
func (m *Munger) WithSingleLabelMode(langs ...string) *Munger {
	c := m.clone()
	c.singleLabelLanguages = normalizeLanguages(langs)
	if len(c.singleLabelLanguages) == 0 {
		c.singleLabelLanguages = nil
	}
	return c
}

// WithFormatHandler returns a copy that applies h to batches whose entity data
// declares the given software version.
func (m *Munger) WithFormatHandler(version string, h FormatHandler) *Munger {
	c := m.clone()
	if c.formatHandlers == nil {
		c.formatHandlers = make(map[string]FormatHandler)
	}
	c.formatHandlers[version] = h
	return c
}

// URIs returns the namespace system the munger was built for.
func (m *Munger) URIs() wikibase.URIs { return m.uris }

// Munge filters batch, the complete statement set of entity entityID, in place
// and returns the retained statements. The result shares batch's backing array,
// holds no duplicates and does not depend on the order of batch.
//
// A statement whose subject cannot be tied to the entity fails the batch with
// an *UnexpectedSubjectError, and an entity data header declaring several
// software versions fails it with a *ConflictingVersionsError. batch is left
// untouched in both cases.
func (m *Munger) Munge(entityID string, batch []rdf.Triple) ([]rdf.Triple, error) {
	if !wikibase.IsEntityID(entityID) {
		return batch, fmt.Errorf("%w: %q", ErrInvalidEntityID, entityID)
	}
	g := m.classify(m.uris.ForEntity(entityID), batch)
	for _, t := range batch {
		if g.subjectKind(t) == subjectUnexpected {
			return batch, &UnexpectedSubjectError{Entity: entityID, Statement: t}
		}
	}

	if len(g.versions) > 1 {
		return batch, &ConflictingVersionsError{Entity: entityID, Versions: g.versions}
	}
	var version string
	var handler FormatHandler
	if len(g.versions) == 1 {
		version = g.versions[0]
		handler = m.formatHandlers[version]
	}

	in := len(batch)
	seen := make(map[rdf.Triple]struct{}, in)
	n := 0
	for _, t := range batch {
		out, keep := m.decide(g, t)
		if !keep {
			continue
		}
		if handler != nil {
			if out, keep = handler.Handle(out); !keep {
				continue
			}
		}
		if _, dup := seen[out]; dup {
			continue
		}
		seen[out] = struct{}{}
		batch[n] = out
		n++
	}
	clear(batch[n:])

	m.logger.Debug("munged entity",
		"entity", entityID,
		"statements", in,
		"retained", n,
		"version", version)
	return batch[:n], nil
}

// decide applies the retention rules to one statement.
func (m *Munger) decide(g *graph, t rdf.Triple) (rdf.Triple, bool) {
	kind := g.subjectKind(t)
	switch kind {
	case subjectForeign, subjectUnexpected:
		return t, false
	case subjectEntityData:
		switch t.P.Value {
		case wikibase.SchemaVersion, wikibase.SchemaDateModified:
			t.S = g.entityIRI
			kind = subjectEntity
		default:
			return t, false
		}
	case subjectSiteLink:
		if m.removeSiteLinks {
			return t, false
		}
	}

	if isExpansionType(t) {
		return t, false
	}
	if kind == subjectEntity {
		if isDuplicateLabel(t.P.Value) {
			return t, false
		}
		if isLabelPredicate(t.P.Value) && !m.acceptLabel(g, t) {
			return t, false
		}
	}
	return t, true
}

// acceptLabel applies the language policies to a label, description or alias.
func (m *Munger) acceptLabel(g *graph, t rdf.Triple) bool {
	lit, ok := t.O.(rdf.Literal)
	if !ok {
		return true
	}
	if m.limitLanguages != nil {
		if _, ok := m.limitLanguages[strings.ToLower(lit.Lang)]; !ok {
			return false
		}
	}
	if g.labels.enabled() && !g.labels.chosen(t.P.Value, lit) {
		return false
	}
	return true
}

// isExpansionType reports the rdf:type marker triples of expanded nodes.
func isExpansionType(t rdf.Triple) bool {
	if t.P.Value != wikibase.RDFType {
		return false
	}
	var class string
	switch o := t.O.(type) {
	case rdf.IRI:
		class = o.Value
	case rdf.Literal:
		class = o.Lexical
	default:
		return false
	}
	switch class {
	case wikibase.Item, wikibase.Statement, wikibase.Reference, wikibase.Value:
		return true
	}
	return false
}
