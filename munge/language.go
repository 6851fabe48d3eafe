package munge

import (
	"strings"

	"github.com/geoknoesis/rdf-munge/rdf"
	"github.com/geoknoesis/rdf-munge/wikibase"
)

// isLabelPredicate reports whether language policies apply to predicate.
func isLabelPredicate(predicate string) bool {
	switch predicate {
	case wikibase.RDFSLabel, wikibase.SchemaDescription, wikibase.SKOSAltLabel:
		return true
	}
	return false
}

// isDuplicateLabel reports predicates that only repeat rdfs:label.
func isDuplicateLabel(predicate string) bool {
	return predicate == wikibase.SKOSPrefLabel || predicate == wikibase.SchemaName
}

func normalizeLanguages(langs []string) []string {
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			out = append(out, l)
		}
	}
	return out
}

type labelCandidate struct {
	rank    int
	literal rdf.Literal
}

// labelChoice picks the single literal kept per label predicate in single
// label mode. Only literals in the limited languages compete. The candidate
// with the best language rank wins; ties go to the lexically smallest literal
// so the pick does not depend on input order.
type labelChoice struct {
	rank  map[string]int
	limit map[string]struct{}
	best  map[string]labelCandidate
}

func newLabelChoice(priority []string, limit map[string]struct{}) labelChoice {
	c := labelChoice{limit: limit}
	if len(priority) == 0 {
		return c
	}
	c.rank = make(map[string]int, len(priority))
	for i, lang := range priority {
		if _, dup := c.rank[lang]; !dup {
			c.rank[lang] = i
		}
	}
	c.best = make(map[string]labelCandidate, 3)
	return c
}

func (c labelChoice) enabled() bool { return c.rank != nil }

func (c labelChoice) offer(predicate string, lit rdf.Literal) {
	if !c.enabled() || lit.Lang == "" || !isLabelPredicate(predicate) {
		return
	}
	lang := strings.ToLower(lit.Lang)
	rank, ok := c.rank[lang]
	if !ok {
		return
	}
	if _, allowed := c.limit[lang]; c.limit != nil && !allowed {
		return
	}
	current, seen := c.best[predicate]
	if !seen || rank < current.rank || (rank == current.rank && literalLess(lit, current.literal)) {
		c.best[predicate] = labelCandidate{rank: rank, literal: lit}
	}
}

// chosen reports whether lit is the pick for predicate.
func (c labelChoice) chosen(predicate string, lit rdf.Literal) bool {
	best, ok := c.best[predicate]
	return ok && best.literal == lit
}

func literalLess(a, b rdf.Literal) bool {
	if a.Lexical != b.Lexical {
		return a.Lexical < b.Lexical
	}
	return a.Lang < b.Lang
}
