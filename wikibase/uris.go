package wikibase

import (
	"regexp"
	"strings"
)

// DefaultRoot is the host root of the Wikidata namespaces.
const DefaultRoot = "http://www.wikidata.org"

// PropertyType selects one of the per-property namespaces.
type PropertyType int

const (
	// PropertyClaim is the entity to statement node edge (p:).
	PropertyClaim PropertyType = iota
	// PropertyDirect is the truthy direct edge (wdt:).
	PropertyDirect
	// PropertyStatement is the simple value on a statement node (ps:).
	PropertyStatement
	// PropertyStatementValue links a statement node to a value node (psv:).
	PropertyStatementValue
	// PropertyQualifier is a simple qualifier value (pq:).
	PropertyQualifier
	// PropertyQualifierValue links a qualifier to a value node (pqv:).
	PropertyQualifierValue
	// PropertyReference is a simple reference value (pr:).
	PropertyReference
	// PropertyReferenceValue links a reference node to a value node (prv:).
	PropertyReferenceValue
	// PropertyNoValue is the class of "no value" statements (wdno:).
	PropertyNoValue
	// PropertyStatementValueNormalized links a statement node to a
	// normalized value node (psn:).
	PropertyStatementValueNormalized
	// PropertyQualifierValueNormalized links a qualifier to a normalized
	// value node (pqn:).
	PropertyQualifierValueNormalized
	// PropertyReferenceValueNormalized links a reference node to a
	// normalized value node (prn:).
	PropertyReferenceValueNormalized
)

var propertyPaths = map[PropertyType]string{
	PropertyClaim:          "prop/",
	PropertyDirect:         "prop/direct/",
	PropertyStatement:      "prop/statement/",
	PropertyStatementValue: "prop/statement/value/",
	PropertyQualifier:      "prop/qualifier/",
	PropertyQualifierValue: "prop/qualifier/value/",
	PropertyReference:      "prop/reference/",
	PropertyReferenceValue: "prop/reference/value/",
	PropertyNoValue:        "prop/novalue/",

	PropertyStatementValueNormalized: "prop/statement/value-normalized/",
	PropertyQualifierValueNormalized: "prop/qualifier/value-normalized/",
	PropertyReferenceValueNormalized: "prop/reference/value-normalized/",
}

// propertyTypes lists property types longest path first so prefix matching
// picks the most specific namespace.
var propertyTypes = []PropertyType{
	PropertyStatementValueNormalized,
	PropertyQualifierValueNormalized,
	PropertyReferenceValueNormalized,
	PropertyStatementValue,
	PropertyQualifierValue,
	PropertyReferenceValue,
	PropertyStatement,
	PropertyQualifier,
	PropertyReference,
	PropertyDirect,
	PropertyNoValue,
	PropertyClaim,
}

var entityIDPattern = regexp.MustCompile(`^[A-Z][1-9][0-9]*(-[A-Z][1-9][0-9]*)?$`)

// IsEntityID reports whether s has the shape of a canonical entity id
// such as Q23, P31 or L5-F1.
func IsEntityID(s string) bool {
	return entityIDPattern.MatchString(s)
}

// URIs is the namespace system of one wikibase installation.
// It is an immutable value and safe for concurrent use.
type URIs struct {
	root       string
	entity     string
	entityData string
	statement  string
	value      string
	reference  string
}

// NewURIs builds the namespace system rooted at root, e.g. "http://www.wikidata.org".
func NewURIs(root string) URIs {
	root = strings.TrimRight(root, "/")
	return URIs{
		root:       root,
		entity:     root + "/entity/",
		entityData: root + "/wiki/Special:EntityData/",
		statement:  root + "/entity/statement/",
		value:      root + "/value/",
		reference:  root + "/reference/",
	}
}

// DefaultURIs returns the Wikidata namespace system.
func DefaultURIs() URIs {
	return NewURIs(DefaultRoot)
}

// Root returns the host root.
func (u URIs) Root() string { return u.root }

// Entity returns the entity namespace.
func (u URIs) Entity() string { return u.entity }

// EntityData returns the entity data namespace.
func (u URIs) EntityData() string { return u.entityData }

// Statement returns the statement node namespace.
func (u URIs) Statement() string { return u.statement }

// Value returns the value node namespace.
func (u URIs) Value() string { return u.value }

// Reference returns the reference node namespace.
func (u URIs) Reference() string { return u.reference }

// Property returns the namespace of the given property type.
func (u URIs) Property(t PropertyType) string {
	return u.root + "/" + propertyPaths[t]
}

var valuePropertyTypes = []PropertyType{
	PropertyStatementValue,
	PropertyQualifierValue,
	PropertyReferenceValue,
	PropertyStatementValueNormalized,
	PropertyQualifierValueNormalized,
	PropertyReferenceValueNormalized,
}

// IsValuePredicate reports whether predicate links a statement, reference or
// value node to a value node.
func (u URIs) IsValuePredicate(predicate string) bool {
	if predicate == QuantityNormalized || strings.HasPrefix(predicate, u.value) {
		return true
	}
	for _, t := range valuePropertyTypes {
		if strings.HasPrefix(predicate, u.Property(t)) {
			return true
		}
	}
	return false
}

// PropertyLocalName splits iri into its property type and local name when it
// lives in one of the property namespaces.
func (u URIs) PropertyLocalName(iri string) (PropertyType, string, bool) {
	for _, t := range propertyTypes {
		if local, ok := strings.CutPrefix(iri, u.Property(t)); ok {
			return t, local, true
		}
	}
	return 0, "", false
}

// ForEntity derives the per-entity IRIs of id.
func (u URIs) ForEntity(id string) EntityURIs {
	return EntityURIs{
		ID:            id,
		EntityIRI:     u.entity + id,
		EntityDataIRI: u.entityData + id,
		URIs:          u,
	}
}

// EntityURIs holds the IRIs derived from one entity id.
type EntityURIs struct {
	URIs
	// ID is the canonical entity id, e.g. "Q23".
	ID string
	// EntityIRI is the entity IRI.
	EntityIRI string
	// EntityDataIRI is the IRI of the entity's data document.
	EntityDataIRI string
}

// PropertyIRI returns the IRI of this entity in the given property namespace.
// Only meaningful when the entity is a property.
func (e EntityURIs) PropertyIRI(t PropertyType) string {
	return e.Property(t) + e.ID
}
