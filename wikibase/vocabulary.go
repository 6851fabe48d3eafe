package wikibase

// Wikibase ontology.
const (
	// OntologyNamespace is the current wikibase ontology namespace.
	OntologyNamespace = "http://wikiba.se/ontology#"
	// OldOntologyNamespace is the namespace used by early Wikidata dumps.
	OldOntologyNamespace = "http://www.wikidata.org/ontology#"

	Item      = OntologyNamespace + "Item"
	Property  = OntologyNamespace + "Property"
	Statement = OntologyNamespace + "Statement"
	Reference = OntologyNamespace + "Reference"
	Value     = OntologyNamespace + "Value"
	Dump      = OntologyNamespace + "Dump"

	Rank           = OntologyNamespace + "rank"
	BestRank       = OntologyNamespace + "BestRank"
	PreferredRank  = OntologyNamespace + "PreferredRank"
	NormalRank     = OntologyNamespace + "NormalRank"
	DeprecatedRank = OntologyNamespace + "DeprecatedRank"

	WikiGroup = OntologyNamespace + "wikiGroup"

	TimeValue         = OntologyNamespace + "timeValue"
	TimePrecision     = OntologyNamespace + "timePrecision"
	TimeTimezone      = OntologyNamespace + "timeTimezone"
	TimeCalendarModel = OntologyNamespace + "timeCalendarModel"

	// QuantityNormalized links a quantity value node to its value in base units.
	QuantityNormalized = OntologyNamespace + "quantityNormalized"
)

// schema.org.
const (
	SchemaNamespace = "http://schema.org/"

	SchemaAbout           = SchemaNamespace + "about"
	SchemaArticle         = SchemaNamespace + "Article"
	SchemaDataset         = SchemaNamespace + "Dataset"
	SchemaVersion         = SchemaNamespace + "version"
	SchemaDateModified    = SchemaNamespace + "dateModified"
	SchemaSoftwareVersion = SchemaNamespace + "softwareVersion"
	SchemaName            = SchemaNamespace + "name"
	SchemaDescription     = SchemaNamespace + "description"
	SchemaInLanguage      = SchemaNamespace + "inLanguage"
	SchemaIsPartOf        = SchemaNamespace + "isPartOf"
)

// W3C vocabularies.
const (
	RDFType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

	RDFSLabel = "http://www.w3.org/2000/01/rdf-schema#label"

	SKOSPrefLabel = "http://www.w3.org/2004/02/skos/core#prefLabel"
	SKOSAltLabel  = "http://www.w3.org/2004/02/skos/core#altLabel"

	ProvWasDerivedFrom = "http://www.w3.org/ns/prov#wasDerivedFrom"

	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"
	XSDDecimal   = XSDNamespace + "decimal"
	XSDInteger   = XSDNamespace + "integer"
	XSDString    = XSDNamespace + "string"
	XSDDateTime  = XSDNamespace + "dateTime"
)

// GeoSPARQL.
const (
	GeoNamespace = "http://www.opengis.net/ont/geosparql#"
	// WKTLiteral is the datatype of plain WKT points.
	WKTLiteral = GeoNamespace + "wktLiteral"
	// WKTCRSLiteral is the datatype of WKT points whose globe was stripped.
	WKTCRSLiteral = GeoNamespace + "wktCRSLiteral"
)
