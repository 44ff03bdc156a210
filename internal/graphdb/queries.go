package graphdb

const (
	ClassesQuery = `
		MATCH (:Resource)-[:STATEMENT {predicate: $rdf_type}]->(c:Resource)
		RETURN DISTINCT c.uri AS class
		ORDER BY class
	`

	RelationsQuery = `
		MATCH (i:Resource)-[:STATEMENT {predicate: $rdf_type}]->(:Resource {uri: $class})
		MATCH (i)-[r:STATEMENT]->(:Resource)-[:STATEMENT {predicate: $rdf_type}]->(o:Resource)
		RETURN DISTINCT r.predicate AS predicate, o.uri AS target, 'class' AS kind
		UNION
		MATCH (i:Resource)-[:STATEMENT {predicate: $rdf_type}]->(:Resource {uri: $class})
		MATCH (i)-[r:STATEMENT]->(l:Literal)
		RETURN DISTINCT r.predicate AS predicate,
			coalesce(l.datatype, CASE WHEN coalesce(l.lang, '') = '' THEN $xsd_string ELSE $lang_string END) AS target,
			'literal' AS kind
	`

	LabelQuery = `
		MATCH (:Resource {uri: $uri})-[:STATEMENT {predicate: $rdfs_label}]->(l:Literal)
		WITH l.value AS label, coalesce(l.lang, '') AS lang
		RETURN label
		ORDER BY CASE WHEN lang = '' OR lang STARTS WITH 'en' THEN 0 ELSE 1 END, label
		LIMIT 1
	`

	SaveResourceStatementsQuery = `
		UNWIND $rows AS row
		MERGE (s:Resource {uri: row.s})
		MERGE (o:Resource {uri: row.o})
		MERGE (s)-[:STATEMENT {predicate: row.p}]->(o)
	`

	SaveLiteralStatementsQuery = `
		UNWIND $rows AS row
		MERGE (s:Resource {uri: row.s})
		MERGE (l:Literal {value: row.v, datatype: row.dt, lang: row.lang})
		MERGE (s)-[:STATEMENT {predicate: row.p}]->(l)
	`
)

// IndexQueries are run before a bulk import. Memgraph rejects the
// IF NOT EXISTS form, so failures are logged and ignored.
var IndexQueries = []string{
	"CREATE INDEX ON :Resource(uri);",
	"CREATE INDEX ON :Literal(value);",
}
