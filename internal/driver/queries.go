package driver

// Every persisted record is a DeepMemoryRecord node whose properties are the
// record fields plus the owning collection and its position in it.
const RecordLabel = "DeepMemoryRecord"

var IndexQueries = []string{
	"CREATE INDEX ON :DeepMemoryRecord(collection);",
	"CREATE INDEX ON :DeepMemoryRecord(collection, position);",
}

const (
	LoadCollectionQuery = `
		MATCH (r:DeepMemoryRecord {collection: $collection})
		RETURN properties(r) AS props
		ORDER BY r.position
	`

	DropCollectionQuery = `
		MATCH (r:DeepMemoryRecord {collection: $collection})
		DETACH DELETE r
	`

	// Runs as one transaction: the old collection is gone only if the new one
	// was written. Expects $records as a list of maps carrying position.
	ReplaceCollectionQuery = `
		OPTIONAL MATCH (old:DeepMemoryRecord {collection: $collection})
		DETACH DELETE old
		WITH count(*) AS cleared
		UNWIND $records AS rec
		CREATE (r:DeepMemoryRecord)
		SET r = rec, r.collection = $collection
	`
)
