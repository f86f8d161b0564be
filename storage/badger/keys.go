package badger

// Key prefixes for different data types
const (
	activityEmbeddingPrefix = "actemb"
	indexFingerprintKey     = "actidx:fp"
)

// makeEmbeddingKey generates a key for an activity embedding by label.
// Labels are unique within the catalog, so they serve as primary keys.
func makeEmbeddingKey(label string) []byte {
	return []byte(activityEmbeddingPrefix + ":" + label)
}
