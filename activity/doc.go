// Package activity maintains the semantic activity index and resolves
// free-text activity descriptions against it.
//
// The Indexer embeds every catalog activity label once and persists the
// vectors with a fingerprint of the label list and embedding model; the
// index is rebuilt only when the fingerprint changes. The Matcher embeds a
// query description and ranks indexed labels by cosine similarity.
package activity
