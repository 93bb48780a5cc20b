// Package cache keeps file-based snapshots of fetched collections.
//
// Each snapshot is a JSON file named after a SHA256 key derived from the
// user, the base URL and the collection. Fresh entries may be served
// directly; expired entries are kept so a failed fetch can fall back to the
// last known data. The store is bounded by a size limit and evicts the
// oldest entries first.
package cache
