// Package vectorstore maintains the embedded chunk corpus and its flat
// cosine-similarity index.
//
// The index is rebuilt from scratch on every corpus mutation and the
// corpus is persisted wholesale alongside it. This trades O(corpus)
// mutation cost for a durable artifact that is always exactly derivable
// from the in-memory state: no tombstones, no incremental merge drift,
// and no re-embedding needed after a restart.
package vectorstore
