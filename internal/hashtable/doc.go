// Package hashtable provides the static per-repetition hash tables and the
// composite view the LSH tables query through.
//
// Tables are built once from the bucket of every key and are read-only
// afterwards, so lookups are safe for concurrent use.
//
// # Backends
//
//   - LinearProbing: open addressing over distinct buckets; every bucket
//     points at a contiguous run of keys. Capacity is 2·n rounded up to a
//     power of two.
//   - Roaring: one compressed bitmap per bucket.
package hashtable
