// Package nnquery turns probe sequences into candidate sets and ranks them
// against a query point.
//
// A Query is bound to one hash function, one composite hash table and one
// point store. It is safe for concurrent use: per-call scratch space comes
// from a pool and statistics are accumulated with atomics.
package nnquery
