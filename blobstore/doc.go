// Package blobstore provides read access to dataset blobs.
//
// BlobStore opens named blobs from a local directory, memory, or an object
// store. Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with mmap support
//   - MemoryStore: in-memory blobs, mainly for tests
//   - s3.Store: Amazon S3 with range reads and parallel downloads
//   - minio.Store: MinIO and other S3-compatible servers
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Remote backends should implement RangeReader so sequential consumers can
// stream a blob instead of issuing one request per ReadAt.
package blobstore
