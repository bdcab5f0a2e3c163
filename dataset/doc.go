// Package dataset loads benchmark datasets for LSH tables.
//
// Supported formats:
//
//   - .fvecs: little-endian records of an int32 dimension followed by that
//     many float32 values (dense points)
//   - .ivecs: the same layout with int32 values (ground-truth neighbor ids)
//   - .svm / .libsvm: one sparse point per line, an optional label followed
//     by index:value pairs
//
// Any of these may carry a .zst or .lz4 suffix and is decompressed while
// reading. Files are read from a blobstore.BlobStore, so datasets can live on
// local disk, in memory, or in S3-compatible object storage.
//
//	store := blobstore.NewLocalStore("/data/ann")
//	base, err := dataset.LoadDense(ctx, store, "sift/sift_base.fvecs.zst",
//	    dataset.WithNormalize())
package dataset
