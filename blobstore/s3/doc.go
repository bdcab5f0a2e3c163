// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("datasets/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	base, err := dataset.LoadDense(ctx, store, "sift/sift_base.fvecs")
//
// # Features
//
//   - Range reads for partial fetches
//   - Parallel ranged downloads for whole-object reads
//   - Automatic pagination for listing
//   - Configurable prefix for shared buckets
package s3
