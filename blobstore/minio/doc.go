// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible servers (Ceph, SeaweedFS,
// Garage) without pulling in the AWS SDK.
//
// # Basic Usage
//
//	store, err := minioblob.Dial("localhost:9000", "datasets",
//	    minioblob.WithCredentials("minioadmin", "minioadmin"),
//	    minioblob.WithPrefix("ann/"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	base, err := dataset.LoadDense(ctx, store, "sift/sift_base.fvecs")
//
// An existing *minio.Client can be wrapped with NewStore.
package minio
