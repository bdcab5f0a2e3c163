package main

import (
	"context"
	"fmt"

	"github.com/hupe1980/lsh/blobstore"
	minioblob "github.com/hupe1980/lsh/blobstore/minio"
	s3blob "github.com/hupe1980/lsh/blobstore/s3"
)

// openStore builds the blob store described by sc.
func openStore(ctx context.Context, sc StoreConfig) (blobstore.BlobStore, error) {
	switch sc.Type {
	case "local":
		return blobstore.NewLocalStore(sc.Path), nil
	case "s3":
		opts := []s3blob.Option{s3blob.WithPrefix(sc.Prefix)}
		if sc.Region != "" {
			opts = append(opts, s3blob.WithRegion(sc.Region))
		}
		if sc.Profile != "" {
			opts = append(opts, s3blob.WithSharedConfigProfile(sc.Profile))
		}
		if sc.Endpoint != "" {
			opts = append(opts, s3blob.WithEndpoint(sc.Endpoint))
		}
		return s3blob.New(ctx, sc.Bucket, opts...)
	case "minio":
		opts := []minioblob.DialOption{
			minioblob.WithPrefix(sc.Prefix),
			minioblob.WithCredentials(sc.AccessKey, sc.SecretKey),
			minioblob.WithSecure(sc.Secure),
		}
		if sc.Region != "" {
			opts = append(opts, minioblob.WithRegion(sc.Region))
		}
		return minioblob.Dial(sc.Endpoint, sc.Bucket, opts...)
	default:
		return nil, fmt.Errorf("unknown store type %q", sc.Type)
	}
}
