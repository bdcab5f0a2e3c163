// Package resource paces query load and dataset IO.
//
// A Controller bounds the number of in-flight queries with a weighted
// semaphore, spaces query starts with a token bucket, and throttles byte
// streams through RateLimitedReader. The zero Config imposes no limits.
//
//	rc := resource.NewController(resource.Config{
//	    MaxInFlight:        8,
//	    QueriesPerSecond:   500,
//	    IOLimitBytesPerSec: 64 << 20,
//	})
//	if err := rc.AcquireQuery(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseQuery()
//
// All methods are safe on a nil *Controller and then impose no limits.
package resource
