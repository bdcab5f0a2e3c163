package s3

import (
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type options struct {
	prefix      string
	client      Client
	loadOptions []func(*config.LoadOptions) error
	s3Options   []func(*s3.Options)
	partSize    int64
	concurrency int
}

// Option configures New.
type Option func(*options)

// WithPrefix sets the key prefix prepended to every blob name.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(o *options) {
		o.loadOptions = append(o.loadOptions, config.WithRegion(region))
	}
}

// WithSharedConfigProfile selects a named profile from the shared config files.
func WithSharedConfigProfile(profile string) Option {
	return func(o *options) {
		o.loadOptions = append(o.loadOptions, config.WithSharedConfigProfile(profile))
	}
}

// WithEndpoint points the client at an S3-compatible endpoint using
// path-style addressing.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.s3Options = append(o.s3Options, func(so *s3.Options) {
			so.BaseEndpoint = &endpoint
			so.UsePathStyle = true
		})
	}
}

// WithClient uses the given client instead of loading the default config.
func WithClient(client Client) Option {
	return func(o *options) { o.client = client }
}

// WithPartSize sets the part size for parallel downloads.
func WithPartSize(n int64) Option {
	return func(o *options) { o.partSize = n }
}

// WithConcurrency sets the number of parallel part downloads.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = n }
}
