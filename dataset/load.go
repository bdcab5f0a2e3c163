package dataset

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/hupe1980/lsh/blobstore"
	"github.com/hupe1980/lsh/distance"
	"github.com/hupe1980/lsh/model"
)

// Format identifies a dataset file layout.
type Format int

const (
	FormatUnknown Format = iota
	FormatFvecs
	FormatIvecs
	FormatSVM
)

func (f Format) String() string {
	switch f {
	case FormatFvecs:
		return "fvecs"
	case FormatIvecs:
		return "ivecs"
	case FormatSVM:
		return "svm"
	default:
		return "unknown"
	}
}

// DetectFormat returns the layout and compression implied by a file name,
// for example "base.fvecs.zst" is FormatFvecs with CompressionZstd.
func DetectFormat(name string) (Format, Compression) {
	c, stripped := DetectCompression(name)
	switch strings.ToLower(path.Ext(stripped)) {
	case ".fvecs":
		return FormatFvecs, c
	case ".ivecs":
		return FormatIvecs, c
	case ".svm", ".libsvm":
		return FormatSVM, c
	default:
		return FormatUnknown, c
	}
}

type loadOptions struct {
	limit     int
	normalize bool
	wrap      func(io.Reader) io.Reader
}

// LoadOption configures the Load functions.
type LoadOption func(*loadOptions)

// WithLimit reads at most n records. n <= 0 reads everything.
func WithLimit(n int) LoadOption {
	return func(o *loadOptions) { o.limit = n }
}

// WithNormalize L2-normalizes every loaded point. Points with zero norm are
// left unchanged.
func WithNormalize() LoadOption {
	return func(o *loadOptions) { o.normalize = true }
}

// WithReaderWrapper applies fn to the decompressed stream before decoding,
// for example to throttle or count bytes.
func WithReaderWrapper(fn func(io.Reader) io.Reader) LoadOption {
	return func(o *loadOptions) { o.wrap = fn }
}

func applyLoadOptions(optFns []LoadOption) loadOptions {
	o := loadOptions{}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// Open returns a decompressed sequential reader over the named blob.
func Open(ctx context.Context, store blobstore.BlobStore, name string) (io.ReadCloser, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", name, err)
	}

	raw, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		_ = blob.Close()
		return nil, fmt.Errorf("dataset: read %s: %w", name, err)
	}

	c, _ := DetectCompression(name)
	dec, err := NewDecompressor(raw, c)
	if err != nil {
		_ = raw.Close()
		_ = blob.Close()
		return nil, fmt.Errorf("dataset: %s decoder for %s: %w", c, name, err)
	}

	return &stackedReader{ReadCloser: dec, closers: []io.Closer{raw, blob}}, nil
}

// stackedReader closes the decoder and then every underlying layer.
type stackedReader struct {
	io.ReadCloser
	closers []io.Closer
}

func (r *stackedReader) Close() error {
	err := r.ReadCloser.Close()
	for _, c := range r.closers {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func expectFormat(name string, want Format) error {
	if got, _ := DetectFormat(name); got != want {
		return fmt.Errorf("%w: %s is %v, want %v", ErrUnknownFormat, name, got, want)
	}
	return nil
}

func load[T any](ctx context.Context, store blobstore.BlobStore, name string, want Format, o loadOptions, read func(io.Reader) ([]T, error)) ([]T, error) {
	if err := expectFormat(name, want); err != nil {
		return nil, err
	}
	r, err := Open(ctx, store, name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var src io.Reader = r
	if o.wrap != nil {
		src = o.wrap(r)
	}
	out, err := read(src)
	if err != nil {
		return nil, fmt.Errorf("dataset: load %s: %w", name, err)
	}
	return out, nil
}

// LoadDense reads an .fvecs file.
func LoadDense(ctx context.Context, store blobstore.BlobStore, name string, optFns ...LoadOption) ([]model.DenseVector, error) {
	o := applyLoadOptions(optFns)
	vs, err := load(ctx, store, name, FormatFvecs, o, func(r io.Reader) ([]model.DenseVector, error) {
		return ReadFvecs(r, o.limit)
	})
	if err != nil {
		return nil, err
	}
	if o.normalize {
		for _, v := range vs {
			distance.NormalizeDense(v)
		}
	}
	return vs, nil
}

// LoadSparse reads an .svm file.
func LoadSparse(ctx context.Context, store blobstore.BlobStore, name string, optFns ...LoadOption) ([]model.SparseVector, error) {
	o := applyLoadOptions(optFns)
	vs, err := load(ctx, store, name, FormatSVM, o, func(r io.Reader) ([]model.SparseVector, error) {
		return ReadSVM(r, o.limit)
	})
	if err != nil {
		return nil, err
	}
	if o.normalize {
		for _, v := range vs {
			distance.NormalizeSparse(v)
		}
	}
	return vs, nil
}

// LoadGroundTruth reads an .ivecs file of neighbor ids.
func LoadGroundTruth(ctx context.Context, store blobstore.BlobStore, name string, optFns ...LoadOption) ([][]int32, error) {
	o := applyLoadOptions(optFns)
	return load(ctx, store, name, FormatIvecs, o, func(r io.Reader) ([][]int32, error) {
		return ReadIvecs(r, o.limit)
	})
}
