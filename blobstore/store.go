package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
var ErrNotFound = os.ErrNotExist

// ErrClosed is returned when reading from a closed blob.
var ErrClosed = errors.New("blobstore: blob closed")

// BlobStore opens immutable blobs by name.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// List returns the names of all blobs with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a readable, immutable byte sequence.
type Blob interface {
	io.Closer
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	Size() int64
}

// Mappable is implemented by blobs whose contents are available as a
// contiguous byte slice. The slice is valid until the blob is closed.
type Mappable interface {
	Bytes() ([]byte, error)
}

// Fetcher is implemented by remote blobs that can download their whole
// contents at once, typically with parallel ranged requests.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// RangeReader is implemented by blobs that can stream a byte range.
type RangeReader interface {
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
}

// NewReader returns a sequential reader over the whole blob. It prefers
// Bytes, then Fetch, then ReadRange, and falls back to chunked ReadAt calls.
// Closing the reader does not close the blob.
func NewReader(ctx context.Context, b Blob) (io.ReadCloser, error) {
	if m, ok := b.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	if f, ok := b.(Fetcher); ok {
		data, err := f.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	if rr, ok := b.(RangeReader); ok {
		if b.Size() == 0 {
			return io.NopCloser(bytes.NewReader(nil)), nil
		}
		return rr.ReadRange(ctx, 0, b.Size())
	}
	return io.NopCloser(io.NewSectionReader(&readerAt{ctx: ctx, b: b}, 0, b.Size())), nil
}

// readerAt adapts a Blob to io.ReaderAt by binding a context.
type readerAt struct {
	ctx context.Context
	b   Blob
}

func (r *readerAt) ReadAt(p []byte, off int64) (int, error) {
	return r.b.ReadAt(r.ctx, p, off)
}
