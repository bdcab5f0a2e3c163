package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies a stream compression format.
type Compression int

const (
	// CompressionNone reads the stream as is.
	CompressionNone Compression = iota
	// CompressionLZ4 is the LZ4 frame format (.lz4).
	CompressionLZ4
	// CompressionZstd is the Zstandard frame format (.zst, .zstd).
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

// DetectCompression returns the compression implied by the file name suffix
// and the name with that suffix removed.
func DetectCompression(name string) (Compression, string) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".zst"):
		return CompressionZstd, name[:len(name)-len(".zst")]
	case strings.HasSuffix(lower, ".zstd"):
		return CompressionZstd, name[:len(name)-len(".zstd")]
	case strings.HasSuffix(lower, ".lz4"):
		return CompressionLZ4, name[:len(name)-len(".lz4")]
	default:
		return CompressionNone, name
	}
}

// NewDecompressor wraps r so that reads return decompressed bytes.
// Closing the result does not close r.
func NewDecompressor(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionNone:
		return io.NopCloser(r), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("dataset: unsupported compression %v", c)
	}
}

// NewCompressor wraps w so that writes are compressed. Close flushes the
// compressed stream but does not close w.
func NewCompressor(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionZstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	default:
		return nil, fmt.Errorf("dataset: unsupported compression %v", c)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
