package dataset

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/hupe1980/lsh/internal/conv"
	"github.com/hupe1980/lsh/model"
)

// maxVecsDimension bounds the per-record dimension accepted from a header.
const maxVecsDimension = 1 << 24

const readBufferSize = 1 << 20

// ReadFvecs decodes .fvecs records from r. At most limit records are read
// when limit > 0. All records must share one dimension.
func ReadFvecs(r io.Reader, limit int) ([]model.DenseVector, error) {
	var out []model.DenseVector
	err := readVecs(r, "fvecs", limit, func(raw []byte) {
		v := make(model.DenseVector, len(raw)/4)
		for i := range v {
			v[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
		}
		out = append(out, v)
	})
	return out, err
}

// ReadIvecs decodes .ivecs records from r, as used for ground-truth files.
// Unlike ReadFvecs, records may differ in length.
func ReadIvecs(r io.Reader, limit int) ([][]int32, error) {
	var out [][]int32
	err := readVecsVariable(r, "ivecs", limit, func(raw []byte) {
		v := make([]int32, len(raw)/4)
		for i := range v {
			v[i] = int32(binary.LittleEndian.Uint32(raw[4*i:]))
		}
		out = append(out, v)
	})
	return out, err
}

func readVecs(r io.Reader, format string, limit int, emit func([]byte)) error {
	dim := -1
	return scanVecs(r, format, limit, func(record, d int, raw []byte) error {
		if dim < 0 {
			dim = d
		} else if d != dim {
			return formatError(format, record, "dimension %d differs from %d", d, dim)
		}
		emit(raw)
		return nil
	})
}

func readVecsVariable(r io.Reader, format string, limit int, emit func([]byte)) error {
	return scanVecs(r, format, limit, func(_, _ int, raw []byte) error {
		emit(raw)
		return nil
	})
}

// scanVecs walks the records of a vecs stream. raw is reused between calls.
func scanVecs(r io.Reader, format string, limit int, fn func(record, dim int, raw []byte) error) error {
	br := bufio.NewReaderSize(r, readBufferSize)

	var (
		header [4]byte
		raw    []byte
	)
	for record := 0; limit <= 0 || record < limit; record++ {
		if _, err := io.ReadFull(br, header[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return formatError(format, record, "truncated header")
			}
			return err
		}

		dim, err := conv.Uint32ToDimension(binary.LittleEndian.Uint32(header[:]), maxVecsDimension)
		if err != nil {
			return formatError(format, record, "invalid header: %v", err)
		}

		size := 4 * dim
		if cap(raw) < size {
			raw = make([]byte, size)
		}
		raw = raw[:size]
		if _, err := io.ReadFull(br, raw); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return formatError(format, record, "truncated body, want %d values", dim)
			}
			return err
		}

		if err := fn(record, dim, raw); err != nil {
			return err
		}
	}
	return nil
}

// WriteFvecs encodes vectors in .fvecs layout.
func WriteFvecs(w io.Writer, vectors []model.DenseVector) error {
	bw := bufio.NewWriterSize(w, readBufferSize)
	buf := make([]byte, 4)
	for _, v := range vectors {
		binary.LittleEndian.PutUint32(buf, uint32(len(v)))
		if _, err := bw.Write(buf); err != nil {
			return err
		}
		for _, x := range v {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(x))
			if _, err := bw.Write(buf); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WriteIvecs encodes rows in .ivecs layout.
func WriteIvecs(w io.Writer, rows [][]int32) error {
	bw := bufio.NewWriterSize(w, readBufferSize)
	buf := make([]byte, 4)
	for _, row := range rows {
		binary.LittleEndian.PutUint32(buf, uint32(len(row)))
		if _, err := bw.Write(buf); err != nil {
			return err
		}
		for _, x := range row {
			binary.LittleEndian.PutUint32(buf, uint32(x))
			if _, err := bw.Write(buf); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
