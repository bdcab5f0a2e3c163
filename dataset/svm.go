package dataset

import (
	"bufio"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/hupe1980/lsh/model"
)

const maxLineSize = 64 << 20

// ReadSVM decodes sparse points, one per line:
//
//	[label] index:value index:value ...
//
// A leading token without a colon is treated as a label and ignored. Blank
// lines and lines starting with '#' are skipped. Zero values are dropped and
// entries are returned sorted by index. An index may not repeat within a line.
func ReadSVM(r io.Reader, limit int) ([]model.SparseVector, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, readBufferSize), maxLineSize)

	var out []model.SparseVector
	record := 0
	for sc.Scan() {
		if limit > 0 && record >= limit {
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		v, err := parseSVMLine(line, record)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		record++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseSVMLine(line string, record int) (model.SparseVector, error) {
	fields := strings.Fields(line)
	if len(fields) > 0 && !strings.Contains(fields[0], ":") {
		fields = fields[1:]
	}

	v := make(model.SparseVector, 0, len(fields))
	for _, f := range fields {
		idxStr, valStr, ok := strings.Cut(f, ":")
		if !ok {
			return nil, formatError("svm", record, "entry %q is not index:value", f)
		}
		idx, err := strconv.ParseInt(idxStr, 10, 32)
		if err != nil || idx < 0 {
			return nil, formatError("svm", record, "invalid index %q", idxStr)
		}
		val, err := strconv.ParseFloat(valStr, 32)
		if err != nil {
			return nil, formatError("svm", record, "invalid value %q", valStr)
		}
		if val == 0 {
			continue
		}
		v = append(v, model.SparseEntry{Index: int32(idx), Value: float32(val)})
	}

	slices.SortFunc(v, func(a, b model.SparseEntry) int {
		return int(a.Index) - int(b.Index)
	})
	for i := 1; i < len(v); i++ {
		if v[i].Index == v[i-1].Index {
			return nil, formatError("svm", record, "duplicate index %d", v[i].Index)
		}
	}
	return v, nil
}

// WriteSVM encodes sparse points one per line. Each line carries a 0 label
// so that points without entries survive a round trip.
func WriteSVM(w io.Writer, vectors []model.SparseVector) error {
	bw := bufio.NewWriterSize(w, readBufferSize)
	var buf []byte
	for _, v := range vectors {
		buf = append(buf[:0], '0')
		for _, e := range v {
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(e.Index), 10)
			buf = append(buf, ':')
			buf = strconv.AppendFloat(buf, float64(e.Value), 'g', -1, 32)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}
