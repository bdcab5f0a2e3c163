package conv

import (
	"errors"
	"fmt"

	"github.com/hupe1980/lsh/model"
)

// ErrOverflow is wrapped by every conversion error.
var ErrOverflow = errors.New("conv: integer overflow")

func overflow(v any, target string) error {
	return fmt.Errorf("%w: %v does not fit in %s", ErrOverflow, v, target)
}

// IntToKey converts a point position to a model.Key.
func IntToKey(v int) (model.Key, error) {
	if v < 0 || uint64(v) > uint64(model.MaxKey) {
		return 0, overflow(v, "model.Key")
	}
	return model.Key(v), nil
}

// Int32ToKey converts an id read from a ground-truth file to a model.Key.
func Int32ToKey(v int32) (model.Key, error) {
	if v < 0 {
		return 0, overflow(v, "model.Key")
	}
	return model.Key(v), nil
}

// Uint32ToDimension converts a little-endian record header to a dimension,
// rejecting zero, negative-as-signed and values above limit.
func Uint32ToDimension(v uint32, limit int) (int, error) {
	d := int32(v)
	if d <= 0 || int(d) > limit {
		return 0, fmt.Errorf("%w: dimension %d outside [1, %d]", ErrOverflow, d, limit)
	}
	return int(d), nil
}
