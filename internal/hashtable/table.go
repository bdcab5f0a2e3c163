package hashtable

import (
	"fmt"
	"iter"

	"github.com/hupe1980/lsh/model"
)

// Table maps buckets to the keys hashed into them.
type Table interface {
	// Lookup yields the keys stored in bucket. An absent bucket yields
	// nothing.
	Lookup(bucket uint64) iter.Seq[model.Key]
	// Len returns the number of stored keys.
	Len() int
	// NumBuckets returns the number of non-empty buckets.
	NumBuckets() int
}

// Backend builds tables.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string
	// Build returns a table in which key i is stored in bucket hashes[i].
	Build(hashes []uint64) (Table, error)
}

// ErrTooManyKeys is returned when a table would hold more keys than a
// model.Key can address.
type ErrTooManyKeys struct {
	Count int
}

func (e *ErrTooManyKeys) Error() string {
	return fmt.Sprintf("too many keys: %d exceeds %d", e.Count, uint64(model.MaxKey)+1)
}

func checkKeyCount(n int) error {
	if uint64(n) > uint64(model.MaxKey)+1 {
		return &ErrTooManyKeys{Count: n}
	}
	return nil
}

// Kind selects a built-in backend.
type Kind int

const (
	KindLinearProbing Kind = iota
	KindRoaring
)

func (k Kind) String() string {
	switch k {
	case KindLinearProbing:
		return "linear-probing"
	case KindRoaring:
		return "roaring"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// ParseKind parses the name of a built-in backend.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "linear-probing", "linear_probing", "":
		return KindLinearProbing, nil
	case "roaring":
		return KindRoaring, nil
	default:
		return 0, fmt.Errorf("unknown hash table backend %q", s)
	}
}

// New returns the built-in backend of the given kind.
func New(k Kind) (Backend, error) {
	switch k {
	case KindLinearProbing:
		return LinearProbing{}, nil
	case KindRoaring:
		return Roaring{}, nil
	default:
		return nil, fmt.Errorf("unknown hash table backend %v", k)
	}
}
