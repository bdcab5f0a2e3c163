package hashtable

import (
	"fmt"
	"iter"

	"github.com/hupe1980/lsh/model"
)

// Composite combines one table per repetition.
type Composite struct {
	tables []Table
}

// NewComposite creates a composite view over tables; tables[i] serves
// repetition i.
func NewComposite(tables []Table) (*Composite, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("composite table needs at least one table")
	}
	return &Composite{tables: tables}, nil
}

// L returns the number of repetitions.
func (c *Composite) L() int { return len(c.tables) }

// Table returns the table of repetition i.
func (c *Composite) Table(i int) Table { return c.tables[i] }

// Candidates yields the keys of every probed bucket in probe order. A key
// stored in several probed buckets is yielded once per bucket.
func (c *Composite) Candidates(probes []model.Probe) iter.Seq[model.Key] {
	return func(yield func(model.Key) bool) {
		for _, p := range probes {
			for key := range c.tables[p.Table].Lookup(p.Bucket) {
				if !yield(key) {
					return
				}
			}
		}
	}
}
