package table

import (
	"errors"

	"github.com/dot5enko/lazyframe/schema"
)

var (
	ErrNoSuchColumn       = errors.New("no such column")
	ErrNonContiguousArray = errors.New("array column is not contiguous")
	ErrTypeMismatch       = errors.New("column type mismatch")
	ErrSourceUnavailable  = errors.New("source unavailable")
	ErrNotAnArray         = errors.New("column is not an array")
)

// RowRange is a half open interval of row indices assigned to one worker
type RowRange struct {
	Begin int64
	End   int64
}

func (r RowRange) Len() int64 {
	return r.End - r.Begin
}

// Provider is the input side of the engine: a named table with typed
// per-slot column cursors and a row partitioner.
type Provider interface {
	Name() string
	NumRows() int64
	Schema() *schema.Schema

	// Reader produces the per-slot read state. Cursors obtained from
	// different readers never share mutable state.
	Reader(slot int) (Reader, error)

	// Partition splits the row space into up to nSlots disjoint contiguous
	// ranges covering all rows, in ascending row order.
	Partition(nSlots int) []RowRange
}

type Reader interface {
	Cursor(column string) (Cursor, error)
	Close() error
}

// Cursor reads one column. Value returns the boxed scalar for scalar
// columns, ArrayView the backing slice ([]float64 or []float32) for array
// columns. A view is only valid until the next row is read.
type Cursor interface {
	Type() schema.FieldType
	Value(row int64) (any, error)
	ArrayView(row int64) (any, error)
}

// SplitRows partitions [0, rows) into up to nSlots contiguous ranges
func SplitRows(rows int64, nSlots int) []RowRange {

	if rows <= 0 || nSlots <= 0 {
		return nil
	}

	if int64(nSlots) > rows {
		nSlots = int(rows)
	}

	per := rows / int64(nSlots)
	rem := rows % int64(nSlots)

	result := make([]RowRange, 0, nSlots)

	var off int64
	for i := 0; i < nSlots; i++ {
		size := per
		if int64(i) < rem {
			size++
		}
		result = append(result, RowRange{Begin: off, End: off + size})
		off += size
	}

	return result
}
