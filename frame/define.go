package frame

import (
	"reflect"

	"github.com/dot5enko/lazyframe/schema"
	"github.com/dot5enko/lazyframe/table"
)

type defineSlotState struct {
	lastRow int64
	value   any

	bound []boundColumn
	args  []reflect.Value
}

type defineNode struct {
	prev chainNode
	name string
	fn   reflect.Value

	outType     reflect.Type
	fieldType   schema.FieldType
	fieldTypeOk bool

	bindings []columnBinding
	slots    []defineSlotState
}

func (d *defineNode) createSlots(n int) {
	d.slots = make([]defineSlotState, n)
	for i := range d.slots {
		d.slots[i].lastRow = -1
		d.slots[i].args = make([]reflect.Value, len(d.bindings))
	}
}

func (d *defineNode) bindReaders(slot int, r table.Reader) error {
	bound, err := bindColumns(d.bindings, r)
	if err != nil {
		return err
	}
	d.slots[slot].bound = bound
	return nil
}

// value evaluates the expression at most once per (slot, row); every
// same-row consumer receives the identical cached result
func (d *defineNode) value(slot int, row int64) (any, error) {

	st := &d.slots[slot]

	if st.lastRow == row {
		return st.value, nil
	}

	if err := buildArgs(st.args, st.bound, d.fn.Type(), 0, slot, row); err != nil {
		return nil, err
	}

	res, callErr := callUser(d.fn, st.args)
	if callErr != nil {
		return nil, callErr
	}

	st.value = res[0].Interface()
	st.lastRow = row

	return st.value, nil
}

// checkFilters just forwards to the previous node in the chain
func (d *defineNode) checkFilters(slot int, row int64) (bool, error) {
	return d.prev.checkFilters(slot, row)
}

func (d *defineNode) collectStats(out *[]FilterStats) {
	d.prev.collectStats(out)
}
