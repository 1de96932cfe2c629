package frame

import (
	"reflect"

	"github.com/dot5enko/lazyframe/table"
)

// tri-state per row memo; int8 instead of bool so parallel slots can
// mutate their entries without the pitfalls of packed bool storage
const (
	memoNone int8 = iota
	memoFail
	memoPass
)

type filterSlotState struct {
	lastRow int64
	memo    int8

	accepted uint64
	rejected uint64

	bound []boundColumn
	args  []reflect.Value
}

type filterNode struct {
	prev chainNode
	fn   reflect.Value
	name string

	bindings []columnBinding
	slots    []filterSlotState
}

func (f *filterNode) createSlots(n int) {
	f.slots = make([]filterSlotState, n)
	for i := range f.slots {
		f.slots[i].lastRow = -1
		f.slots[i].args = make([]reflect.Value, len(f.bindings))
	}
}

func (f *filterNode) bindReaders(slot int, r table.Reader) error {
	bound, err := bindColumns(f.bindings, r)
	if err != nil {
		return err
	}
	f.slots[slot].bound = bound
	return nil
}

func (f *filterNode) checkFilters(slot int, row int64) (bool, error) {

	st := &f.slots[slot]

	if st.lastRow == row && st.memo != memoNone {
		return st.memo == memoPass, nil
	}

	passedUpstream, upErr := f.prev.checkFilters(slot, row)
	if upErr != nil {
		return false, upErr
	}

	if !passedUpstream {
		// a filter upstream rejected the row, cache without evaluating
		st.memo = memoFail
	} else {
		passed, evalErr := f.eval(slot, row)
		if evalErr != nil {
			return false, evalErr
		}

		if passed {
			st.accepted++
			st.memo = memoPass
		} else {
			st.rejected++
			st.memo = memoFail
		}
	}

	st.lastRow = row
	return st.memo == memoPass, nil
}

func (f *filterNode) eval(slot int, row int64) (bool, error) {

	st := &f.slots[slot]

	if err := buildArgs(st.args, st.bound, f.fn.Type(), 0, slot, row); err != nil {
		return false, err
	}

	res, callErr := callUser(f.fn, st.args)
	if callErr != nil {
		return false, callErr
	}

	return res[0].Bool(), nil
}

func (f *filterNode) collectStats(out *[]FilterStats) {
	f.prev.collectStats(out)
	f.collectOwnStats(out)
}

func (f *filterNode) collectOwnStats(out *[]FilterStats) {

	if f.name == "" {
		return
	}

	stats := FilterStats{Name: f.name}
	for i := range f.slots {
		stats.Accepted += f.slots[i].accepted
		stats.Rejected += f.slots[i].rejected
	}

	*out = append(*out, stats)
}
