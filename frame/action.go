package frame

import (
	"github.com/dot5enko/lazyframe/table"
)

// operation is the aggregation strategy of an action: per slot partials
// fed row by row, merged on a single thread after the loop
type operation interface {
	createSlots(n int)
	exec(slot int, vals []any) error
	merge() error
}

type actionSlotState struct {
	bound []boundColumn
	vals  []any
}

// actionNode is a terminal graph vertex: it gates on the upstream filter
// chain, materializes its input columns and feeds the operation
type actionNode struct {
	prev chainNode

	bindings []columnBinding
	op       operation

	slots []actionSlotState
}

func (a *actionNode) createSlots(n int) {
	a.slots = make([]actionSlotState, n)
	for i := range a.slots {
		a.slots[i].vals = make([]any, len(a.bindings))
	}
	a.op.createSlots(n)
}

func (a *actionNode) bindReaders(slot int, r table.Reader) error {
	bound, err := bindColumns(a.bindings, r)
	if err != nil {
		return err
	}
	a.slots[slot].bound = bound
	return nil
}

func (a *actionNode) run(slot int, row int64) error {

	passed, err := a.prev.checkFilters(slot, row)
	if err != nil {
		return err
	}
	if !passed {
		return nil
	}

	st := &a.slots[slot]

	for i := range st.bound {
		v, readErr := st.bound[i].value(slot, row)
		if readErr != nil {
			return readErr
		}
		st.vals[i] = v
	}

	return a.op.exec(slot, st.vals)
}

// resolveActionColumns picks and resolves the input columns of an action
// being booked, without registering anything yet
func (c *Chain) resolveActionColumns(arity int, cols []string, actionForErr string) ([]string, []columnBinding, error) {

	bl, pickErr := pickColumnNames(c.df, arity, cols, actionForErr)
	if pickErr != nil {
		return nil, nil, pickErr
	}

	bindings, bindErr := c.resolveBindings(bl, nil, 0)
	if bindErr != nil {
		return nil, nil, bindErr
	}

	return bl, bindings, nil
}

func (c *Chain) bookResolved(bindings []columnBinding, op operation) *actionNode {

	node := &actionNode{
		prev:     c.node,
		bindings: bindings,
		op:       op,
	}

	c.df.book(node)
	c.df.actions = append(c.df.actions, node)

	return node
}
