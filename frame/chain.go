package frame

import (
	"fmt"
	"reflect"
)

// Chain is a position in the computation graph. Transformations return a
// new Chain hanging off the previous one; booking is eager, evaluation is
// not.
type Chain struct {
	df   *frameImpl
	node chainNode

	// derived column names visible at this position
	tmpCols []string
}

func (c *Chain) derive(node chainNode, tmpCols []string) *Chain {
	return &Chain{df: c.df, node: node, tmpCols: tmpCols}
}

// Filter appends an anonymous filter node. The predicate must be a func
// over the declared columns returning a single bool; it only runs on rows
// that passed every upstream filter, at most once per row per slot.
func (c *Chain) Filter(pred any, cols ...string) (*Chain, error) {
	return c.FilterNamed("", pred, cols...)
}

// FilterNamed is Filter with a name under which the node reports its
// accepted/rejected statistics
func (c *Chain) FilterNamed(name string, pred any, cols ...string) (*Chain, error) {

	fn := reflect.ValueOf(pred)
	if fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w : got %T", ErrBadPredicate, pred)
	}

	fnType := fn.Type()
	if fnType.NumOut() != 1 || fnType.Out(0).Kind() != reflect.Bool || fnType.IsVariadic() {
		return nil, fmt.Errorf("%w : got %v", ErrBadPredicate, fnType)
	}

	bl, pickErr := pickColumnNames(c.df, fnType.NumIn(), cols, "evaluate the filter")
	if pickErr != nil {
		return nil, pickErr
	}

	bindings, bindErr := c.resolveBindings(bl, fnType, 0)
	if bindErr != nil {
		return nil, bindErr
	}

	node := &filterNode{
		prev:     c.node,
		fn:       fn,
		name:     name,
		bindings: bindings,
	}

	c.df.book(node)
	c.df.filters = append(c.df.filters, node)

	return c.derive(node, c.tmpCols), nil
}

// Define registers a derived column: a pure expression over the declared
// columns whose result is visible, under the new name, to every node booked
// downstream. The expression is evaluated at most once per row per slot;
// all same-row consumers observe the identical value.
func (c *Chain) Define(name string, expr any, cols ...string) (*Chain, error) {

	if name == "" {
		return nil, fmt.Errorf("%w : empty derived column name", ErrDuplicateName)
	}

	if _, taken := c.df.defines[name]; taken {
		return nil, fmt.Errorf("%w : derived column `%v`", ErrDuplicateName, name)
	}
	if c.df.provider.Schema().HasColumn(name) {
		return nil, fmt.Errorf("%w : `%v` is a column of table `%v`", ErrDuplicateName, name, c.df.provider.Name())
	}

	fn := reflect.ValueOf(expr)
	if fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w : got %T", ErrBadExpression, expr)
	}

	fnType := fn.Type()
	if fnType.NumOut() != 1 || fnType.IsVariadic() {
		return nil, fmt.Errorf("%w : got %v", ErrBadExpression, fnType)
	}

	bl, pickErr := pickColumnNames(c.df, fnType.NumIn(), cols, "evaluate the derived column")
	if pickErr != nil {
		return nil, pickErr
	}

	bindings, bindErr := c.resolveBindings(bl, fnType, 0)
	if bindErr != nil {
		return nil, bindErr
	}

	outType := fnType.Out(0)
	fieldType, fieldTypeOk := fieldTypeOfGoType(outType)

	node := &defineNode{
		prev:        c.node,
		name:        name,
		fn:          fn,
		outType:     outType,
		fieldType:   fieldType,
		fieldTypeOk: fieldTypeOk,
		bindings:    bindings,
	}

	c.df.book(node)
	c.df.defines[name] = node

	visible := make([]string, 0, len(c.tmpCols)+1)
	visible = append(visible, c.tmpCols...)
	visible = append(visible, name)

	return c.derive(node, visible), nil
}
