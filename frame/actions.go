package frame

import (
	"fmt"
	"reflect"
)

// Count books a row counter and returns its lazy handle
func (c *Chain) Count() (*Result[uint64], error) {

	result := new(uint64)

	_, bindings, resolveErr := c.resolveActionColumns(0, nil, "count the rows")
	if resolveErr != nil {
		return nil, resolveErr
	}

	c.bookResolved(bindings, &countOp{result: result})

	return makeResult(c.df, result), nil
}

// single value actions share the column/kind resolution dance; explicit
// kinds bypass type inference
func (c *Chain) bookValueAction(cols []string, actionForErr string, explicit *numKind, makeOp func(kind numKind) operation) error {

	bl, bindings, resolveErr := c.resolveActionColumns(1, cols, actionForErr)
	if resolveErr != nil {
		return resolveErr
	}

	var kind numKind
	if explicit != nil {
		kind = *explicit
	} else {
		inferred, inferErr := c.inferColumnKind(bl[0])
		if inferErr != nil {
			return inferErr
		}
		kind = inferred
	}

	c.bookResolved(bindings, makeOp(kind))
	return nil
}

// Min books the minimum of a column's values. With no rows passing the
// upstream filters the result stays +Inf.
func (c *Chain) Min(col ...string) (*Result[float64], error) {

	result := new(float64)

	bookErr := c.bookValueAction(col, "calculate the minimum", nil, func(kind numKind) operation {
		return &minOp{result: result, kind: kind}
	})
	if bookErr != nil {
		return nil, bookErr
	}

	return makeResult(c.df, result), nil
}

// Max books the maximum of a column's values. With no rows passing the
// upstream filters the result stays -Inf.
func (c *Chain) Max(col ...string) (*Result[float64], error) {

	result := new(float64)

	bookErr := c.bookValueAction(col, "calculate the maximum", nil, func(kind numKind) operation {
		return &maxOp{result: result, kind: kind}
	})
	if bookErr != nil {
		return nil, bookErr
	}

	return makeResult(c.df, result), nil
}

// Mean books the arithmetic mean of a column's values
func (c *Chain) Mean(col ...string) (*Result[float64], error) {

	result := new(float64)

	bookErr := c.bookValueAction(col, "calculate the mean", nil, func(kind numKind) operation {
		return &meanOp{result: result, kind: kind}
	})
	if bookErr != nil {
		return nil, bookErr
	}

	return makeResult(c.df, result), nil
}

// MinOf is Min with the column element type supplied explicitly, escaping
// the closed inference set
func MinOf[T any](c *Chain, col ...string) (*Result[float64], error) {

	kind, kindErr := kindOfGoType(reflect.TypeFor[T]())
	if kindErr != nil {
		return nil, kindErr
	}

	result := new(float64)

	bookErr := c.bookValueAction(col, "calculate the minimum", &kind, func(kind numKind) operation {
		return &minOp{result: result, kind: kind}
	})
	if bookErr != nil {
		return nil, bookErr
	}

	return makeResult(c.df, result), nil
}

func MaxOf[T any](c *Chain, col ...string) (*Result[float64], error) {

	kind, kindErr := kindOfGoType(reflect.TypeFor[T]())
	if kindErr != nil {
		return nil, kindErr
	}

	result := new(float64)

	bookErr := c.bookValueAction(col, "calculate the maximum", &kind, func(kind numKind) operation {
		return &maxOp{result: result, kind: kind}
	})
	if bookErr != nil {
		return nil, bookErr
	}

	return makeResult(c.df, result), nil
}

func MeanOf[T any](c *Chain, col ...string) (*Result[float64], error) {

	kind, kindErr := kindOfGoType(reflect.TypeFor[T]())
	if kindErr != nil {
		return nil, kindErr
	}

	result := new(float64)

	bookErr := c.bookValueAction(col, "calculate the mean", &kind, func(kind numKind) operation {
		return &meanOp{result: result, kind: kind}
	})
	if bookErr != nil {
		return nil, bookErr
	}

	return makeResult(c.df, result), nil
}

// Take books the collection of every value of a column, concatenated in
// slot id order, ascending row order within a slot
func Take[T any](c *Chain, col ...string) (*Result[[]T], error) {
	return TakeInto[[]T](c, col...)
}

// TakeInto is Take with a custom collection type
func TakeInto[C ~[]T, T any](c *Chain, col ...string) (*Result[C], error) {

	_, bindings, resolveErr := c.resolveActionColumns(1, col, "take the column values")
	if resolveErr != nil {
		return nil, resolveErr
	}

	want := reflect.TypeFor[T]()
	if got := bindings[0].goType; !got.AssignableTo(want) && !got.ConvertibleTo(want) {
		return nil, fmt.Errorf("%w : column `%v` is %v, requested %v", ErrBadCallable, bindings[0].name, got, want)
	}

	result := new(C)

	c.bookResolved(bindings, &takeOp[C, T]{result: result})

	return makeResult(c.df, result), nil
}

// Reduce books a pairwise fold of a column's values. The per slot partials
// are seeded with init (or the zero value) and folded with f, which is
// assumed associative; the same f merges the partials after the loop.
func Reduce[T any](c *Chain, f func(T, T) T, col string, init ...T) (*Result[T], error) {

	if f == nil {
		return nil, ErrBadReducer
	}

	var cols []string
	if col != "" {
		cols = []string{col}
	}

	_, bindings, resolveErr := c.resolveActionColumns(1, cols, "reduce the column values")
	if resolveErr != nil {
		return nil, resolveErr
	}

	want := reflect.TypeFor[T]()
	if got := bindings[0].goType; !got.AssignableTo(want) && !got.ConvertibleTo(want) {
		return nil, fmt.Errorf("%w : column `%v` is %v, reducer works on %v", ErrBadReducer, bindings[0].name, got, want)
	}

	var seed T
	if len(init) > 0 {
		seed = init[0]
	}

	result := new(T)

	c.bookResolved(bindings, &reduceOp[T]{result: result, f: f, init: seed})

	return makeResult(c.df, result), nil
}

// Foreach runs a callable on every passing row. This is an instant action:
// the event loop executes inside the call.
func (c *Chain) Foreach(fn any, cols ...string) error {
	return c.foreachImpl(fn, cols, false)
}

// ForeachSlot is Foreach with the worker slot index as the callable's first
// parameter, for callables that keep per slot state of their own
func (c *Chain) ForeachSlot(fn any, cols ...string) error {
	return c.foreachImpl(fn, cols, true)
}

func (c *Chain) foreachImpl(fn any, cols []string, withSlot bool) error {

	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return fmt.Errorf("%w : got %T", ErrBadCallable, fn)
	}

	fnType := rv.Type()
	if fnType.IsVariadic() {
		return fmt.Errorf("%w : variadic callables are not supported", ErrBadCallable)
	}

	argOffset := 0
	if withSlot {
		if fnType.NumIn() < 1 || fnType.In(0).Kind() != reflect.Int {
			return fmt.Errorf("%w : first parameter must be the slot index", ErrBadCallable)
		}
		argOffset = 1
	}

	arity := fnType.NumIn() - argOffset

	bl, pickErr := pickColumnNames(c.df, arity, cols, "run the callable")
	if pickErr != nil {
		return pickErr
	}

	bindings, bindErr := c.resolveBindings(bl, fnType, argOffset)
	if bindErr != nil {
		return bindErr
	}

	c.bookResolved(bindings, &foreachOp{fn: rv, withSlot: withSlot})

	return c.df.run()
}
