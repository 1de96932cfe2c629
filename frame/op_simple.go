package frame

import (
	"fmt"
	"math"
	"reflect"

	"github.com/dot5enko/lazyframe/ops"
)

// Count

type countOp struct {
	result   *uint64
	partials []uint64
}

func (o *countOp) createSlots(n int) {
	o.partials = make([]uint64, n)
}

func (o *countOp) exec(slot int, vals []any) error {
	o.partials[slot]++
	return nil
}

func (o *countOp) merge() error {
	*o.result = ops.Sum(o.partials)
	return nil
}

// Min / Max

type minOp struct {
	result   *float64
	kind     numKind
	partials []float64
}

func (o *minOp) createSlots(n int) {
	o.partials = make([]float64, n)
	for i := range o.partials {
		o.partials[i] = math.Inf(1)
	}
}

func (o *minOp) exec(slot int, vals []any) error {
	return eachFloat64(vals[0], o.kind.isArray, func(f float64) {
		if f < o.partials[slot] {
			o.partials[slot] = f
		}
	})
}

func (o *minOp) merge() error {
	*o.result = ops.GetMaxMin(o.partials).Min
	return nil
}

type maxOp struct {
	result   *float64
	kind     numKind
	partials []float64
}

func (o *maxOp) createSlots(n int) {
	o.partials = make([]float64, n)
	for i := range o.partials {
		o.partials[i] = math.Inf(-1)
	}
}

func (o *maxOp) exec(slot int, vals []any) error {
	return eachFloat64(vals[0], o.kind.isArray, func(f float64) {
		if f > o.partials[slot] {
			o.partials[slot] = f
		}
	})
}

func (o *maxOp) merge() error {
	*o.result = ops.GetMaxMin(o.partials).Max
	return nil
}

// Mean

type meanOp struct {
	result *float64
	kind   numKind

	sums   []float64
	counts []uint64
}

func (o *meanOp) createSlots(n int) {
	o.sums = make([]float64, n)
	o.counts = make([]uint64, n)
}

func (o *meanOp) exec(slot int, vals []any) error {
	return eachFloat64(vals[0], o.kind.isArray, func(f float64) {
		o.sums[slot] += f
		o.counts[slot]++
	})
}

func (o *meanOp) merge() error {
	sum := ops.Sum(o.sums)
	count := ops.Sum(o.counts)

	if count == 0 {
		*o.result = math.NaN()
		return nil
	}

	*o.result = sum / float64(count)
	return nil
}

// Reduce

type reduceOp[T any] struct {
	result *T
	f      func(T, T) T
	init   T

	partials []T
}

func (o *reduceOp[T]) createSlots(n int) {
	o.partials = make([]T, n)
	for i := range o.partials {
		o.partials[i] = o.init
	}
}

func (o *reduceOp[T]) exec(slot int, vals []any) (topErr error) {

	defer func() {
		if r := recover(); r != nil {
			topErr = fmt.Errorf("%w : %v", ErrUserCallableFailed, r)
		}
	}()

	v, convErr := convertTo[T](vals[0])
	if convErr != nil {
		return convErr
	}

	o.partials[slot] = o.f(o.partials[slot], v)
	return nil
}

func (o *reduceOp[T]) merge() (topErr error) {

	defer func() {
		if r := recover(); r != nil {
			topErr = fmt.Errorf("%w : %v", ErrUserCallableFailed, r)
		}
	}()

	*o.result = ops.Fold(o.f, o.init, o.partials)
	return nil
}

// Take

type takeOp[C ~[]T, T any] struct {
	result *C

	partials []C
}

func (o *takeOp[C, T]) createSlots(n int) {
	o.partials = make([]C, n)
}

func (o *takeOp[C, T]) exec(slot int, vals []any) error {

	v, convErr := convertTo[T](vals[0])
	if convErr != nil {
		return convErr
	}

	o.partials[slot] = append(o.partials[slot], v)
	return nil
}

// merge concatenates in slot id order; within a slot values are already in
// ascending row order
func (o *takeOp[C, T]) merge() error {

	total := 0
	for _, p := range o.partials {
		total += len(p)
	}

	merged := make(C, 0, total)
	for _, p := range o.partials {
		merged = append(merged, p...)
	}

	*o.result = merged
	return nil
}

// Foreach

type foreachOp struct {
	fn       reflect.Value
	withSlot bool
}

func (o *foreachOp) createSlots(n int) {
}

func (o *foreachOp) exec(slot int, vals []any) error {

	fnType := o.fn.Type()

	argOffset := 0
	if o.withSlot {
		argOffset = 1
	}

	args := make([]reflect.Value, len(vals)+argOffset)
	if o.withSlot {
		args[0] = reflect.ValueOf(slot)
	}

	for i, v := range vals {
		rv := reflect.ValueOf(v)
		want := fnType.In(i + argOffset)
		if rv.Type() != want && !rv.Type().AssignableTo(want) {
			rv = rv.Convert(want)
		}
		args[i+argOffset] = rv
	}

	_, callErr := callUser(o.fn, args)
	return callErr
}

func (o *foreachOp) merge() error {
	return nil
}

// convertTo narrows a boxed row value to the requested Go type, converting
// numerics when the boxed type differs
func convertTo[T any](v any) (T, error) {

	if typed, ok := v.(T); ok {
		return typed, nil
	}

	var zero T
	want := reflect.TypeFor[T]()

	rv := reflect.ValueOf(v)
	if !rv.Type().ConvertibleTo(want) {
		return zero, fmt.Errorf("%w : value of type %T cannot be used as %v", ErrBadCallable, v, want)
	}

	return rv.Convert(want).Interface().(T), nil
}
