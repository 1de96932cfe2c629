package frame

import (
	"fmt"
	"reflect"

	"github.com/dot5enko/lazyframe/schema"
	"github.com/dot5enko/lazyframe/table"
)

// columnBinding is the booking time resolution of one declared input
// column: either a derived column node or a physical column with its
// storage type
type columnBinding struct {
	name string

	def *defineNode // non-nil for derived columns

	fieldType schema.FieldType // physical columns only
	isArray   bool
	goType    reflect.Type
}

// boundColumn is the per slot read state of a binding
type boundColumn struct {
	binding *columnBinding
	cursor  table.Cursor // nil for derived columns
}

func (b *boundColumn) value(slot int, row int64) (any, error) {

	if b.binding.def != nil {
		return b.binding.def.value(slot, row)
	}

	if b.binding.isArray {
		return b.cursor.ArrayView(row)
	}

	return b.cursor.Value(row)
}

// pickColumnNames returns the declared list when it covers the callable
// arity, the default columns truncated to it otherwise
func pickColumnNames(df *frameImpl, arity int, declared []string, actionForErr string) ([]string, error) {

	nonEmpty := 0
	for _, name := range declared {
		if name != "" {
			nonEmpty++
		}
	}

	if len(declared) == arity && nonEmpty == arity {
		return declared, nil
	}

	if len(df.defaultCols) < arity {
		return nil, fmt.Errorf("%w : trying to deduce the columns to %s, %d defaults found, %d needed",
			ErrInsufficientDefaults, actionForErr, len(df.defaultCols), arity)
	}

	return df.defaultCols[:arity], nil
}

// resolveBindings maps declared column names to bindings, checking each
// against the matching parameter of the user callable when one is given.
// argOffset skips leading non-column parameters (the slot index).
func (c *Chain) resolveBindings(names []string, fnType reflect.Type, argOffset int) ([]columnBinding, error) {

	bindings := make([]columnBinding, 0, len(names))

	for i, name := range names {

		binding := columnBinding{name: name}

		if def := c.lookupDefine(name); def != nil {
			binding.def = def
			binding.goType = def.outType
		} else {
			col, ok := c.df.provider.Schema().Column(name)
			if !ok {
				return nil, fmt.Errorf("%w : `%v` on table `%v`", ErrUnknownColumn, name, c.df.provider.Name())
			}
			binding.fieldType = col.Type
			binding.isArray = col.Type.IsArray()
			binding.goType = goTypeOf(col.Type)
		}

		if fnType != nil {
			want := fnType.In(i + argOffset)
			if !binding.goType.AssignableTo(want) && !binding.goType.ConvertibleTo(want) {
				return nil, fmt.Errorf("%w : column `%v` is %v, argument %d wants %v",
					ErrBadCallable, name, binding.goType, i+argOffset, want)
			}
		}

		bindings = append(bindings, binding)
	}

	return bindings, nil
}

// lookupDefine resolves a derived column visible at this chain position
func (c *Chain) lookupDefine(name string) *defineNode {
	for _, visible := range c.tmpCols {
		if visible == name {
			return c.df.defines[name]
		}
	}
	return nil
}

func bindColumns(bindings []columnBinding, r table.Reader) ([]boundColumn, error) {

	bound := make([]boundColumn, len(bindings))

	for i := range bindings {
		bound[i].binding = &bindings[i]

		if bindings[i].def != nil {
			continue
		}

		cursor, err := r.Cursor(bindings[i].name)
		if err != nil {
			return nil, fmt.Errorf("unable to open cursor for column `%v` : %s", bindings[i].name, err.Error())
		}
		bound[i].cursor = cursor
	}

	return bound, nil
}

// buildArgs fills dst[argOffset:] with the row values of the bound columns,
// converting where the callable wants a different (convertible) type
func buildArgs(dst []reflect.Value, bound []boundColumn, fnType reflect.Type, argOffset int, slot int, row int64) error {

	for i := range bound {

		v, err := bound[i].value(slot, row)
		if err != nil {
			return err
		}

		rv := reflect.ValueOf(v)
		want := fnType.In(i + argOffset)

		if rv.Type() != want && !rv.Type().AssignableTo(want) {
			rv = rv.Convert(want)
		}

		dst[i+argOffset] = rv
	}

	return nil
}

// callUser invokes a user callable, fencing panics into run errors
func callUser(fn reflect.Value, args []reflect.Value) (res []reflect.Value, topErr error) {

	defer func() {
		if r := recover(); r != nil {
			topErr = fmt.Errorf("%w : %v", ErrUserCallableFailed, r)
		}
	}()

	return fn.Call(args), nil
}
