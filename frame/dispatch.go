package frame

import (
	"fmt"
	"reflect"

	"github.com/dot5enko/lazyframe/schema"
)

// goTypeOf maps a storage field type to the Go type its cursor produces
func goTypeOf(t schema.FieldType) reflect.Type {
	switch t {
	case schema.Int8FieldType:
		return reflect.TypeFor[int8]()
	case schema.Int16FieldType:
		return reflect.TypeFor[int16]()
	case schema.Int32FieldType:
		return reflect.TypeFor[int32]()
	case schema.Int64FieldType:
		return reflect.TypeFor[int64]()
	case schema.Uint8FieldType, schema.ByteFieldType:
		return reflect.TypeFor[uint8]()
	case schema.Uint16FieldType:
		return reflect.TypeFor[uint16]()
	case schema.Uint32FieldType:
		return reflect.TypeFor[uint32]()
	case schema.Uint64FieldType:
		return reflect.TypeFor[uint64]()
	case schema.Float32FieldType:
		return reflect.TypeFor[float32]()
	case schema.Float64FieldType:
		return reflect.TypeFor[float64]()
	case schema.BoolFieldType:
		return reflect.TypeFor[bool]()
	case schema.Float64ArrayFieldType:
		return reflect.TypeFor[[]float64]()
	case schema.Float32ArrayFieldType:
		return reflect.TypeFor[[]float32]()
	default:
		panic("unknown field type " + t.String())
	}
}

// numKind is the resolved shape of a column consumed by a single value
// action: whether a row holds a single value or a whole array of them
type numKind struct {
	isArray bool
}

// inferredKind accepts the closed set of field types single value actions can
// resolve without an explicit type. It is part of the external contract;
// anything else must be requested through the explicitly typed entry points.
func inferredKind(t schema.FieldType) (numKind, bool) {
	switch t {
	case schema.Int8FieldType, schema.Int32FieldType, schema.Float64FieldType:
		return numKind{}, true
	case schema.Float64ArrayFieldType, schema.Float32ArrayFieldType:
		return numKind{isArray: true}, true
	default:
		return numKind{}, false
	}
}

// kindOfGoType resolves the kind for an explicitly supplied Go type,
// escaping the closed inference set
func kindOfGoType(t reflect.Type) (numKind, error) {
	switch t.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return numKind{}, nil
	case reflect.Slice:
		switch t.Elem().Kind() {
		case reflect.Float32, reflect.Float64:
			return numKind{isArray: true}, nil
		}
	}
	return numKind{}, fmt.Errorf("%w : %v is not a numeric scalar or float array", ErrCannotInferType, t)
}

// inferColumnKind resolves the element type of a column at booking time:
// derived columns from their registered expression result type, physical
// columns from the table schema
func (c *Chain) inferColumnKind(name string) (numKind, error) {

	if def := c.lookupDefine(name); def != nil {
		if def.fieldTypeOk {
			if kind, ok := inferredKind(def.fieldType); ok {
				return kind, nil
			}
		}
		return numKind{}, fmt.Errorf("%w : derived column `%v`", ErrCannotInferType, name)
	}

	col, ok := c.df.provider.Schema().Column(name)
	if !ok {
		return numKind{}, fmt.Errorf("%w : `%v`", ErrUnknownColumn, name)
	}

	if kind, ok := inferredKind(col.Type); ok {
		return kind, nil
	}

	return numKind{}, fmt.Errorf("%w : column `%v` of type %v", ErrCannotInferType, name, col.Type)
}

// fieldTypeOfGoType records the storage type of a derived column when its
// expression result maps onto one; other result types stay opaque and are
// only usable with explicitly typed or reflect based consumers
func fieldTypeOfGoType(t reflect.Type) (schema.FieldType, bool) {
	switch t.Kind() {
	case reflect.Int8:
		return schema.Int8FieldType, true
	case reflect.Int16:
		return schema.Int16FieldType, true
	case reflect.Int32:
		return schema.Int32FieldType, true
	case reflect.Int64:
		return schema.Int64FieldType, true
	case reflect.Uint8:
		return schema.Uint8FieldType, true
	case reflect.Uint16:
		return schema.Uint16FieldType, true
	case reflect.Uint32:
		return schema.Uint32FieldType, true
	case reflect.Uint64:
		return schema.Uint64FieldType, true
	case reflect.Float32:
		return schema.Float32FieldType, true
	case reflect.Float64:
		return schema.Float64FieldType, true
	case reflect.Bool:
		return schema.BoolFieldType, true
	case reflect.Slice:
		switch t.Elem().Kind() {
		case reflect.Float64:
			return schema.Float64ArrayFieldType, true
		case reflect.Float32:
			return schema.Float32ArrayFieldType, true
		}
	}
	return 0, false
}

// toFloat64 widens any supported scalar to float64
func toFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("value of type %T is not numeric", v)
	}
}

// eachFloat64 feeds every element of a row value into cb: one call for a
// scalar, one per element for an array view
func eachFloat64(v any, isArray bool, cb func(float64)) error {

	if !isArray {
		f, err := toFloat64(v)
		if err != nil {
			return err
		}
		cb(f)
		return nil
	}

	switch view := v.(type) {
	case []float64:
		for _, f := range view {
			cb(f)
		}
	case []float32:
		for _, f := range view {
			cb(float64(f))
		}
	default:
		return fmt.Errorf("value of type %T is not a float array view", v)
	}

	return nil
}
