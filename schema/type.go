package schema

type FieldType uint8

const (
	Int8FieldType FieldType = iota
	Int16FieldType
	Int32FieldType
	Int64FieldType

	Float64FieldType
	Float32FieldType

	Uint64FieldType
	Uint8FieldType
	Uint32FieldType
	Uint16FieldType

	BoolFieldType
	ByteFieldType

	Float64ArrayFieldType
	Float32ArrayFieldType
)

func (f FieldType) String() string {
	switch f {
	case Int8FieldType:
		return "Int8"
	case Int16FieldType:
		return "Int16"
	case Int32FieldType:
		return "Int32"
	case Int64FieldType:
		return "Int64"
	case Float64FieldType:
		return "Float64"
	case Float32FieldType:
		return "Float32"
	case Uint64FieldType:
		return "Uint64"
	case Uint8FieldType:
		return "Uint8"
	case Uint32FieldType:
		return "Uint32"
	case Uint16FieldType:
		return "Uint16"
	case BoolFieldType:
		return "Bool"
	case ByteFieldType:
		return "Byte"
	case Float64ArrayFieldType:
		return "Float64Array"
	case Float32ArrayFieldType:
		return "Float32Array"
	default:
		return ""
	}
}

func (f FieldType) IsArray() bool {
	switch f {
	case Float64ArrayFieldType, Float32ArrayFieldType:
		return true
	default:
		return false
	}
}

// Elem returns the element type for array fields, the type itself otherwise
func (f FieldType) Elem() FieldType {
	switch f {
	case Float64ArrayFieldType:
		return Float64FieldType
	case Float32ArrayFieldType:
		return Float32FieldType
	default:
		return f
	}
}

// Size of a single element on disk and in memory, bytes
func (f FieldType) Size() int {
	switch f {

	case Int8FieldType, Uint8FieldType, BoolFieldType, ByteFieldType:
		return 1
	case Int16FieldType, Uint16FieldType:
		return 2
	case Int32FieldType, Float32FieldType, Uint32FieldType, Float32ArrayFieldType:
		return 4
	case Int64FieldType, Float64FieldType, Uint64FieldType, Float64ArrayFieldType:
		return 8

	default:
		panic("unknown field type " + f.String())
	}
}

// IsNumeric reports whether values of this type can be widened to float64
// for single-value aggregations
func (f FieldType) IsNumeric() bool {
	switch f {
	case BoolFieldType:
		return false
	default:
		return true
	}
}
