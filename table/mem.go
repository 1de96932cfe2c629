package table

import (
	"fmt"

	"github.com/dot5enko/lazyframe/ops"
	"github.com/dot5enko/lazyframe/schema"
)

// MemTable is an in-memory columnar table, the simplest Provider.
// Columns are added once, before the table is handed to an engine.
type MemTable struct {
	name string
	sch  schema.Schema
	cols map[string]memColumn
	rows int64
}

type memColumn interface {
	fieldType() schema.FieldType
	newCursor() Cursor
	length() int64
	raw() ([]byte, ops.Bounds[float64], error)
}

func NewMemTable(name string) *MemTable {
	return &MemTable{
		name: name,
		sch:  schema.Schema{Name: name},
		cols: map[string]memColumn{},
	}
}

func (t *MemTable) Name() string {
	return t.name
}

func (t *MemTable) NumRows() int64 {
	return t.rows
}

func (t *MemTable) Schema() *schema.Schema {
	return &t.sch
}

func (t *MemTable) Partition(nSlots int) []RowRange {
	return SplitRows(t.rows, nSlots)
}

func (t *MemTable) Reader(slot int) (Reader, error) {
	return &memReader{table: t}, nil
}

func (t *MemTable) addColumn(name string, col memColumn) error {

	if _, exists := t.cols[name]; exists {
		return fmt.Errorf("column `%v` already exists on table `%v`", name, t.name)
	}

	if len(t.cols) > 0 && col.length() != t.rows {
		return fmt.Errorf("column `%v` has %d rows, table `%v` has %d", name, col.length(), t.name, t.rows)
	}

	t.rows = col.length()
	t.cols[name] = col
	t.sch.Columns = append(t.sch.Columns, schema.SchemaColumn{Name: name, Type: col.fieldType()})

	return nil
}

type memReader struct {
	table *MemTable
}

func (r *memReader) Cursor(column string) (Cursor, error) {
	col, ok := r.table.cols[column]
	if !ok {
		return nil, fmt.Errorf("%w : `%v` on table `%v`", ErrNoSuchColumn, column, r.table.name)
	}
	return col.newCursor(), nil
}

func (r *memReader) Close() error {
	return nil
}

// scalar columns

type ScalarTypes interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64 | bool
}

type scalarColumn[T ScalarTypes] struct {
	typ  schema.FieldType
	data []T
}

func (c *scalarColumn[T]) fieldType() schema.FieldType { return c.typ }
func (c *scalarColumn[T]) length() int64               { return int64(len(c.data)) }
func (c *scalarColumn[T]) newCursor() Cursor           { return &scalarCursor[T]{col: c} }

type scalarCursor[T ScalarTypes] struct {
	col *scalarColumn[T]
}

func (c *scalarCursor[T]) Type() schema.FieldType {
	return c.col.typ
}

func (c *scalarCursor[T]) Value(row int64) (any, error) {
	if row < 0 || row >= int64(len(c.col.data)) {
		return nil, fmt.Errorf("row %d out of range [0, %d)", row, len(c.col.data))
	}
	return c.col.data[row], nil
}

func (c *scalarCursor[T]) ArrayView(row int64) (any, error) {
	return nil, ErrNotAnArray
}

func fieldTypeFor(sample any) schema.FieldType {
	switch sample.(type) {
	case int8:
		return schema.Int8FieldType
	case int16:
		return schema.Int16FieldType
	case int32:
		return schema.Int32FieldType
	case int64:
		return schema.Int64FieldType
	case uint8:
		return schema.Uint8FieldType
	case uint16:
		return schema.Uint16FieldType
	case uint32:
		return schema.Uint32FieldType
	case uint64:
		return schema.Uint64FieldType
	case float32:
		return schema.Float32FieldType
	case float64:
		return schema.Float64FieldType
	case bool:
		return schema.BoolFieldType
	default:
		panic(fmt.Sprintf("unsupported scalar type %T", sample))
	}
}

// AddColumn registers a scalar column. The first column added fixes the
// table's row count.
func AddColumn[T ScalarTypes](t *MemTable, name string, data []T) error {
	var sample T
	return t.addColumn(name, &scalarColumn[T]{typ: fieldTypeFor(sample), data: data})
}

// array columns

type arrayColumn[T float32 | float64] struct {
	typ  schema.FieldType
	rows [][]T

	// when set, row views are rebuilt from the flat buffer with a stride;
	// stride != 1 makes the column non contiguous
	flat   []T
	width  int
	stride int
}

func (c *arrayColumn[T]) fieldType() schema.FieldType { return c.typ }
func (c *arrayColumn[T]) newCursor() Cursor           { return &arrayCursor[T]{col: c} }

func (c *arrayColumn[T]) length() int64 {
	if c.flat != nil {
		return int64(len(c.flat) / (c.width * c.stride))
	}
	return int64(len(c.rows))
}

type arrayCursor[T float32 | float64] struct {
	col *arrayColumn[T]
}

func (c *arrayCursor[T]) Type() schema.FieldType {
	return c.col.typ
}

func (c *arrayCursor[T]) Value(row int64) (any, error) {
	return nil, fmt.Errorf("array column cannot be read as a scalar")
}

func (c *arrayCursor[T]) ArrayView(row int64) (any, error) {

	if row < 0 || row >= c.col.length() {
		return nil, fmt.Errorf("row %d out of range [0, %d)", row, c.col.length())
	}

	if c.col.flat != nil {
		if c.col.stride != 1 {
			return nil, ErrNonContiguousArray
		}
		start := row * int64(c.col.width)
		return c.col.flat[start : start+int64(c.col.width)], nil
	}

	return c.col.rows[row], nil
}

func (t *MemTable) AddFloat64ArrayColumn(name string, rows [][]float64) error {
	return t.addColumn(name, &arrayColumn[float64]{typ: schema.Float64ArrayFieldType, rows: rows})
}

func (t *MemTable) AddFloat32ArrayColumn(name string, rows [][]float32) error {
	return t.addColumn(name, &arrayColumn[float32]{typ: schema.Float32ArrayFieldType, rows: rows})
}

// AddStridedFloat64ArrayColumn lays row elements out with a stride over a
// flat buffer. stride == 1 behaves like a regular array column; any other
// stride makes row views non contiguous and reads fail accordingly.
func (t *MemTable) AddStridedFloat64ArrayColumn(name string, flat []float64, width, stride int) error {
	if width <= 0 || stride <= 0 {
		return fmt.Errorf("width and stride must be positive")
	}
	return t.addColumn(name, &arrayColumn[float64]{
		typ:    schema.Float64ArrayFieldType,
		flat:   flat,
		width:  width,
		stride: stride,
	})
}
