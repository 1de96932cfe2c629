package table

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/dot5enko/lazyframe/bits"
	"github.com/dot5enko/lazyframe/compression"
	lzio "github.com/dot5enko/lazyframe/io"
	"github.com/dot5enko/lazyframe/ops"
	"github.com/dot5enko/lazyframe/schema"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// DiskTable reads tables produced by DumpTable. Column blocks are
// decompressed once and shared between all slot readers through a
// singleflight guarded cache.
type DiskTable struct {
	dir  string
	name string
	uid  uuid.UUID
	sch  schema.Schema
	rows int64

	blocks      map[string][]byte
	blocksLock  sync.RWMutex
	blocksGroup singleflight.Group
}

func OpenDiskTable(dir, name string) (*DiskTable, error) {

	manifestBytes, readErr := os.ReadFile(manifestPath(dir, name))
	if readErr != nil {
		return nil, fmt.Errorf("%w : unable to read table manifest : %s", ErrSourceUnavailable, readErr.Error())
	}

	manifest := diskManifest{}
	if err := json.Unmarshal(manifestBytes, &manifest); err != nil {
		return nil, fmt.Errorf("unable to decode table manifest : %s", err.Error())
	}

	uid, uidErr := uuid.Parse(manifest.Uid)
	if uidErr != nil {
		return nil, fmt.Errorf("unable to decode table uid : %s", uidErr.Error())
	}

	t := &DiskTable{
		dir:    dir,
		name:   manifest.Name,
		uid:    uid,
		rows:   manifest.Rows,
		sch:    schema.Schema{Name: manifest.Name},
		blocks: map[string][]byte{},
	}

	for _, col := range manifest.Columns {
		t.sch.Columns = append(t.sch.Columns, schema.SchemaColumn{Name: col.Name, Type: col.Type})
	}

	return t, nil
}

func (t *DiskTable) Name() string {
	return t.name
}

func (t *DiskTable) NumRows() int64 {
	return t.rows
}

func (t *DiskTable) Schema() *schema.Schema {
	return &t.sch
}

func (t *DiskTable) Partition(nSlots int) []RowRange {
	return SplitRows(t.rows, nSlots)
}

func (t *DiskTable) Reader(slot int) (Reader, error) {
	return &diskReader{table: t}, nil
}

type columnHeader struct {
	uid    uuid.UUID
	typ    schema.FieldType
	rows   uint64
	bounds ops.Bounds[float64]

	compressedSize uint64
}

func readColumnHeader(f *lzio.FileReader) (columnHeader, error) {

	headerBytes := make([]byte, columnHeaderSize)
	if err := f.ReadAt(headerBytes, 0, columnHeaderSize); err != nil {
		return columnHeader{}, fmt.Errorf("unable to read column header : %s", err.Error())
	}

	reader := bits.NewReader(bytes.NewReader(headerBytes), binary.LittleEndian)

	magic, _ := reader.ReadU32()
	if magic != columnFileMagic {
		return columnHeader{}, fmt.Errorf("bad column file magic : %x", magic)
	}

	version, _ := reader.ReadU16()
	if version != columnFileVersion {
		return columnHeader{}, fmt.Errorf("unsupported column file version : %d", version)
	}

	header := columnHeader{}

	var topErr error

	header.uid, topErr = reader.ReadUUID()
	if topErr != nil {
		return header, fmt.Errorf("unable to decode column uid : %s", topErr.Error())
	}

	typRaw, typErr := reader.ReadU8()
	if typErr != nil {
		return header, typErr
	}
	header.typ = schema.FieldType(typRaw)

	header.rows, topErr = reader.ReadU64()
	if topErr != nil {
		return header, topErr
	}

	header.bounds.Min, topErr = reader.ReadF64()
	if topErr != nil {
		return header, topErr
	}
	header.bounds.Max, topErr = reader.ReadF64()
	if topErr != nil {
		return header, topErr
	}

	header.compressedSize, topErr = reader.ReadU64()
	if topErr != nil {
		return header, topErr
	}

	return header, nil
}

// ColumnBounds reads the min/max recorded in the column block header,
// without touching the payload. Handy for choosing histogram ranges upfront.
func (t *DiskTable) ColumnBounds(column string) (ops.Bounds[float64], error) {

	if !t.sch.HasColumn(column) {
		return ops.Bounds[float64]{}, fmt.Errorf("%w : `%v` on table `%v`", ErrNoSuchColumn, column, t.name)
	}

	f := lzio.NewFileReader(columnPath(t.dir, t.name, column))
	if openErr := f.Open(true); openErr != nil {
		return ops.Bounds[float64]{}, fmt.Errorf("%w : %s", ErrSourceUnavailable, openErr.Error())
	}
	defer f.Close()

	header, headerErr := readColumnHeader(f)
	if headerErr != nil {
		return ops.Bounds[float64]{}, headerErr
	}

	return header.bounds, nil
}

// loadBlock returns the decompressed payload of a column, loading it at
// most once no matter how many slot readers ask concurrently
func (t *DiskTable) loadBlock(column string, typ schema.FieldType) ([]byte, error) {

	t.blocksLock.RLock()
	cached, ok := t.blocks[column]
	t.blocksLock.RUnlock()

	if ok {
		return cached, nil
	}

	loaded, loadErr, _ := t.blocksGroup.Do(column, func() (any, error) {

		f := lzio.NewFileReader(columnPath(t.dir, t.name, column))
		if openErr := f.Open(true); openErr != nil {
			return nil, fmt.Errorf("%w : %s", ErrSourceUnavailable, openErr.Error())
		}
		defer f.Close()

		header, headerErr := readColumnHeader(f)
		if headerErr != nil {
			return nil, headerErr
		}

		if header.typ != typ {
			return nil, fmt.Errorf("%w : column `%v` is %v on disk, %v in manifest", ErrTypeMismatch, column, header.typ, typ)
		}

		compressed := make([]byte, header.compressedSize)
		if readErr := f.ReadAt(compressed, columnHeaderSize, int(header.compressedSize)); readErr != nil {
			return nil, fmt.Errorf("unable to read column payload : %s", readErr.Error())
		}

		rawSize := int(header.rows) * typ.Size()
		raw := make([]byte, rawSize)

		decompressed, decompressErr := compression.DecompressLz4(compressed, raw)
		if decompressErr != nil {
			return nil, decompressErr
		}
		if decompressed != rawSize {
			return nil, fmt.Errorf("column payload size mismatch : want %d got %d", rawSize, decompressed)
		}

		t.blocksLock.Lock()
		t.blocks[column] = raw
		t.blocksLock.Unlock()

		return raw, nil
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return loaded.([]byte), nil
}

type diskReader struct {
	table *DiskTable
}

func (r *diskReader) Close() error {
	return nil
}

func (r *diskReader) Cursor(column string) (Cursor, error) {

	col, ok := r.table.sch.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w : `%v` on table `%v`", ErrNoSuchColumn, column, r.table.name)
	}

	raw, loadErr := r.table.loadBlock(column, col.Type)
	if loadErr != nil {
		return nil, loadErr
	}

	rows := int(r.table.rows)

	switch col.Type {
	case schema.Int8FieldType:
		return &scalarCursor[int8]{col: &scalarColumn[int8]{typ: col.Type, data: bits.MapBytesToArray[int8](raw, rows)}}, nil
	case schema.Int16FieldType:
		return &scalarCursor[int16]{col: &scalarColumn[int16]{typ: col.Type, data: bits.MapBytesToArray[int16](raw, rows)}}, nil
	case schema.Int32FieldType:
		return &scalarCursor[int32]{col: &scalarColumn[int32]{typ: col.Type, data: bits.MapBytesToArray[int32](raw, rows)}}, nil
	case schema.Int64FieldType:
		return &scalarCursor[int64]{col: &scalarColumn[int64]{typ: col.Type, data: bits.MapBytesToArray[int64](raw, rows)}}, nil
	case schema.Uint8FieldType, schema.ByteFieldType:
		return &scalarCursor[uint8]{col: &scalarColumn[uint8]{typ: col.Type, data: bits.MapBytesToArray[uint8](raw, rows)}}, nil
	case schema.Uint16FieldType:
		return &scalarCursor[uint16]{col: &scalarColumn[uint16]{typ: col.Type, data: bits.MapBytesToArray[uint16](raw, rows)}}, nil
	case schema.Uint32FieldType:
		return &scalarCursor[uint32]{col: &scalarColumn[uint32]{typ: col.Type, data: bits.MapBytesToArray[uint32](raw, rows)}}, nil
	case schema.Uint64FieldType:
		return &scalarCursor[uint64]{col: &scalarColumn[uint64]{typ: col.Type, data: bits.MapBytesToArray[uint64](raw, rows)}}, nil
	case schema.Float32FieldType:
		return &scalarCursor[float32]{col: &scalarColumn[float32]{typ: col.Type, data: bits.MapBytesToArray[float32](raw, rows)}}, nil
	case schema.Float64FieldType:
		return &scalarCursor[float64]{col: &scalarColumn[float64]{typ: col.Type, data: bits.MapBytesToArray[float64](raw, rows)}}, nil
	case schema.BoolFieldType:
		return &scalarCursor[bool]{col: &scalarColumn[bool]{typ: col.Type, data: bits.MapBytesToArray[bool](raw, rows)}}, nil
	default:
		return nil, fmt.Errorf("unsupported on-disk column type %v", col.Type)
	}
}
