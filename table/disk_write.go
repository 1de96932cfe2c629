package table

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/dot5enko/lazyframe/bits"
	"github.com/dot5enko/lazyframe/compression"
	"github.com/dot5enko/lazyframe/ops"
	"github.com/dot5enko/lazyframe/schema"
	"github.com/google/uuid"
)

const (
	columnFileMagic   = uint32(0x4c5a4643) // "LZFC"
	columnFileVersion = uint16(1)

	// magic + version + uuid + field type + rows + min + max + compressed size
	columnHeaderSize = 4 + 2 + 16 + 1 + 8 + 8 + 8 + 8
)

type diskManifestColumn struct {
	Name string           `json:"name"`
	Type schema.FieldType `json:"type"`
}

type diskManifest struct {
	Name    string               `json:"name"`
	Uid     string               `json:"uuid"`
	Rows    int64                `json:"rows"`
	Columns []diskManifestColumn `json:"columns"`
}

func manifestPath(dir, name string) string {
	return path.Join(dir, name, "table.json")
}

func columnPath(dir, name, column string) string {
	return path.Join(dir, name, column+".col")
}

// DumpTable persists a MemTable as one compressed block file per column
// plus a json manifest. Array columns are memory only and are rejected.
func DumpTable(t *MemTable, dir string) error {

	tableDir := path.Join(dir, t.name)
	if err := os.MkdirAll(tableDir, 0755); err != nil {
		return fmt.Errorf("unable to create table dir : %s", err.Error())
	}

	manifest := diskManifest{
		Name: t.name,
		Uid:  uuid.NewString(),
		Rows: t.rows,
	}

	for _, col := range t.sch.Columns {

		if col.Type.IsArray() {
			return fmt.Errorf("column `%v` : array columns cannot be dumped", col.Name)
		}

		raw, bounds, rawErr := t.cols[col.Name].raw()
		if rawErr != nil {
			return fmt.Errorf("unable to get raw bytes of column `%v` : %s", col.Name, rawErr.Error())
		}

		dumpErr := dumpColumnBlock(columnPath(dir, t.name, col.Name), col.Type, t.rows, bounds, raw)
		if dumpErr != nil {
			return fmt.Errorf("unable to dump column `%v` : %s", col.Name, dumpErr.Error())
		}

		manifest.Columns = append(manifest.Columns, diskManifestColumn{Name: col.Name, Type: col.Type})
	}

	manifestBytes, marshalErr := json.MarshalIndent(manifest, "", "  ")
	if marshalErr != nil {
		return marshalErr
	}

	return os.WriteFile(manifestPath(dir, t.name), manifestBytes, 0644)
}

func dumpColumnBlock(filePath string, typ schema.FieldType, rows int64, bounds ops.Bounds[float64], raw []byte) error {

	compressed := bytes.Buffer{}
	compressErr := compression.CompressLz4(raw, &compressed)
	if compressErr != nil {
		return compressErr
	}

	header := bits.NewEncodeBuffer(make([]byte, columnHeaderSize), binary.LittleEndian)
	header.PutUint32(columnFileMagic)
	header.PutUint16(columnFileVersion)
	header.PutUUID(uuid.New())
	header.WriteByte(uint8(typ))
	header.PutUint64(uint64(rows))
	header.PutFloat64(bounds.Min)
	header.PutFloat64(bounds.Max)
	header.PutUint64(uint64(compressed.Len()))

	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err = f.Write(header.Bytes()); err != nil {
		return err
	}

	written, err := f.Write(compressed.Bytes())
	if err != nil {
		return err
	}

	slog.Debug("column block written", "path", filePath, "raw_bytes", len(raw), "compressed_bytes", written)

	return nil
}

// raw byte access for dumping, scalar columns only

func scalarRaw[T ScalarTypes](data []T, typ schema.FieldType) (raw []byte, bounds ops.Bounds[float64]) {

	raw = bits.ArrayToBytes(data)

	if typ == schema.BoolFieldType || len(data) == 0 {
		return raw, ops.Bounds[float64]{}
	}

	for i, v := range data {
		f := scalarToFloat(v)
		if i == 0 {
			bounds = ops.Bounds[float64]{Min: f, Max: f}
		} else {
			bounds.Extend(f)
		}
	}

	return raw, bounds
}

func scalarToFloat(v any) float64 {
	switch x := v.(type) {
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		panic(fmt.Sprintf("unsupported scalar type %T", v))
	}
}

func (c *scalarColumn[T]) raw() ([]byte, ops.Bounds[float64], error) {
	raw, bounds := scalarRaw(c.data, c.typ)
	return raw, bounds, nil
}

func (c *arrayColumn[T]) raw() ([]byte, ops.Bounds[float64], error) {
	return nil, ops.Bounds[float64]{}, fmt.Errorf("array columns have no single raw block")
}
