package table

import (
	"errors"
	"sync"
	"testing"
)

func buildDiskTable(t *testing.T) *DiskTable {
	t.Helper()

	mt := NewMemTable("events")
	if err := AddColumn(mt, "x", []int32{5, -3, 12, 0}); err != nil {
		t.Fatalf("unable to add column: %s", err.Error())
	}
	if err := AddColumn(mt, "e", []float64{1.5, 2.5, 3.5, 4.5}); err != nil {
		t.Fatalf("unable to add column: %s", err.Error())
	}

	dir := t.TempDir()

	if err := DumpTable(mt, dir); err != nil {
		t.Fatalf("dump failed: %s", err.Error())
	}

	dt, openErr := OpenDiskTable(dir, "events")
	if openErr != nil {
		t.Fatalf("open failed: %s", openErr.Error())
	}

	return dt
}

func TestDiskRoundTrip(t *testing.T) {

	dt := buildDiskTable(t)

	if dt.NumRows() != 4 {
		t.Errorf("Expected %d rows but got %d", 4, dt.NumRows())
	}

	r, _ := dt.Reader(0)

	xCur, err := r.Cursor("x")
	if err != nil {
		t.Fatalf("cursor failed: %s", err.Error())
	}

	for i, want := range []int32{5, -3, 12, 0} {
		v, readErr := xCur.Value(int64(i))
		if readErr != nil {
			t.Fatalf("read failed: %s", readErr.Error())
		}
		if v.(int32) != want {
			t.Errorf("row %d : Expected %d but got %v", i, want, v)
		}
	}

	eCur, _ := r.Cursor("e")
	v, _ := eCur.Value(3)
	if v.(float64) != 4.5 {
		t.Errorf("Expected %v but got %v", 4.5, v)
	}
}

func TestDiskColumnBounds(t *testing.T) {

	dt := buildDiskTable(t)

	bounds, err := dt.ColumnBounds("x")
	if err != nil {
		t.Fatalf("bounds failed: %s", err.Error())
	}

	if bounds.Min != -3 || bounds.Max != 12 {
		t.Errorf("Expected [-3, 12] but got [%v, %v]", bounds.Min, bounds.Max)
	}
}

func TestDiskConcurrentCursors(t *testing.T) {

	dt := buildDiskTable(t)

	wg := sync.WaitGroup{}
	for slot := 0; slot < 8; slot++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()

			r, _ := dt.Reader(slot)
			cur, err := r.Cursor("e")
			if err != nil {
				t.Errorf("cursor failed: %s", err.Error())
				return
			}

			v, readErr := cur.Value(0)
			if readErr != nil {
				t.Errorf("read failed: %s", readErr.Error())
				return
			}
			if v.(float64) != 1.5 {
				t.Errorf("Expected %v but got %v", 1.5, v)
			}
		}(slot)
	}
	wg.Wait()
}

func TestOpenMissingTable(t *testing.T) {

	_, err := OpenDiskTable(t.TempDir(), "nope")
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("Expected ErrSourceUnavailable but got %v", err)
	}
}

func TestDumpRejectsArrayColumns(t *testing.T) {

	mt := NewMemTable("t")
	if err := mt.AddFloat64ArrayColumn("a", [][]float64{{1}}); err != nil {
		t.Fatalf("unable to add column: %s", err.Error())
	}

	if err := DumpTable(mt, t.TempDir()); err == nil {
		t.Errorf("Expected array column dump to fail")
	}
}
