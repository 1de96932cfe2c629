package table

import (
	"errors"
	"testing"
)

func TestSplitRows(t *testing.T) {

	ranges := SplitRows(10, 3)

	if len(ranges) != 3 {
		t.Fatalf("Expected %d ranges but got %d", 3, len(ranges))
	}

	var total int64
	var prevEnd int64
	for i, r := range ranges {
		if r.Begin != prevEnd {
			t.Errorf("range %d : Expected begin %d but got %d", i, prevEnd, r.Begin)
		}
		total += r.Len()
		prevEnd = r.End
	}

	if total != 10 {
		t.Errorf("Expected %d rows covered but got %d", 10, total)
	}
	if prevEnd != 10 {
		t.Errorf("Expected last range to end at %d but got %d", 10, prevEnd)
	}
}

func TestSplitRowsMoreSlotsThanRows(t *testing.T) {

	ranges := SplitRows(2, 8)

	if len(ranges) != 2 {
		t.Fatalf("Expected %d ranges but got %d", 2, len(ranges))
	}
}

func TestMemTableScalarCursor(t *testing.T) {

	mt := NewMemTable("t")
	if err := AddColumn(mt, "x", []int32{7, 8, 9}); err != nil {
		t.Fatalf("unable to add column: %s", err.Error())
	}

	if mt.NumRows() != 3 {
		t.Errorf("Expected %d rows but got %d", 3, mt.NumRows())
	}

	r, _ := mt.Reader(0)
	cur, err := r.Cursor("x")
	if err != nil {
		t.Fatalf("cursor failed: %s", err.Error())
	}

	v, readErr := cur.Value(1)
	if readErr != nil {
		t.Fatalf("read failed: %s", readErr.Error())
	}

	if v.(int32) != 8 {
		t.Errorf("Expected %d but got %v", 8, v)
	}

	if _, err := cur.Value(3); err == nil {
		t.Errorf("Expected out of range error")
	}

	if _, err := r.Cursor("nope"); !errors.Is(err, ErrNoSuchColumn) {
		t.Errorf("Expected ErrNoSuchColumn but got %v", err)
	}
}

func TestMemTableRowCountMismatch(t *testing.T) {

	mt := NewMemTable("t")
	if err := AddColumn(mt, "a", []int32{1, 2}); err != nil {
		t.Fatalf("unable to add column: %s", err.Error())
	}
	if err := AddColumn(mt, "b", []int32{1, 2, 3}); err == nil {
		t.Errorf("Expected row count mismatch error")
	}
}

func TestArrayColumnViews(t *testing.T) {

	mt := NewMemTable("t")
	if err := mt.AddFloat64ArrayColumn("a", [][]float64{{1, 2}, {3}}); err != nil {
		t.Fatalf("unable to add column: %s", err.Error())
	}

	r, _ := mt.Reader(0)
	cur, _ := r.Cursor("a")

	view, err := cur.ArrayView(0)
	if err != nil {
		t.Fatalf("view failed: %s", err.Error())
	}

	elems := view.([]float64)
	if len(elems) != 2 || elems[1] != 2 {
		t.Errorf("view wrong: %v", elems)
	}

	if _, err := cur.Value(0); err == nil {
		t.Errorf("Expected scalar read of an array column to fail")
	}
}

func TestStridedArrayColumnIsNonContiguous(t *testing.T) {

	mt := NewMemTable("t")
	flat := []float64{1, 0, 2, 0}
	if err := mt.AddStridedFloat64ArrayColumn("a", flat, 2, 2); err != nil {
		t.Fatalf("unable to add column: %s", err.Error())
	}

	r, _ := mt.Reader(0)
	cur, _ := r.Cursor("a")

	if _, err := cur.ArrayView(0); !errors.Is(err, ErrNonContiguousArray) {
		t.Errorf("Expected ErrNonContiguousArray but got %v", err)
	}
}

func TestStridedArrayColumnStrideOneReads(t *testing.T) {

	mt := NewMemTable("t")
	flat := []float64{1, 2, 3, 4}
	if err := mt.AddStridedFloat64ArrayColumn("a", flat, 2, 1); err != nil {
		t.Fatalf("unable to add column: %s", err.Error())
	}

	r, _ := mt.Reader(0)
	cur, _ := r.Cursor("a")

	view, err := cur.ArrayView(1)
	if err != nil {
		t.Fatalf("view failed: %s", err.Error())
	}

	elems := view.([]float64)
	if len(elems) != 2 || elems[0] != 3 || elems[1] != 4 {
		t.Errorf("view wrong: %v", elems)
	}
}
