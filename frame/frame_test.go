package frame_test

import (
	"errors"
	"math"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/dot5enko/lazyframe/frame"
	"github.com/dot5enko/lazyframe/hist"
	"github.com/dot5enko/lazyframe/table"
)

func intTable(t *testing.T, name string, vals []int32) *table.MemTable {
	t.Helper()

	mt := table.NewMemTable(name)
	if err := table.AddColumn(mt, "x", vals); err != nil {
		t.Fatalf("unable to add column: %s", err.Error())
	}
	return mt
}

func floatTable(t *testing.T, name string, vals []float64) *table.MemTable {
	t.Helper()

	mt := table.NewMemTable(name)
	if err := table.AddColumn(mt, "v", vals); err != nil {
		t.Fatalf("unable to add column: %s", err.Error())
	}
	return mt
}

func TestCountWithFilter(t *testing.T) {

	df := frame.New(intTable(t, "t", []int32{1, 2, 3, 4, 5}), frame.Config{})

	filtered, err := df.Filter(func(x int32) bool { return x > 2 }, "x")
	if err != nil {
		t.Fatalf("filter booking failed: %s", err.Error())
	}

	count, err := filtered.Count()
	if err != nil {
		t.Fatalf("count booking failed: %s", err.Error())
	}

	if got := *count.MustGet(); got != 3 {
		t.Errorf("Expected %d but got %d", 3, got)
	}
}

func TestMeanWithDefaultColumn(t *testing.T) {

	df := frame.New(floatTable(t, "t", []float64{1.0, 2.0, 3.0, 4.0}), frame.Config{
		DefaultColumns: []string{"v"},
	})

	mean, err := df.Mean()
	if err != nil {
		t.Fatalf("mean booking failed: %s", err.Error())
	}

	if got := *mean.MustGet(); got != 2.5 {
		t.Errorf("Expected %v but got %v", 2.5, got)
	}
}

func TestDefineAndHisto1D(t *testing.T) {

	df := frame.New(intTable(t, "t", []int32{0, 1, 2, 3}), frame.Config{})

	derived, err := df.Define("y", func(x int32) int32 { return 2 * x }, "x")
	if err != nil {
		t.Fatalf("define booking failed: %s", err.Error())
	}

	spectrum, err := derived.Histo1D(hist.NewH1D(4, 0, 8), "y")
	if err != nil {
		t.Fatalf("histo booking failed: %s", err.Error())
	}

	h := spectrum.MustGet()

	if h.Entries() != 4 {
		t.Errorf("Expected %d entries but got %d", 4, h.Entries())
	}

	for bin := 1; bin <= 4; bin++ {
		if got := h.BinContent(bin); got != 1 {
			t.Errorf("bin %d : Expected %v but got %v", bin, 1.0, got)
		}
	}
}

func TestReduceSameResultForAnySlotCount(t *testing.T) {

	for _, slots := range []int{1, 3} {

		df := frame.New(floatTable(t, "t", []float64{1.5, 2.5, 4.0}), frame.Config{Slots: slots})

		sum, err := frame.Reduce(df.Chain, func(a, b float64) float64 { return a + b }, "v", 0.0)
		if err != nil {
			t.Fatalf("reduce booking failed: %s", err.Error())
		}

		if got := *sum.MustGet(); got != 8.0 {
			t.Errorf("slots=%d : Expected %v but got %v", slots, 8.0, got)
		}
	}
}

func TestNamedFiltersReport(t *testing.T) {

	df := frame.New(intTable(t, "t", []int32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}), frame.Config{})

	even, err := df.FilterNamed("even", func(x int32) bool { return x%2 == 0 }, "x")
	if err != nil {
		t.Fatalf("filter booking failed: %s", err.Error())
	}

	big, err := even.FilterNamed("big", func(x int32) bool { return x > 6 }, "x")
	if err != nil {
		t.Fatalf("filter booking failed: %s", err.Error())
	}

	if _, err := big.Stats(); !errors.Is(err, frame.ErrNotRun) {
		t.Errorf("Expected ErrNotRun but got %v", err)
	}

	count, _ := big.Count()
	if got := *count.MustGet(); got != 2 {
		t.Errorf("Expected %d but got %d", 2, got)
	}

	stats, err := big.Stats()
	if err != nil {
		t.Fatalf("stats failed: %s", err.Error())
	}

	if len(stats) != 2 {
		t.Fatalf("Expected %d named filters but got %d", 2, len(stats))
	}

	if stats[0].Name != "even" || stats[0].Accepted != 5 || stats[0].All() != 10 {
		t.Errorf("even stats wrong: %+v", stats[0])
	}
	if stats[1].Name != "big" || stats[1].Accepted != 2 || stats[1].All() != 5 {
		t.Errorf("big stats wrong: %+v", stats[1])
	}
}

func TestTakeKeepsSlotOrder(t *testing.T) {

	input := []int32{3, 1, 4, 1, 5, 9, 2, 6}

	df := frame.New(intTable(t, "t", input), frame.Config{Slots: 2})

	taken, err := frame.Take[int32](df.Chain, "x")
	if err != nil {
		t.Fatalf("take booking failed: %s", err.Error())
	}

	got := *taken.MustGet()

	if len(got) != len(input) {
		t.Fatalf("Expected %d values but got %d", len(input), len(got))
	}

	for i := range input {
		if got[i] != input[i] {
			t.Errorf("index %d : Expected %d but got %d", i, input[i], got[i])
		}
	}
}

// counting provider to observe source IO

type countingProvider struct {
	table.Provider
	readers atomic.Int64
}

func (p *countingProvider) Reader(slot int) (table.Reader, error) {
	p.readers.Add(1)
	return p.Provider.Reader(slot)
}

func TestBookingCausesNoSourceIO(t *testing.T) {

	src := &countingProvider{Provider: intTable(t, "t", []int32{1, 2, 3})}

	df := frame.New(src, frame.Config{})

	var predicateCalls atomic.Int64

	filtered, _ := df.Filter(func(x int32) bool {
		predicateCalls.Add(1)
		return x > 1
	}, "x")

	count, _ := filtered.Count()

	if src.readers.Load() != 0 {
		t.Errorf("Expected no reader to be opened before dereference, got %d", src.readers.Load())
	}
	if predicateCalls.Load() != 0 {
		t.Errorf("Expected no predicate calls before dereference, got %d", predicateCalls.Load())
	}

	if got := *count.MustGet(); got != 2 {
		t.Errorf("Expected %d but got %d", 2, got)
	}

	if src.readers.Load() == 0 {
		t.Errorf("Expected the dereference to open readers")
	}
}

func TestFilterEvaluatedOncePerRow(t *testing.T) {

	df := frame.New(intTable(t, "t", []int32{1, 2, 3, 4}), frame.Config{})

	var predicateCalls atomic.Int64

	filtered, _ := df.Filter(func(x int32) bool {
		predicateCalls.Add(1)
		return x > 1
	}, "x")

	// two actions share the same filter
	countA, _ := filtered.Count()
	countB, _ := filtered.Count()

	if *countA.MustGet() != 3 || *countB.MustGet() != 3 {
		t.Fatalf("counts wrong: %d %d", *countA.MustGet(), *countB.MustGet())
	}

	if got := predicateCalls.Load(); got != 4 {
		t.Errorf("Expected %d predicate calls but got %d", 4, got)
	}
}

func TestShortCircuitChainedFilters(t *testing.T) {

	df := frame.New(intTable(t, "t", []int32{1, 2, 3}), frame.Config{})

	never, _ := df.Filter(func(x int32) bool { return x > 100 }, "x")

	var downstreamCalls atomic.Int64
	second, _ := never.Filter(func(x int32) bool {
		downstreamCalls.Add(1)
		return true
	}, "x")

	count, _ := second.Count()

	if got := *count.MustGet(); got != 0 {
		t.Errorf("Expected %d but got %d", 0, got)
	}
	if got := downstreamCalls.Load(); got != 0 {
		t.Errorf("Expected downstream predicate to never run, got %d calls", got)
	}
}

func TestDefineEvaluatedOncePerRow(t *testing.T) {

	df := frame.New(intTable(t, "t", []int32{1, 2, 3}), frame.Config{})

	var exprCalls atomic.Int64

	derived, _ := df.Define("y", func(x int32) float64 {
		exprCalls.Add(1)
		return float64(x) * 10
	}, "x")

	// two actions consume the derived column in the same pass
	minV, _ := derived.Min("y")
	maxV, _ := derived.Max("y")

	if got := *minV.MustGet(); got != 10 {
		t.Errorf("Expected %v but got %v", 10.0, got)
	}
	if got := *maxV.MustGet(); got != 30 {
		t.Errorf("Expected %v but got %v", 30.0, got)
	}

	if got := exprCalls.Load(); got != 3 {
		t.Errorf("Expected %d expression calls but got %d", 3, got)
	}
}

func TestRerunRepopulatesResults(t *testing.T) {

	df := frame.New(intTable(t, "t", []int32{1, 2, 3}), frame.Config{})

	count, _ := df.Count()

	if got := *count.MustGet(); got != 3 {
		t.Errorf("Expected %d but got %d", 3, got)
	}

	if err := df.Run(); err != nil {
		t.Fatalf("rerun failed: %s", err.Error())
	}

	if got := *count.MustGet(); got != 3 {
		t.Errorf("Expected %d after rerun but got %d", 3, got)
	}
}

func TestMinMaxOnEmptySelection(t *testing.T) {

	df := frame.New(floatTable(t, "t", []float64{1, 2, 3}), frame.Config{})

	none, _ := df.Filter(func(v float64) bool { return false }, "v")

	minV, _ := none.Min("v")
	maxV, _ := none.Max("v")

	if got := *minV.MustGet(); !math.IsInf(got, 1) {
		t.Errorf("Expected +Inf but got %v", got)
	}
	if got := *maxV.MustGet(); !math.IsInf(got, -1) {
		t.Errorf("Expected -Inf but got %v", got)
	}
}

func TestBookingErrors(t *testing.T) {

	df := frame.New(intTable(t, "t", []int32{1}), frame.Config{})

	if _, err := df.Filter(func(x int32) bool { return true }, "nope"); !errors.Is(err, frame.ErrUnknownColumn) {
		t.Errorf("Expected ErrUnknownColumn but got %v", err)
	}

	if _, err := df.Filter(func(x int32) int32 { return x }, "x"); !errors.Is(err, frame.ErrBadPredicate) {
		t.Errorf("Expected ErrBadPredicate but got %v", err)
	}

	// no default columns configured
	if _, err := df.Mean(); !errors.Is(err, frame.ErrInsufficientDefaults) {
		t.Errorf("Expected ErrInsufficientDefaults but got %v", err)
	}

	derived, defineErr := df.Define("y", func(x int32) int32 { return x }, "x")
	if defineErr != nil {
		t.Fatalf("define booking failed: %s", defineErr.Error())
	}

	if _, err := derived.Define("y", func(x int32) int32 { return x }, "x"); !errors.Is(err, frame.ErrDuplicateName) {
		t.Errorf("Expected ErrDuplicateName for duplicate derived name but got %v", err)
	}

	if _, err := derived.Define("x", func(x int32) int32 { return x }, "x"); !errors.Is(err, frame.ErrDuplicateName) {
		t.Errorf("Expected ErrDuplicateName for shadowed physical column but got %v", err)
	}

	if _, err := derived.Histo2D(hist.NewH2D(4, 0, 0, 4, 0, 0), "x", "y"); !errors.Is(err, frame.ErrHistogramNeedsAxisLimits) {
		t.Errorf("Expected ErrHistogramNeedsAxisLimits but got %v", err)
	}
}

func TestCannotInferType(t *testing.T) {

	mt := table.NewMemTable("t")
	if err := table.AddColumn(mt, "u", []uint64{1, 2, 3}); err != nil {
		t.Fatalf("unable to add column: %s", err.Error())
	}

	df := frame.New(mt, frame.Config{})

	if _, err := df.Min("u"); !errors.Is(err, frame.ErrCannotInferType) {
		t.Errorf("Expected ErrCannotInferType but got %v", err)
	}

	// the explicitly typed entry point escapes the closed inference set
	minV, err := frame.MinOf[uint64](df.Chain, "u")
	if err != nil {
		t.Fatalf("explicitly typed min failed to book: %s", err.Error())
	}

	if got := *minV.MustGet(); got != 1 {
		t.Errorf("Expected %v but got %v", 1.0, got)
	}
}

func TestUserPanicAbortsRun(t *testing.T) {

	df := frame.New(intTable(t, "t", []int32{1, 2, 3}), frame.Config{})

	bad, _ := df.Filter(func(x int32) bool {
		if x == 2 {
			panic("boom")
		}
		return true
	}, "x")

	count, _ := bad.Count()

	if _, err := count.Get(); !errors.Is(err, frame.ErrUserCallableFailed) {
		t.Errorf("Expected ErrUserCallableFailed but got %v", err)
	}
}

func TestNonContiguousArrayFailsRun(t *testing.T) {

	mt := table.NewMemTable("t")
	flat := []float64{1, 0, 2, 0, 3, 0, 4, 0}
	if err := mt.AddStridedFloat64ArrayColumn("a", flat, 2, 2); err != nil {
		t.Fatalf("unable to add column: %s", err.Error())
	}

	df := frame.New(mt, frame.Config{})

	mean, _ := df.Mean("a")

	if _, err := mean.Get(); !errors.Is(err, table.ErrNonContiguousArray) {
		t.Errorf("Expected ErrNonContiguousArray but got %v", err)
	}
}

func TestArrayColumnFeedsEveryElement(t *testing.T) {

	mt := table.NewMemTable("t")
	if err := mt.AddFloat64ArrayColumn("a", [][]float64{{1, 2}, {3}, {4, 5, 6}}); err != nil {
		t.Fatalf("unable to add column: %s", err.Error())
	}

	df := frame.New(mt, frame.Config{})

	mean, _ := df.Mean("a")

	if got := *mean.MustGet(); got != 3.5 {
		t.Errorf("Expected %v but got %v", 3.5, got)
	}
}

func TestWeightedHisto1D(t *testing.T) {

	mt := table.NewMemTable("t")
	if err := table.AddColumn(mt, "x", []float64{0.5, 1.5, 0.5}); err != nil {
		t.Fatalf("unable to add column: %s", err.Error())
	}
	if err := table.AddColumn(mt, "w", []float64{2, 3, 4}); err != nil {
		t.Fatalf("unable to add column: %s", err.Error())
	}

	df := frame.New(mt, frame.Config{})

	spectrum, err := df.Histo1D(hist.NewH1D(2, 0, 2), "x", "w")
	if err != nil {
		t.Fatalf("histo booking failed: %s", err.Error())
	}

	h := spectrum.MustGet()

	if got := h.BinContent(1); got != 6 {
		t.Errorf("bin 1 : Expected %v but got %v", 6.0, got)
	}
	if got := h.BinContent(2); got != 3 {
		t.Errorf("bin 2 : Expected %v but got %v", 3.0, got)
	}
}

func TestHisto1DDeferredLimits(t *testing.T) {

	for _, slots := range []int{1, 2} {

		df := frame.New(floatTable(t, "t", []float64{1, 2, 3, 4}), frame.Config{Slots: slots})

		spectrum, err := df.Histo1D(hist.NewH1D(4, 0, 0), "v")
		if err != nil {
			t.Fatalf("histo booking failed: %s", err.Error())
		}

		h := spectrum.MustGet()

		if h.Entries() != 4 {
			t.Errorf("slots=%d : Expected %d entries but got %d", slots, 4, h.Entries())
		}

		axis := h.Axis()
		if !axis.HasLimits() {
			t.Fatalf("slots=%d : axis limits were not derived", slots)
		}
		if axis.Min != 1 {
			t.Errorf("slots=%d : Expected axis min %v but got %v", slots, 1.0, axis.Min)
		}
		if axis.Max <= 4 {
			t.Errorf("slots=%d : Expected axis max beyond %v but got %v", slots, 4.0, axis.Max)
		}

		var inRange float64
		for bin := 1; bin <= h.NBins(); bin++ {
			inRange += h.BinContent(bin)
		}
		if inRange != 4 {
			t.Errorf("slots=%d : Expected all %d fills in range but got %v", slots, 4, inRange)
		}
	}
}

func TestHisto2DAnd3D(t *testing.T) {

	mt := table.NewMemTable("t")
	if err := table.AddColumn(mt, "x", []float64{0.5, 1.5}); err != nil {
		t.Fatalf("unable to add column: %s", err.Error())
	}
	if err := table.AddColumn(mt, "y", []float64{0.5, 0.5}); err != nil {
		t.Fatalf("unable to add column: %s", err.Error())
	}
	if err := table.AddColumn(mt, "z", []float64{1.5, 1.5}); err != nil {
		t.Fatalf("unable to add column: %s", err.Error())
	}

	df := frame.New(mt, frame.Config{})

	h2, err := df.Histo2D(hist.NewH2D(2, 0, 2, 2, 0, 2), "x", "y")
	if err != nil {
		t.Fatalf("histo2d booking failed: %s", err.Error())
	}
	h3, err := df.Histo3D(hist.NewH3D(2, 0, 2, 2, 0, 2, 2, 0, 2), "x", "y", "z")
	if err != nil {
		t.Fatalf("histo3d booking failed: %s", err.Error())
	}

	if got := h2.MustGet().BinContent(1, 1); got != 1 {
		t.Errorf("h2 bin (1,1) : Expected %v but got %v", 1.0, got)
	}
	if got := h2.MustGet().BinContent(2, 1); got != 1 {
		t.Errorf("h2 bin (2,1) : Expected %v but got %v", 1.0, got)
	}
	if got := h3.MustGet().BinContent(1, 1, 2); got != 1 {
		t.Errorf("h3 bin (1,1,2) : Expected %v but got %v", 1.0, got)
	}
}

func TestForeachSlotIsInstant(t *testing.T) {

	df := frame.New(intTable(t, "t", []int32{1, 2, 3, 4}), frame.Config{Slots: 2})

	sums := make([]int64, 2)

	err := df.ForeachSlot(func(slot int, x int32) {
		sums[slot] += int64(x)
	}, "x")
	if err != nil {
		t.Fatalf("foreach slot failed: %s", err.Error())
	}

	if total := sums[0] + sums[1]; total != 10 {
		t.Errorf("Expected %d but got %d", 10, total)
	}
}

func TestForeachCollects(t *testing.T) {

	df := frame.New(intTable(t, "t", []int32{5, 6, 7}), frame.Config{})

	var total int64

	err := df.Foreach(func(x int32) {
		total += int64(x)
	}, "x")
	if err != nil {
		t.Fatalf("foreach failed: %s", err.Error())
	}

	if total != 18 {
		t.Errorf("Expected %d but got %d", 18, total)
	}
}

func TestTakeIntoCustomCollection(t *testing.T) {

	type readings []float64

	df := frame.New(floatTable(t, "t", []float64{1, 2, 3}), frame.Config{})

	taken, err := frame.TakeInto[readings](df.Chain, "v")
	if err != nil {
		t.Fatalf("take booking failed: %s", err.Error())
	}

	got := *taken.MustGet()
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("collection wrong: %v", got)
	}
}

func TestParallelDeterminism(t *testing.T) {

	vals := make([]float64, 1000)
	for i := range vals {
		vals[i] = float64(i%37) + 0.5
	}

	var baseCount uint64
	var baseMin, baseMax, baseMean float64

	for i, slots := range []int{1, 2, 4, 7} {

		df := frame.New(floatTable(t, "t", vals), frame.Config{Slots: slots})

		filtered, _ := df.Filter(func(v float64) bool { return v > 10 }, "v")

		count, _ := filtered.Count()
		minV, _ := filtered.Min("v")
		maxV, _ := filtered.Max("v")
		mean, _ := filtered.Mean("v")

		if i == 0 {
			baseCount = *count.MustGet()
			baseMin = *minV.MustGet()
			baseMax = *maxV.MustGet()
			baseMean = *mean.MustGet()
			continue
		}

		if got := *count.MustGet(); got != baseCount {
			t.Errorf("slots=%d : count Expected %d but got %d", slots, baseCount, got)
		}
		if got := *minV.MustGet(); got != baseMin {
			t.Errorf("slots=%d : min Expected %v but got %v", slots, baseMin, got)
		}
		if got := *maxV.MustGet(); got != baseMax {
			t.Errorf("slots=%d : max Expected %v but got %v", slots, baseMax, got)
		}
		if got := *mean.MustGet(); math.Abs(got-baseMean) > 1e-12 {
			t.Errorf("slots=%d : mean Expected %v but got %v", slots, baseMean, got)
		}
	}
}

func TestBranchedGraph(t *testing.T) {

	df := frame.New(intTable(t, "t", []int32{1, 2, 3, 4, 5, 6}), frame.Config{})

	small, _ := df.Filter(func(x int32) bool { return x <= 3 }, "x")
	large, _ := df.Filter(func(x int32) bool { return x > 3 }, "x")

	smallCount, _ := small.Count()
	largeCount, _ := large.Count()

	if got := *smallCount.MustGet(); got != 3 {
		t.Errorf("Expected %d but got %d", 3, got)
	}
	if got := *largeCount.MustGet(); got != 3 {
		t.Errorf("Expected %d but got %d", 3, got)
	}
}

func TestResultOutlivesFrame(t *testing.T) {

	leak := func() *frame.Result[uint64] {
		df := frame.New(intTable(t, "t", []int32{1, 2, 3}), frame.Config{})
		count, err := df.Count()
		if err != nil {
			t.Fatalf("count booking failed: %s", err.Error())
		}
		return count
	}

	count := leak()

	runtime.GC()
	runtime.GC()

	if _, err := count.Get(); !errors.Is(err, frame.ErrFrameGone) {
		t.Errorf("Expected ErrFrameGone but got %v", err)
	}
}

func TestDerivedColumnVisibility(t *testing.T) {

	df := frame.New(intTable(t, "t", []int32{1, 2, 3}), frame.Config{})

	// derived on one branch is not visible on a sibling branch
	_, err := df.Define("y", func(x int32) int32 { return x }, "x")
	if err != nil {
		t.Fatalf("define booking failed: %s", err.Error())
	}

	sibling, _ := df.Filter(func(x int32) bool { return true }, "x")

	if _, err := sibling.Min("y"); !errors.Is(err, frame.ErrUnknownColumn) {
		t.Errorf("Expected ErrUnknownColumn for sibling branch but got %v", err)
	}
}
