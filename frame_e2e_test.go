package main

import (
	"math"
	"testing"

	"github.com/dot5enko/lazyframe/frame"
	"github.com/dot5enko/lazyframe/hist"
	"github.com/dot5enko/lazyframe/table"
)

func TestEndToEndOverDiskTable(t *testing.T) {

	size := 1000

	energy := make([]float64, size)
	charge := make([]int32, size)

	for i := 0; i < size; i++ {
		energy[i] = float64(i)
		charge[i] = int32(i%3) - 1
	}

	mt := table.NewMemTable("events")
	if err := table.AddColumn(mt, "energy", energy); err != nil {
		t.Fatalf("unable to add column: %s", err.Error())
	}
	if err := table.AddColumn(mt, "charge", charge); err != nil {
		t.Fatalf("unable to add column: %s", err.Error())
	}

	dir := t.TempDir()
	if err := table.DumpTable(mt, dir); err != nil {
		t.Fatalf("dump failed: %s", err.Error())
	}

	dt, openErr := table.OpenDiskTable(dir, "events")
	if openErr != nil {
		t.Fatalf("open failed: %s", openErr.Error())
	}

	df := frame.New(dt, frame.Config{Slots: 4, DefaultColumns: []string{"energy"}})

	charged, err := df.FilterNamed("charged", func(q int32) bool { return q != 0 }, "charge")
	if err != nil {
		t.Fatalf("filter booking failed: %s", err.Error())
	}

	scaled, err := charged.Define("gev", func(e float64) float64 { return e / 1000 }, "energy")
	if err != nil {
		t.Fatalf("define booking failed: %s", err.Error())
	}

	count, _ := scaled.Count()
	mean, _ := scaled.Mean("gev")
	spectrum, _ := scaled.Histo1D(hist.NewH1D(10, 0, 1), "gev")

	// charge pattern -1,0,1 repeating : rows with i%3 == 1 are dropped
	wantCount := uint64(0)
	wantSum := 0.0
	for i := 0; i < size; i++ {
		if i%3 != 1 {
			wantCount++
			wantSum += float64(i) / 1000
		}
	}

	if got := *count.MustGet(); got != wantCount {
		t.Errorf("Expected %d but got %d", wantCount, got)
	}

	wantMean := wantSum / float64(wantCount)
	if got := *mean.MustGet(); math.Abs(got-wantMean) > 1e-9 {
		t.Errorf("Expected %v but got %v", wantMean, got)
	}

	h := spectrum.MustGet()
	if h.Entries() != wantCount {
		t.Errorf("Expected %d entries but got %d", wantCount, h.Entries())
	}

	stats, statsErr := df.Stats()
	if statsErr != nil {
		t.Fatalf("stats failed: %s", statsErr.Error())
	}

	if len(stats) != 1 || stats[0].Name != "charged" {
		t.Fatalf("stats wrong: %+v", stats)
	}
	if stats[0].All() != uint64(size) || stats[0].Accepted != wantCount {
		t.Errorf("charged stats wrong: %+v", stats[0])
	}
}
