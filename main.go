package main

import (
	"log"
	"math/rand"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/dot5enko/lazyframe/frame"
	"github.com/dot5enko/lazyframe/hist"
	"github.com/dot5enko/lazyframe/table"
	"github.com/fatih/color"
)

func gen_fake_data(size int) *table.MemTable {

	energy := make([]float64, size)
	charge := make([]int32, size)

	for i := 0; i < size; i++ {
		energy[i] = rand.Float64() * 50000
		charge[i] = int32(rand.Int63n(3)) - 1
	}

	log.Printf("generated %d rows", size)

	t := table.NewMemTable("events")

	if err := table.AddColumn(t, "energy", energy); err != nil {
		panic(err)
	}
	if err := table.AddColumn(t, "charge", charge); err != nil {
		panic(err)
	}

	return t
}

func main() {

	mt := gen_fake_data(100_000)

	dumpErr := table.DumpTable(mt, "./storage")
	if dumpErr != nil {
		panic(dumpErr)
	}

	dt, openErr := table.OpenDiskTable("./storage", "events")
	if openErr != nil {
		panic(openErr)
	}

	bounds, boundsErr := dt.ColumnBounds("energy")
	if boundsErr != nil {
		panic(boundsErr)
	}
	log.Printf("energy bounds from block header : [%.2f, %.2f]", bounds.Min, bounds.Max)

	frame.SetPoolSize(4)

	df := frame.New(dt, frame.Config{DefaultColumns: []string{"energy"}})

	charged, chainErr := df.FilterNamed("charged", func(q int32) bool { return q != 0 }, "charge")
	if chainErr != nil {
		panic(chainErr)
	}

	hot, hotErr := charged.FilterNamed("hot", func(e float64) bool { return e > 25000 }, "energy")
	if hotErr != nil {
		panic(hotErr)
	}

	count, _ := hot.Count()
	mean, _ := hot.Mean()
	spectrum, _ := hot.Histo1D(hist.NewH1D(64, bounds.Min, bounds.Max))

	// nothing has been read yet, the first dereference runs the loop
	log.Printf("hot charged rows : %d", *count.MustGet())
	log.Printf("mean hot energy  : %.2f", *mean.MustGet())

	h := spectrum.MustGet()
	log.Printf("spectrum entries : %d", h.Entries())

	if reportErr := df.Report(); reportErr != nil {
		color.Red("report failed: %s", reportErr.Error())
	}

	if os.Getenv("LAZYFRAME_DEBUG") != "" {
		spew.Dump(h.Axis())
	}
}
