package frame

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

type FilterStats struct {
	Name     string
	Accepted uint64
	Rejected uint64
}

func (s FilterStats) All() uint64 {
	return s.Accepted + s.Rejected
}

func (s FilterStats) Efficiency() float64 {
	all := s.All()
	if all == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(all) * 100
}

// Stats collects the counters of named filters between the root and this
// chain position, in booking order. Called on the root chain it covers
// every named filter of the graph. Fails until the event loop has run.
func (c *Chain) Stats() ([]FilterStats, error) {

	if !c.df.hasRun {
		return nil, ErrNotRun
	}

	out := []FilterStats{}

	if _, isRoot := c.node.(*rootNode); isRoot {
		for _, f := range c.df.filters {
			f.collectOwnStats(&out)
		}
	} else {
		c.node.collectStats(&out)
	}

	return out, nil
}

// Report prints the stats of Stats, colorized, one named filter per line
func (c *Chain) Report() error {
	return c.Freport(os.Stdout)
}

func (c *Chain) Freport(w io.Writer) error {

	stats, statsErr := c.Stats()
	if statsErr != nil {
		return statsErr
	}

	for _, s := range stats {
		fmt.Fprintf(w, "%s : pass=%d all=%d -- %s\n",
			color.CyanString("%s", s.Name),
			s.Accepted,
			s.All(),
			color.GreenString("%.3f %%", s.Efficiency()))
	}

	return nil
}
