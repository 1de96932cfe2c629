package frame

import (
	"sync/atomic"

	"github.com/dot5enko/lazyframe/table"
)

// process wide concurrency hint, consulted once per New call
var poolSize atomic.Int32

// SetPoolSize sets the number of worker slots frames constructed afterwards
// will use. Values below 1 reset to serial execution.
func SetPoolSize(n int) {
	if n < 1 {
		n = 1
	}
	poolSize.Store(int32(n))
}

func PoolSize() int {
	n := int(poolSize.Load())
	if n < 1 {
		return 1
	}
	return n
}

type Config struct {
	// Slots overrides the process wide pool size for this frame
	Slots int

	// DefaultColumns substitute for omitted column lists when their length
	// covers the callable arity
	DefaultColumns []string
}

// chainNode is the upstream protocol every graph vertex speaks
type chainNode interface {
	checkFilters(slot int, row int64) (bool, error)
	collectStats(out *[]FilterStats)
}

// slotted is everything that owns per worker state
type slotted interface {
	createSlots(n int)
	bindReaders(slot int, r table.Reader) error
}

type frameImpl struct {
	provider    table.Provider
	defaultCols []string
	nSlots      int

	// booking order lists
	nodes   []slotted
	actions []*actionNode
	filters []*filterNode
	defines map[string]*defineNode

	readiness []*atomic.Bool
	hasRun    bool
}

// Frame is the root of a computation graph over one input table.
// Chain transformations and actions off it; booked actions only execute
// when a result handle is first dereferenced.
type Frame struct {
	*Chain
}

func New(provider table.Provider, cfg Config) *Frame {

	nSlots := cfg.Slots
	if nSlots < 1 {
		nSlots = PoolSize()
	}

	impl := &frameImpl{
		provider:    provider,
		defaultCols: cfg.DefaultColumns,
		nSlots:      nSlots,
		defines:     map[string]*defineNode{},
	}

	return &Frame{Chain: &Chain{df: impl, node: &rootNode{}}}
}

// Run executes the event loop eagerly. Result handles normally trigger it
// on first dereference; an explicit Run re-executes the full pass and
// re-populates every handle.
func (f *Frame) Run() error {
	return f.df.run()
}

func (df *frameImpl) book(n slotted) {
	df.nodes = append(df.nodes, n)
}

// rootNode terminates the recursive upstream chain
type rootNode struct{}

func (r *rootNode) checkFilters(slot int, row int64) (bool, error) {
	return true, nil
}

func (r *rootNode) collectStats(out *[]FilterStats) {
}
