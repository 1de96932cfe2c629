package frame

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// run executes the single pass over the input: per slot state is created,
// rows are partitioned across workers, every booked action is fed each
// (slot, row), then per slot partials are merged on this goroutine in slot
// id order and all result handles flip ready.
//
// Booking after a run is allowed; the next run re-executes the full pass.
func (df *frameImpl) run() error {

	runId := uuid.NewString()[:8]
	started := time.Now()

	slog.Info("starting event loop",
		"run_id", runId,
		"table", df.provider.Name(),
		"rows", df.provider.NumRows(),
		"slots", df.nSlots,
		"actions", len(df.actions))

	for _, n := range df.nodes {
		n.createSlots(df.nSlots)
	}

	ranges := df.provider.Partition(df.nSlots)

	eg := errgroup.Group{}

	for slot := range ranges {
		rng := ranges[slot]

		eg.Go(func() error {

			reader, readerErr := df.provider.Reader(slot)
			if readerErr != nil {
				return fmt.Errorf("unable to open reader for slot %d : %s", slot, readerErr.Error())
			}
			defer reader.Close()

			for _, n := range df.nodes {
				if bindErr := n.bindReaders(slot, reader); bindErr != nil {
					return bindErr
				}
			}

			for row := rng.Begin; row < rng.End; row++ {
				for _, action := range df.actions {
					if actErr := action.run(slot, row); actErr != nil {
						return fmt.Errorf("slot %d row %d : %w", slot, row, actErr)
					}
				}
			}

			return nil
		})
	}

	if loopErr := eg.Wait(); loopErr != nil {
		color.Red("event loop failed: %s", loopErr.Error())
		slog.Debug("graph state on failure", "dump", spew.Sdump(df.provider.Schema()))
		return loopErr
	}

	for _, action := range df.actions {
		if mergeErr := action.op.merge(); mergeErr != nil {
			color.Red("merge failed: %s", mergeErr.Error())
			return mergeErr
		}
	}

	for _, ready := range df.readiness {
		ready.Store(true)
	}
	df.hasRun = true

	slog.Info("event loop done", "run_id", runId, "took_ms", time.Since(started).Milliseconds())

	return nil
}
