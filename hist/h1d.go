package hist

import (
	"fmt"
)

// H1D is a one dimensional weighted histogram with under/overflow bins
type H1D struct {
	axis Axis

	weights []float64
	entries uint64

	canExtend bool
}

func NewH1D(bins int, min, max float64) *H1D {
	if bins <= 0 {
		panic(fmt.Sprintf("bin count must be positive, got %d", bins))
	}
	return &H1D{
		axis:    Axis{Bins: bins, Min: min, Max: max},
		weights: make([]float64, bins+2),
	}
}

func (h *H1D) Axis() Axis {
	return h.axis
}

func (h *H1D) NBins() int {
	return h.axis.Bins
}

func (h *H1D) Entries() uint64 {
	return h.entries
}

// BinContent returns the summed weight of an in-range bin, 1-based.
// Index 0 is the underflow bin, NBins()+1 the overflow bin.
func (h *H1D) BinContent(bin int) float64 {
	return h.weights[bin]
}

func (h *H1D) HasAxisLimits() bool {
	return h.axis.HasLimits()
}

// SetCanExtendAllAxes marks the axis as growable: out of range fills widen
// the range (rebinning by bin centers) instead of landing in under/overflow
func (h *H1D) SetCanExtendAllAxes() {
	h.canExtend = true
}

// SetRange replaces the axis limits, redistributing any existing content by
// bin center
func (h *H1D) SetRange(min, max float64) {
	h.rebinInto(Axis{Bins: h.axis.Bins, Min: min, Max: max})
}

// Fill adds one entry; an optional single weight defaults to 1
func (h *H1D) Fill(x float64, ws ...float64) {

	w := 1.0
	if len(ws) > 0 {
		w = ws[0]
	}

	if !h.axis.HasLimits() {
		h.axis.Min = x
		h.axis.Max = x + 1
	}

	if h.canExtend {
		h.extendToInclude(x)
	}

	h.weights[h.axis.FindBin(x)] += w
	h.entries++
}

// Clone produces an independent histogram with the same configuration and
// no content
func (h *H1D) Clone() *H1D {
	return &H1D{
		axis:      h.axis,
		weights:   make([]float64, h.axis.Bins+2),
		canExtend: h.canExtend,
	}
}

// Add merges another histogram bin-wise; binning must match exactly
func (h *H1D) Add(other *H1D) error {

	if err := h.axis.sameBinning(other.axis); err != nil {
		return err
	}

	for i, w := range other.weights {
		h.weights[i] += w
	}
	h.entries += other.entries

	return nil
}

func (h *H1D) extendToInclude(x float64) {

	for x < h.axis.Min || x >= h.axis.Max {

		width := h.axis.Max - h.axis.Min
		next := h.axis

		if x >= h.axis.Max {
			next.Max = h.axis.Min + 2*width
		} else {
			next.Min = h.axis.Max - 2*width
		}

		h.rebinInto(next)
	}
}

// rebinInto redistributes the current content into a new axis by bin center.
// Under/overflow content has no known position, so it is carried over as is
// into the new under/overflow bins, even when the new range would cover it.
func (h *H1D) rebinInto(next Axis) {

	rebinned := make([]float64, next.Bins+2)

	rebinned[0] = h.weights[0]
	rebinned[next.Bins+1] = h.weights[h.axis.Bins+1]

	if h.axis.HasLimits() {
		for bin := 1; bin <= h.axis.Bins; bin++ {
			if h.weights[bin] == 0 {
				continue
			}
			rebinned[next.FindBin(h.axis.BinCenter(bin))] += h.weights[bin]
		}
	}

	h.axis = next
	h.weights = rebinned
}
