package hist

import "fmt"

// H2D is a two dimensional weighted histogram. Both axes must carry limits
// before any fill.
type H2D struct {
	xaxis Axis
	yaxis Axis

	weights []float64
	entries uint64
}

func NewH2D(xbins int, xmin, xmax float64, ybins int, ymin, ymax float64) *H2D {
	if xbins <= 0 || ybins <= 0 {
		panic(fmt.Sprintf("bin counts must be positive, got %d x %d", xbins, ybins))
	}
	return &H2D{
		xaxis:   Axis{Bins: xbins, Min: xmin, Max: xmax},
		yaxis:   Axis{Bins: ybins, Min: ymin, Max: ymax},
		weights: make([]float64, (xbins+2)*(ybins+2)),
	}
}

func (h *H2D) XAxis() Axis { return h.xaxis }
func (h *H2D) YAxis() Axis { return h.yaxis }

func (h *H2D) Entries() uint64 {
	return h.entries
}

func (h *H2D) HasAxisLimits() bool {
	return h.xaxis.HasLimits() && h.yaxis.HasLimits()
}

// SetCanExtendAllAxes exists for interface symmetry with H1D; growable axes
// are a one dimensional feature, booking rejects limitless 2D histograms
func (h *H2D) SetCanExtendAllAxes() {}

func (h *H2D) bin(xbin, ybin int) int {
	return ybin*(h.xaxis.Bins+2) + xbin
}

// BinContent returns the summed weight of a bin, 1-based per axis with
// 0/N+1 for under/overflow
func (h *H2D) BinContent(xbin, ybin int) float64 {
	return h.weights[h.bin(xbin, ybin)]
}

func (h *H2D) Fill(x, y float64, ws ...float64) {

	w := 1.0
	if len(ws) > 0 {
		w = ws[0]
	}

	h.weights[h.bin(h.xaxis.FindBin(x), h.yaxis.FindBin(y))] += w
	h.entries++
}

func (h *H2D) Clone() *H2D {
	return &H2D{
		xaxis:   h.xaxis,
		yaxis:   h.yaxis,
		weights: make([]float64, len(h.weights)),
	}
}

func (h *H2D) Add(other *H2D) error {

	if err := h.xaxis.sameBinning(other.xaxis); err != nil {
		return err
	}
	if err := h.yaxis.sameBinning(other.yaxis); err != nil {
		return err
	}

	for i, w := range other.weights {
		h.weights[i] += w
	}
	h.entries += other.entries

	return nil
}
