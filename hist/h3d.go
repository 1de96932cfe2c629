package hist

import "fmt"

// H3D is a three dimensional weighted histogram. All axes must carry limits
// before any fill.
type H3D struct {
	xaxis Axis
	yaxis Axis
	zaxis Axis

	weights []float64
	entries uint64
}

func NewH3D(
	xbins int, xmin, xmax float64,
	ybins int, ymin, ymax float64,
	zbins int, zmin, zmax float64,
) *H3D {
	if xbins <= 0 || ybins <= 0 || zbins <= 0 {
		panic(fmt.Sprintf("bin counts must be positive, got %d x %d x %d", xbins, ybins, zbins))
	}
	return &H3D{
		xaxis:   Axis{Bins: xbins, Min: xmin, Max: xmax},
		yaxis:   Axis{Bins: ybins, Min: ymin, Max: ymax},
		zaxis:   Axis{Bins: zbins, Min: zmin, Max: zmax},
		weights: make([]float64, (xbins+2)*(ybins+2)*(zbins+2)),
	}
}

func (h *H3D) XAxis() Axis { return h.xaxis }
func (h *H3D) YAxis() Axis { return h.yaxis }
func (h *H3D) ZAxis() Axis { return h.zaxis }

func (h *H3D) Entries() uint64 {
	return h.entries
}

func (h *H3D) HasAxisLimits() bool {
	return h.xaxis.HasLimits() && h.yaxis.HasLimits() && h.zaxis.HasLimits()
}

func (h *H3D) SetCanExtendAllAxes() {}

func (h *H3D) bin(xbin, ybin, zbin int) int {
	return (zbin*(h.yaxis.Bins+2)+ybin)*(h.xaxis.Bins+2) + xbin
}

func (h *H3D) BinContent(xbin, ybin, zbin int) float64 {
	return h.weights[h.bin(xbin, ybin, zbin)]
}

func (h *H3D) Fill(x, y, z float64, ws ...float64) {

	w := 1.0
	if len(ws) > 0 {
		w = ws[0]
	}

	h.weights[h.bin(h.xaxis.FindBin(x), h.yaxis.FindBin(y), h.zaxis.FindBin(z))] += w
	h.entries++
}

func (h *H3D) Clone() *H3D {
	return &H3D{
		xaxis:   h.xaxis,
		yaxis:   h.yaxis,
		zaxis:   h.zaxis,
		weights: make([]float64, len(h.weights)),
	}
}

func (h *H3D) Add(other *H3D) error {

	if err := h.xaxis.sameBinning(other.xaxis); err != nil {
		return err
	}
	if err := h.yaxis.sameBinning(other.yaxis); err != nil {
		return err
	}
	if err := h.zaxis.sameBinning(other.zaxis); err != nil {
		return err
	}

	for i, w := range other.weights {
		h.weights[i] += w
	}
	h.entries += other.entries

	return nil
}
