package frame

import (
	"github.com/dot5enko/lazyframe/hist"
	"github.com/dot5enko/lazyframe/ops"
)

// Histo1D, axis limits known upfront: every slot fills its own clone,
// merge adds them bin-wise into the published histogram

type fill1DOp struct {
	result   *hist.H1D
	kind     numKind
	weighted bool

	partials []*hist.H1D
}

func (o *fill1DOp) createSlots(n int) {
	o.partials = make([]*hist.H1D, n)
	for i := range o.partials {
		o.partials[i] = o.result.Clone()
	}
}

func (o *fill1DOp) exec(slot int, vals []any) error {

	w := 1.0
	if o.weighted {
		var convErr error
		w, convErr = toFloat64(vals[1])
		if convErr != nil {
			return convErr
		}
	}

	return eachFloat64(vals[0], o.kind.isArray, func(x float64) {
		o.partials[slot].Fill(x, w)
	})
}

func (o *fill1DOp) merge() error {

	merged := o.result.Clone()
	for _, p := range o.partials {
		if addErr := merged.Add(p); addErr != nil {
			return addErr
		}
	}

	*o.result = *merged
	return nil
}

// Histo1D with unset axis limits: values are buffered per slot during the
// pass; merge derives the range from the union extrema, then fills the
// published histogram once, in slot id order. Trades memory for one shot
// axis selection.

type buf1DOp struct {
	result   *hist.H1D
	kind     numKind
	weighted bool

	bufs  [][]float64
	wbufs [][]float64
}

func (o *buf1DOp) createSlots(n int) {
	o.bufs = make([][]float64, n)
	o.wbufs = make([][]float64, n)
}

func (o *buf1DOp) exec(slot int, vals []any) error {

	w := 1.0
	if o.weighted {
		var convErr error
		w, convErr = toFloat64(vals[1])
		if convErr != nil {
			return convErr
		}
	}

	return eachFloat64(vals[0], o.kind.isArray, func(x float64) {
		o.bufs[slot] = append(o.bufs[slot], x)
		o.wbufs[slot] = append(o.wbufs[slot], w)
	})
}

func (o *buf1DOp) merge() error {

	merged := o.result.Clone()

	var bounds ops.Bounds[float64]
	seeded := false

	for _, buf := range o.bufs {
		if len(buf) == 0 {
			continue
		}
		slotBounds := ops.GetMaxMin(buf)
		if !seeded {
			bounds = slotBounds
			seeded = true
		} else {
			bounds.Morph(slotBounds)
		}
	}

	if seeded {
		hi := bounds.Max + (bounds.Max-bounds.Min)/float64(2*merged.NBins())
		if hi == bounds.Max {
			hi = bounds.Max + 1
		}
		merged.SetRange(bounds.Min, hi)

		for slot, buf := range o.bufs {
			for i, x := range buf {
				merged.Fill(x, o.wbufs[slot][i])
			}
		}
	}

	*o.result = *merged
	return nil
}

// Histo2D / Histo3D, always with limits

type fill2DOp struct {
	result   *hist.H2D
	weighted bool

	partials []*hist.H2D
}

func (o *fill2DOp) createSlots(n int) {
	o.partials = make([]*hist.H2D, n)
	for i := range o.partials {
		o.partials[i] = o.result.Clone()
	}
}

func (o *fill2DOp) exec(slot int, vals []any) error {

	x, xErr := toFloat64(vals[0])
	if xErr != nil {
		return xErr
	}
	y, yErr := toFloat64(vals[1])
	if yErr != nil {
		return yErr
	}

	w := 1.0
	if o.weighted {
		var convErr error
		w, convErr = toFloat64(vals[2])
		if convErr != nil {
			return convErr
		}
	}

	o.partials[slot].Fill(x, y, w)
	return nil
}

func (o *fill2DOp) merge() error {

	merged := o.result.Clone()
	for _, p := range o.partials {
		if addErr := merged.Add(p); addErr != nil {
			return addErr
		}
	}

	*o.result = *merged
	return nil
}

type fill3DOp struct {
	result   *hist.H3D
	weighted bool

	partials []*hist.H3D
}

func (o *fill3DOp) createSlots(n int) {
	o.partials = make([]*hist.H3D, n)
	for i := range o.partials {
		o.partials[i] = o.result.Clone()
	}
}

func (o *fill3DOp) exec(slot int, vals []any) error {

	x, xErr := toFloat64(vals[0])
	if xErr != nil {
		return xErr
	}
	y, yErr := toFloat64(vals[1])
	if yErr != nil {
		return yErr
	}
	z, zErr := toFloat64(vals[2])
	if zErr != nil {
		return zErr
	}

	w := 1.0
	if o.weighted {
		var convErr error
		w, convErr = toFloat64(vals[3])
		if convErr != nil {
			return convErr
		}
	}

	o.partials[slot].Fill(x, y, z, w)
	return nil
}

func (o *fill3DOp) merge() error {

	merged := o.result.Clone()
	for _, p := range o.partials {
		if addErr := merged.Add(p); addErr != nil {
			return addErr
		}
	}

	*o.result = *merged
	return nil
}
