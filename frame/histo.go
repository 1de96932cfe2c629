package frame

import (
	"fmt"
	"reflect"

	"github.com/dot5enko/lazyframe/hist"
)

// Histo1D books a one dimensional histogram fill over a column, optionally
// weighted by a second column: cols is (), (x) or (x, w).
//
// A model without axis limits switches the action into buffered mode: all
// values are kept per slot during the pass and the range is derived from
// their union extrema before a single fill. This trades memory for one
// shot axis selection.
func (c *Chain) Histo1D(model *hist.H1D, cols ...string) (*Result[hist.H1D], error) {
	return c.histo1DImpl(model, cols, nil)
}

// Histo1DOf is Histo1D with the value column element type supplied
// explicitly, escaping the closed inference set
func Histo1DOf[T any](c *Chain, model *hist.H1D, cols ...string) (*Result[hist.H1D], error) {

	kind, kindErr := kindOfGoType(reflect.TypeFor[T]())
	if kindErr != nil {
		return nil, kindErr
	}

	return c.histo1DImpl(model, cols, &kind)
}

func (c *Chain) histo1DImpl(model *hist.H1D, cols []string, explicit *numKind) (*Result[hist.H1D], error) {

	if len(cols) > 2 {
		return nil, fmt.Errorf("%w : at most a value and a weight column, got %d names", ErrBadCallable, len(cols))
	}

	weighted := len(cols) == 2
	arity := 1
	if weighted {
		arity = 2
	}

	bl, bindings, resolveErr := c.resolveActionColumns(arity, cols, "fill the histogram")
	if resolveErr != nil {
		return nil, resolveErr
	}

	var kind numKind
	if explicit != nil {
		kind = *explicit
	} else {
		inferred, inferErr := c.inferColumnKind(bl[0])
		if inferErr != nil {
			return nil, inferErr
		}
		kind = inferred
	}

	var op operation
	if model.HasAxisLimits() {
		op = &fill1DOp{result: model, kind: kind, weighted: weighted}
	} else {
		model.SetCanExtendAllAxes()
		op = &buf1DOp{result: model, kind: kind, weighted: weighted}
	}

	c.bookResolved(bindings, op)

	return makeResult(c.df, model), nil
}

// Histo2D books a two dimensional histogram fill: cols is (), (x, y) or
// (x, y, w). Models without axis limits are rejected.
func (c *Chain) Histo2D(model *hist.H2D, cols ...string) (*Result[hist.H2D], error) {

	if !model.HasAxisLimits() {
		return nil, ErrHistogramNeedsAxisLimits
	}

	if len(cols) > 3 {
		return nil, fmt.Errorf("%w : at most two values and a weight column, got %d names", ErrBadCallable, len(cols))
	}

	weighted := len(cols) == 3
	arity := 2
	if weighted {
		arity = 3
	}

	_, bindings, resolveErr := c.resolveActionColumns(arity, cols, "fill the histogram")
	if resolveErr != nil {
		return nil, resolveErr
	}

	c.bookResolved(bindings, &fill2DOp{result: model, weighted: weighted})

	return makeResult(c.df, model), nil
}

// Histo3D books a three dimensional histogram fill: cols is (), (x, y, z)
// or (x, y, z, w). Models without axis limits are rejected.
func (c *Chain) Histo3D(model *hist.H3D, cols ...string) (*Result[hist.H3D], error) {

	if !model.HasAxisLimits() {
		return nil, ErrHistogramNeedsAxisLimits
	}

	if len(cols) > 4 {
		return nil, fmt.Errorf("%w : at most three values and a weight column, got %d names", ErrBadCallable, len(cols))
	}

	weighted := len(cols) == 4
	arity := 3
	if weighted {
		arity = 4
	}

	_, bindings, resolveErr := c.resolveActionColumns(arity, cols, "fill the histogram")
	if resolveErr != nil {
		return nil, resolveErr
	}

	c.bookResolved(bindings, &fill3DOp{result: model, weighted: weighted})

	return makeResult(c.df, model), nil
}
