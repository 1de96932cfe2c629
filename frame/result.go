package frame

import (
	"sync/atomic"
	"weak"
)

// Result is a lazy handle to the aggregate produced by a booked action.
// The first Get triggers the event loop of the frame it was booked on,
// which populates every outstanding handle at once.
//
// The handle references the frame weakly, so a result that outlives its
// frame reports ErrFrameGone instead of keeping the engine alive.
type Result[T any] struct {
	value *T
	ready *atomic.Bool
	df    weak.Pointer[frameImpl]
}

func makeResult[T any](df *frameImpl, value *T) *Result[T] {
	ready := &atomic.Bool{}
	df.readiness = append(df.readiness, ready)

	return &Result[T]{
		value: value,
		ready: ready,
		df:    weak.Make(df),
	}
}

// Get returns the aggregate, running the event loop first if no loop has
// populated it yet. Ownership stays with the handle.
func (r *Result[T]) Get() (*T, error) {

	if !r.ready.Load() {
		df := r.df.Value()
		if df == nil {
			return nil, ErrFrameGone
		}

		if runErr := df.run(); runErr != nil {
			return nil, runErr
		}
	}

	return r.value, nil
}

// MustGet is Get for contexts where the error cannot be handled anyway
func (r *Result[T]) MustGet() *T {
	v, err := r.Get()
	if err != nil {
		panic(err)
	}
	return v
}
