package frame

import "errors"

// booking time errors
var (
	ErrUnknownColumn            = errors.New("unknown column")
	ErrDuplicateName            = errors.New("column name already in use")
	ErrInsufficientDefaults     = errors.New("not enough default columns")
	ErrCannotInferType          = errors.New("unable to infer column type, please specify one")
	ErrBadPredicate             = errors.New("filter must be a func returning a single bool")
	ErrBadExpression            = errors.New("derived column must be a func with a single result")
	ErrBadCallable              = errors.New("callable signature does not match its input columns")
	ErrBadReducer               = errors.New("reduce function must have signature func(T, T) T")
	ErrHistogramNeedsAxisLimits = errors.New("2D and 3D histograms with no axis limits are not supported")
)

// run time errors
var (
	ErrUserCallableFailed = errors.New("user callable failed")
)

// lifecycle errors
var (
	ErrFrameGone = errors.New("the frame is not reachable: did it go out of scope?")
	ErrNotRun    = errors.New("the event loop has not been run yet")
)
