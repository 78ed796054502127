package expr

import "errors"

var (
	// ErrParse is wrapped by every compilation error returned from
	// ParseAccess and ParseInterpolation.
	ErrParse = errors.New("expr: cannot parse expression")

	// ErrEvaluate is wrapped by evaluation errors, e.g. calling a value
	// that is not a function.
	ErrEvaluate = errors.New("expr: cannot evaluate expression")
)
