package evaluator

import "errors"

// Sentinel kinds for evaluator errors.
var (
	ErrMissingLine = errors.New("missing line")
	ErrInvalidLine = errors.New("invalid line")
)
