package probe

import "errors"

var (
	// ErrUnhealthy is returned when the service health check fails.
	ErrUnhealthy = errors.New("service unhealthy")
	// ErrEmptyDataset is returned when /predictions yields no rows.
	ErrEmptyDataset = errors.New("no predictions to probe")
	// ErrUnexpectedStatus is returned for non-200 responses.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrViolations is returned when any response breaks an evaluation or ranking rule.
	ErrViolations = errors.New("probe found violations")
)
