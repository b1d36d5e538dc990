package enrich

import "errors"

// Sentinel kinds for enrichment errors.
var (
	ErrNoProfile  = errors.New("no player profile")
	ErrDisabled   = errors.New("enrichment disabled")
	ErrUpstream   = errors.New("profile upstream failed")
	ErrEmptyQuery = errors.New("empty player name")
)
