package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted  = errors.New("service not started")
	ErrNoDataset   = errors.New("no dataset configured")
	ErrNoBets      = errors.New("no bets supplied")
	ErrTooManyBets = errors.New("too many bets")
)
