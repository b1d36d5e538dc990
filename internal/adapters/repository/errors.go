package repository

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrNotFound      = errors.New("player not found")
	ErrInvalidLimit  = errors.New("invalid predictions limit")
	ErrInvalidRecord = errors.New("invalid dataset record")
	ErrLoadDataset   = errors.New("load dataset failed")
)
