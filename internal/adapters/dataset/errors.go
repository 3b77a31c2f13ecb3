package dataset

import "errors"

// Sentinel kinds for dataset loading errors.
var (
	// ErrNotFound is returned when a dataset exists in neither location.
	ErrNotFound = errors.New("dataset not found")
	// ErrSchema is returned when columns are missing or a cell violates its type.
	ErrSchema = errors.New("dataset schema mismatch")
	// ErrFormat is returned for unsupported or unreadable files.
	ErrFormat = errors.New("unsupported dataset format")
)
