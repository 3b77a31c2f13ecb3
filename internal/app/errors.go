package service

import "errors"

// ErrCanceled is returned when the run context ends before the pipeline
// finishes. It wraps the context error.
var ErrCanceled = errors.New("pipeline canceled")
