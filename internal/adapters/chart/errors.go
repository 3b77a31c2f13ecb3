package chart

import "errors"

var (
	// ErrUnknownFormat is returned by New for a format with no renderer.
	ErrUnknownFormat = errors.New("unknown chart format")
	// ErrRender wraps failures while building or writing a chart file.
	ErrRender = errors.New("chart render failed")
)
