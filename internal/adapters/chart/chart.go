// Package chart writes bar charts to spreadsheet or PDF files.
package chart

import (
	"context"
	"fmt"
	"strings"
)

// Supported output formats.
const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// Bar is one labelled value.
type Bar struct {
	Label string
	Value float64
}

// Chart is a titled bar chart. Bars are drawn in slice order.
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	Bars   []Bar
}

// Renderer writes charts to a single file at path.
type Renderer interface {
	Render(ctx context.Context, path string, charts ...Chart) error
	// Format is also the file extension of the output.
	Format() string
}

// New returns the renderer for format.
func New(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatXLSX:
		return NewXLSX(), nil
	case FormatPDF:
		return NewPDF(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func maxValue(bars []Bar) float64 {
	var m float64
	for _, b := range bars {
		if b.Value > m {
			m = b.Value
		}
	}
	return m
}
