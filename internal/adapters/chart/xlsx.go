package chart

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// XLSX writes one worksheet per chart: the bar data in columns A:B and a
// native column chart beside it.
type XLSX struct{}

// NewXLSX returns the spreadsheet renderer.
func NewXLSX() *XLSX { return &XLSX{} }

// Format implements Renderer.
func (*XLSX) Format() string { return FormatXLSX }

// Render implements Renderer.
func (*XLSX) Render(ctx context.Context, path string, charts ...Chart) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	used := make(map[string]bool, len(charts))
	for i, c := range charts {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := sheetName(i, c.Title, used)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("%w: %v", ErrRender, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("%w: %v", ErrRender, err)
		}
		if err := writeSheet(f, name, c); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrRender, c.Title, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRender, path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, c Chart) error {
	header := []interface{}{orDefault(c.XLabel, "label"), orDefault(c.YLabel, "value")}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, b := range c.Bars {
		row := []interface{}{b.Label, b.Value}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	if len(c.Bars) == 0 {
		return nil
	}

	last := len(c.Bars) + 1
	ref := quoteSheet(sheet)
	return f.AddChart(sheet, "D2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", ref),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", ref, last),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", ref, last),
		}},
		Title:  []excelize.RichTextRun{{Text: c.Title}},
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: c.XLabel}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: c.YLabel}}},
	})
}

// sheetName derives a valid, unique worksheet name from the chart title.
func sheetName(i int, title string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']', '\'':
			return -1
		}
		return r
	}, strings.TrimSpace(title))
	for utf8.RuneCountInString(name) > maxSheetName {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	name = strings.TrimSpace(name)
	if name == "" || used[strings.ToLower(name)] {
		name = fmt.Sprintf("Chart %d", i+1)
	}
	used[strings.ToLower(name)] = true
	return name
}

func quoteSheet(name string) string {
	return "'" + name + "'"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
