package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// resolve returns the first existing location of name: the primary
// directory, then the fallback directory. fallback reports whether the
// second location was used.
func (l *Loader) resolve(name string) (path string, fallback bool, err error) {
	primary := filepath.Join(l.dir, name)
	_, err = os.Stat(primary)
	if err == nil {
		return primary, false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) || l.fallbackDir == "" {
		return "", false, fmt.Errorf("%w: %s: %v", ErrNotFound, primary, err)
	}

	secondary := filepath.Join(l.fallbackDir, name)
	if _, err2 := os.Stat(secondary); err2 != nil {
		return "", false, fmt.Errorf("%w: tried %s and %s", ErrNotFound, primary, secondary)
	}
	return secondary, true, nil
}

// readFrame loads a .csv or .xlsx file into a string-typed DataFrame with
// trimmed, lower-cased column names.
func readFrame(path string) (dataframe.DataFrame, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		records, err = readCSV(path)
	case ".xlsx":
		records, err = readSheet(path)
	default:
		err = fmt.Errorf("%w: %s", ErrFormat, path)
	}
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	var df dataframe.DataFrame
	if len(records) == 1 {
		// gota refuses a header without rows.
		df = emptyFrame(records[0])
	} else {
		df = dataframe.LoadRecords(records, loadOptions()...)
	}
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s: %v", ErrFormat, path, df.Err)
	}
	return normalizeNames(df, path)
}

// loadOptions keeps every column as text; typing happens against the schema.
func loadOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	}
}

// emptyFrame builds a zero-row frame carrying the given header.
func emptyFrame(header []string) dataframe.DataFrame {
	cols := make([]series.Series, len(header))
	for i, name := range header {
		cols[i] = series.New([]string{}, series.String, name)
	}
	return dataframe.New(cols...)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFormat, path, err)
	}
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFormat, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s: file is empty", ErrFormat, path)
	}
	return records, nil
}

// readSheet returns the rows of the first worksheet, padded to the header width.
func readSheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFormat, path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s: workbook has no sheets", ErrFormat, path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFormat, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s: sheet %q is empty", ErrFormat, path, sheets[0])
	}

	// GetRows drops trailing empty cells.
	width := len(rows[0])
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row[:width]
	}
	return rows, nil
}

// Spreadsheet tools often prefix CSV exports with a UTF-8 byte order mark.
const byteOrderMark = "\ufeff"

func normalizeNames(df dataframe.DataFrame, path string) (dataframe.DataFrame, error) {
	lower := cases.Lower(language.Und)
	seen := make(map[string]string, df.Ncol())
	for i, name := range df.Names() {
		clean := name
		if i == 0 {
			clean = strings.TrimPrefix(clean, byteOrderMark)
		}
		norm := lower.String(strings.TrimSpace(clean))
		if prev, dup := seen[norm]; dup {
			return dataframe.DataFrame{}, fmt.Errorf("%w: %s: columns %q and %q collide as %q", ErrSchema, path, prev, name, norm)
		}
		seen[norm] = name
		if norm != name {
			df = df.Rename(norm, name)
		}
	}
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s: %v", ErrFormat, path, df.Err)
	}
	return df, nil
}
