package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// PreviewLimit is the number of rows shown in the table preview.
const PreviewLimit = 10

// Row maps field names to cell values.
type Row map[string]Cell

// Dataset is an ordered table: field names in source order plus one Row
// per data record. An empty Dataset (no fields, no rows) is what a
// source without data rows decodes to.
type Dataset struct {
	Fields []string
	Rows   []Row
}

func (d Dataset) Empty() bool {
	return len(d.Rows) == 0
}

// Preview returns the first limit rows and whether any rows were cut
// off. A non-positive limit falls back to PreviewLimit. The full row
// count for a "showing K of N" notice is len(d.Rows).
func (d Dataset) Preview(limit int) ([]Row, bool) {
	if limit <= 0 {
		limit = PreviewLimit
	}
	if len(d.Rows) <= limit {
		return d.Rows, false
	}
	return d.Rows[:limit], true
}

// DecodeError reports that a byte stream could not be interpreted in
// the declared format. Callers keep their previous data on it.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// File decodes a spreadsheet file, dispatching on its extension.
func File(path string) (Dataset, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return Dataset{}, err
		}
		defer f.Close()
		return CSV(f)
	case ".xlsx":
		f, err := os.Open(path)
		if err != nil {
			return Dataset{}, err
		}
		defer f.Close()
		return XLSX(f)
	default:
		return Dataset{}, fmt.Errorf("unsupported file type: %s", ext)
	}
}

// CSV decodes comma-separated text. The first record is the header;
// a file with a header but no data rows decodes to an empty Dataset.
func CSV(r io.Reader) (Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return Dataset{}, &DecodeError{Format: "csv", Err: err}
	}
	return fromRecords(records), nil
}

// XLSX decodes a workbook. Only the first sheet is read.
func XLSX(r io.Reader) (Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Dataset{}, &DecodeError{Format: "xlsx", Err: err}
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return Dataset{}, &DecodeError{Format: "xlsx", Err: err}
	}
	return fromRecords(rows), nil
}

func fromRecords(records [][]string) Dataset {
	if len(records) < 2 {
		return Dataset{}
	}

	fields := fieldNames(records[0])
	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(fields))
		for i, name := range fields {
			raw := ""
			if i < len(record) {
				raw = record[i]
			}
			row[name] = CellOf(raw)
		}
		rows = append(rows, row)
	}
	return Dataset{Fields: fields, Rows: rows}
}

// fieldNames derives unique field names from the header record. Blank
// headers get a positional name; duplicates get a numeric suffix so
// every column stays addressable.
func fieldNames(header []string) []string {
	fields := make([]string, 0, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Column %d", i+1)
		}
		if seen[name] {
			base := name
			for n := 2; seen[name]; n++ {
				name = fmt.Sprintf("%s (%d)", base, n)
			}
		}
		seen[name] = true
		fields = append(fields, name)
	}
	return fields
}
