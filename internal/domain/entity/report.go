package entity

import (
	"fmt"
	"math"
	"strconv"
)

// AggregatedRow is one grouped output row: the key parts and one value per metric.
// Missing is nil when every value is present; otherwise Missing[i] marks a
// metric no record contributed to, written as a blank cell.
type AggregatedRow struct {
	Key     []string  `json:"key" yaml:"key"`
	Count   int       `json:"count" yaml:"count"`
	Values  []float64 `json:"values" yaml:"values"`
	Missing []bool    `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Has reports whether metric i holds a value.
func (r AggregatedRow) Has(i int) bool {
	return i < len(r.Values) && (i >= len(r.Missing) || !r.Missing[i])
}

// ReportTable is an ordered aggregation result with its column headers.
type ReportTable struct {
	KeyColumns    []string        `json:"key_columns" yaml:"key_columns"`
	MetricColumns []string        `json:"metric_columns" yaml:"metric_columns"`
	Rows          []AggregatedRow `json:"rows" yaml:"rows"`
}

// Headers returns key columns followed by metric columns.
func (t ReportTable) Headers() []string {
	headers := make([]string, 0, len(t.KeyColumns)+len(t.MetricColumns))
	headers = append(headers, t.KeyColumns...)
	return append(headers, t.MetricColumns...)
}

// Sheet renders the table as a named sheet.
func (t ReportTable) Sheet(name string) Sheet {
	rows := make([][]interface{}, 0, len(t.Rows))
	for _, row := range t.Rows {
		cells := make([]interface{}, 0, len(row.Key)+len(row.Values))
		for _, k := range row.Key {
			cells = append(cells, k)
		}
		for i, v := range row.Values {
			if !row.Has(i) {
				cells = append(cells, nil)
				continue
			}
			cells = append(cells, CellNumber(v))
		}
		rows = append(rows, cells)
	}
	return Sheet{Name: name, Header: t.Headers(), Rows: rows}
}

// Sheet is a named grid written to one worksheet.
type Sheet struct {
	Name   string          `json:"name" yaml:"name"`
	Header []string        `json:"header" yaml:"header"`
	Rows   [][]interface{} `json:"rows" yaml:"rows"`
}

// RawSheet lays out records under the given columns; missing fields are empty.
func RawSheet(name string, columns []string, records []RawRecord) Sheet {
	rows := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		cells := make([]interface{}, len(columns))
		for i, col := range columns {
			cells[i] = rec.Get(col)
		}
		rows = append(rows, cells)
	}
	return Sheet{Name: name, Header: columns, Rows: rows}
}

// CellNumber rounds v to two decimals and returns an int when it is integral,
// so counts are not written as 3.00 in spreadsheets.
func CellNumber(v float64) interface{} {
	rounded := math.Round(v*100) / 100
	if rounded == math.Trunc(rounded) && math.Abs(rounded) < 1e15 {
		return int64(rounded)
	}
	return rounded
}

// CellString formats a cell for text outputs (CSV, PDF).
func CellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
