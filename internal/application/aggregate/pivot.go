package aggregate

import (
	"slices"

	"github.com/diillson/kr-realestate-report/internal/domain/entity"
)

// Pivot spreads a table keyed by two parts into a wide table: one row per value
// of key part rowKey, one column per value of key part colKey, holding metric.
// Cells with no source row, or whose source value is missing, stay missing.
func Pivot(table entity.ReportTable, rowKey, colKey, metric int) entity.ReportTable {
	var columns [][]string
	seenCol := map[string]bool{}
	for _, row := range table.Rows {
		c := row.Key[colKey]
		if !seenCol[c] {
			seenCol[c] = true
			columns = append(columns, []string{c})
		}
	}
	slices.SortFunc(columns, CompareKeys)

	colIndex := make(map[string]int, len(columns))
	metricColumns := make([]string, len(columns))
	for i, c := range columns {
		colIndex[c[0]] = i
		metricColumns[i] = c[0]
	}

	rowsByKey := map[string]*entity.AggregatedRow{}
	var order []string
	for _, row := range table.Rows {
		r := row.Key[rowKey]
		out, ok := rowsByKey[r]
		if !ok {
			out = &entity.AggregatedRow{
				Key:     []string{r},
				Values:  make([]float64, len(columns)),
				Missing: make([]bool, len(columns)),
			}
			for i := range out.Missing {
				out.Missing[i] = true
			}
			rowsByKey[r] = out
			order = append(order, r)
		}
		out.Count += row.Count
		if row.Has(metric) {
			i := colIndex[row.Key[colKey]]
			out.Values[i] = row.Values[metric]
			out.Missing[i] = false
		}
	}

	result := entity.ReportTable{
		KeyColumns:    []string{table.KeyColumns[rowKey]},
		MetricColumns: metricColumns,
		Rows:          make([]entity.AggregatedRow, 0, len(order)),
	}
	for _, r := range order {
		out := rowsByKey[r]
		if !slices.Contains(out.Missing, true) {
			out.Missing = nil
		}
		result.Rows = append(result.Rows, *out)
	}
	slices.SortFunc(result.Rows, func(a, b entity.AggregatedRow) int {
		return CompareKeys(a.Key, b.Key)
	})
	return result
}
