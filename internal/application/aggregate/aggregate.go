package aggregate

import (
	"slices"
	"strconv"
	"strings"

	"github.com/diillson/kr-realestate-report/internal/domain/entity"
)

// MetricKind selects how a metric accumulates values.
type MetricKind int

const (
	Count MetricKind = iota
	Sum
	Average
	Min
	Max
)

// Metric is one computed column of an aggregation.
type Metric struct {
	Name  string
	Field string
	Kind  MetricKind
	// Where limits the metric to matching records of the bucket. Nil keeps all.
	Where func(entity.RawRecord) bool
}

// Grouping names the key columns and extracts the key of a record. Records for
// which Key reports false are left out.
type Grouping struct {
	Columns []string
	Key     func(entity.RawRecord) ([]string, bool)
}

// ByField groups by the value of one field; records with an empty value are skipped.
func ByField(column, field string) Grouping {
	return Grouping{
		Columns: []string{column},
		Key: func(r entity.RawRecord) ([]string, bool) {
			v := r.Get(field)
			return []string{v}, v != ""
		},
	}
}

type accumulator struct {
	n   int
	sum float64
	min float64
	max float64
}

func (a *accumulator) add(v float64) {
	if a.n == 0 || v < a.min {
		a.min = v
	}
	if a.n == 0 || v > a.max {
		a.max = v
	}
	a.n++
	a.sum += v
}

func (a *accumulator) value(kind MetricKind) float64 {
	switch kind {
	case Count:
		return float64(a.n)
	case Sum:
		return a.sum
	case Average:
		if a.n == 0 {
			return 0
		}
		return a.sum / float64(a.n)
	case Min:
		return a.min
	case Max:
		return a.max
	}
	return 0
}

type bucket struct {
	key   []string
	count int
	accs  []accumulator
}

// Aggregate buckets records by grouping.Key and computes metrics per bucket.
// A bucket exists only once a record has landed in it, and rows come out in
// ascending key order regardless of input order. A non-Count metric with no
// contributing value is marked missing rather than reported as 0.
func Aggregate(records []entity.RawRecord, grouping Grouping, metrics ...Metric) entity.ReportTable {
	buckets := make(map[string]*bucket)

	for _, rec := range records {
		key, ok := grouping.Key(rec)
		if !ok {
			continue
		}
		id := strings.Join(key, "\x00")
		b, found := buckets[id]
		if !found {
			b = &bucket{key: key, accs: make([]accumulator, len(metrics))}
			buckets[id] = b
		}
		b.count++

		for i, m := range metrics {
			if m.Where != nil && !m.Where(rec) {
				continue
			}
			if m.Kind == Count {
				b.accs[i].add(1)
				continue
			}
			v, ok := rec.Float(m.Field)
			if !ok {
				continue
			}
			b.accs[i].add(v)
		}
	}

	table := entity.ReportTable{
		KeyColumns:    slices.Clone(grouping.Columns),
		MetricColumns: make([]string, len(metrics)),
		Rows:          make([]entity.AggregatedRow, 0, len(buckets)),
	}
	for i, m := range metrics {
		table.MetricColumns[i] = m.Name
	}

	for _, b := range buckets {
		row := entity.AggregatedRow{Key: b.key, Count: b.count, Values: make([]float64, len(metrics))}
		for i, m := range metrics {
			// Count is always defined; the other kinds need at least one value.
			if m.Kind != Count && b.accs[i].n == 0 {
				if row.Missing == nil {
					row.Missing = make([]bool, len(metrics))
				}
				row.Missing[i] = true
				continue
			}
			row.Values[i] = b.accs[i].value(m.Kind)
		}
		table.Rows = append(table.Rows, row)
	}

	slices.SortFunc(table.Rows, func(a, b entity.AggregatedRow) int {
		return CompareKeys(a.Key, b.Key)
	})
	return table
}

// CompareKeys orders keys part by part; parts that are both integers compare
// numerically, anything else lexically.
func CompareKeys(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := comparePart(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

func comparePart(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}
