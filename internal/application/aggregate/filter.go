package aggregate

import (
	"github.com/diillson/kr-realestate-report/internal/domain/entity"
)

// Transaction fields used by the query filter.
const (
	FieldArea      = "excluUseAr"
	FieldBuildYear = "buildYear"
)

// FilterRecords keeps the records that satisfy the area bounds and built-after
// year of filter. Records missing a bounded field are dropped.
func FilterRecords(records []entity.RawRecord, filter entity.QueryFilter) []entity.RawRecord {
	minArea, hasMin := filter.MinArea()
	maxArea, hasMax := filter.MaxArea()
	builtAfter := filter.BuiltAfter()

	kept := make([]entity.RawRecord, 0, len(records))
	for _, rec := range records {
		if hasMin || hasMax {
			area, ok := rec.Float(FieldArea)
			if !ok || (hasMin && area < minArea) || (hasMax && area > maxArea) {
				continue
			}
		}
		if builtAfter > 0 {
			year, ok := rec.Int(FieldBuildYear)
			if !ok || year < builtAfter {
				continue
			}
		}
		kept = append(kept, rec)
	}
	return kept
}

// FieldEquals is a Metric.Where helper.
func FieldEquals(field, value string) func(entity.RawRecord) bool {
	return func(r entity.RawRecord) bool { return r.Get(field) == value }
}
