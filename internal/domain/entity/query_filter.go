package entity

import (
	"github.com/diillson/kr-realestate-report/internal/shared/types"
)

// QueryFilter holds the user constraints of one report run.
// Build it with NewQueryFilter; fields are read through accessors so a validated
// filter cannot be changed afterwards.
type QueryFilter struct {
	region     Region
	start      YearMonth
	end        YearMonth
	minArea    *float64
	maxArea    *float64
	builtAfter int
}

// QueryFilterParams are the raw inputs of NewQueryFilter.
type QueryFilterParams struct {
	Region     Region
	Start      string
	End        string
	MinArea    *float64
	MaxArea    *float64
	BuiltAfter int
}

// NewQueryFilter validates params and returns an immutable filter.
func NewQueryFilter(p QueryFilterParams) (QueryFilter, error) {
	start, err := ParseYearMonth(p.Start)
	if err != nil {
		return QueryFilter{}, types.NewValidationError("start", "%s", err)
	}
	end, err := ParseYearMonth(p.End)
	if err != nil {
		return QueryFilter{}, types.NewValidationError("end", "%s", err)
	}
	if end.Before(start) {
		return QueryFilter{}, types.NewValidationError("date range", "start %s is after end %s", start, end)
	}
	if p.MinArea != nil && *p.MinArea < 0 {
		return QueryFilter{}, types.NewValidationError("min-area", "must not be negative, got %g", *p.MinArea)
	}
	if p.MaxArea != nil && *p.MaxArea < 0 {
		return QueryFilter{}, types.NewValidationError("max-area", "must not be negative, got %g", *p.MaxArea)
	}
	if p.MinArea != nil && p.MaxArea != nil && *p.MinArea > *p.MaxArea {
		return QueryFilter{}, types.NewValidationError("area range", "min-area %g is above max-area %g", *p.MinArea, *p.MaxArea)
	}
	if p.BuiltAfter < 0 {
		return QueryFilter{}, types.NewValidationError("built-after", "must not be negative, got %d", p.BuiltAfter)
	}

	return QueryFilter{
		region:     p.Region,
		start:      start,
		end:        end,
		minArea:    copyFloat(p.MinArea),
		maxArea:    copyFloat(p.MaxArea),
		builtAfter: p.BuiltAfter,
	}, nil
}

func (f QueryFilter) Region() Region   { return f.region }
func (f QueryFilter) Start() YearMonth { return f.start }
func (f QueryFilter) End() YearMonth   { return f.end }
func (f QueryFilter) BuiltAfter() int  { return f.builtAfter }

// MinArea returns the lower area bound in m², if any.
func (f QueryFilter) MinArea() (float64, bool) {
	if f.minArea == nil {
		return 0, false
	}
	return *f.minArea, true
}

// MaxArea returns the upper area bound in m², if any.
func (f QueryFilter) MaxArea() (float64, bool) {
	if f.maxArea == nil {
		return 0, false
	}
	return *f.maxArea, true
}

// Months lists the months covered by the filter.
func (f QueryFilter) Months() []YearMonth {
	return f.start.MonthsThrough(f.end)
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
