package entity

import (
	"errors"
	"testing"

	"github.com/diillson/kr-realestate-report/internal/shared/types"
)

func ptr(v float64) *float64 { return &v }

func TestNewQueryFilter_Validation(t *testing.T) {
	tests := []struct {
		name      string
		params    QueryFilterParams
		wantField string
	}{
		{
			name:   "valid range",
			params: QueryFilterParams{Start: "202101", End: "202212"},
		},
		{
			name:   "single month",
			params: QueryFilterParams{Start: "202105", End: "202105"},
		},
		{
			name:      "start after end",
			params:    QueryFilterParams{Start: "202301", End: "202212"},
			wantField: "date range",
		},
		{
			name:      "malformed start",
			params:    QueryFilterParams{Start: "2023", End: "202312"},
			wantField: "start",
		},
		{
			name:      "malformed end",
			params:    QueryFilterParams{Start: "202301", End: "202313"},
			wantField: "end",
		},
		{
			name:      "negative min area",
			params:    QueryFilterParams{Start: "202301", End: "202312", MinArea: ptr(-1)},
			wantField: "min-area",
		},
		{
			name:      "min above max",
			params:    QueryFilterParams{Start: "202301", End: "202312", MinArea: ptr(85), MaxArea: ptr(60)},
			wantField: "area range",
		},
		{
			name:      "negative built after",
			params:    QueryFilterParams{Start: "202301", End: "202312", BuiltAfter: -1},
			wantField: "built-after",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQueryFilter(tt.params)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var vErr *types.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", vErr.Field, tt.wantField)
			}
		})
	}
}

func TestQueryFilter_IsImmutable(t *testing.T) {
	minArea := 60.0
	f, err := NewQueryFilter(QueryFilterParams{Start: "202101", End: "202103", MinArea: &minArea})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	minArea = 200
	if got, ok := f.MinArea(); !ok || got != 60 {
		t.Errorf("MinArea = %v, %v; want 60, true", got, ok)
	}
	if _, ok := f.MaxArea(); ok {
		t.Error("MaxArea should be unset")
	}
	if got := len(f.Months()); got != 3 {
		t.Errorf("Months = %d, want 3", got)
	}
}
