package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// YearMonth is a calendar month in the YYYYMM form the public APIs use.
type YearMonth struct {
	Year  int
	Month int
}

// ParseYearMonth parses a YYYYMM string.
func ParseYearMonth(s string) (YearMonth, error) {
	if len(s) != 6 || strings.Trim(s, "0123456789") != "" {
		return YearMonth{}, fmt.Errorf("%q is not in YYYYMM form", s)
	}
	year, _ := strconv.Atoi(s[:4])
	month, _ := strconv.Atoi(s[4:])
	if month < 1 || month > 12 {
		return YearMonth{}, fmt.Errorf("%q has an invalid month", s)
	}
	return YearMonth{Year: year, Month: month}, nil
}

// YearMonthOf returns the month containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: int(t.Month())}
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d%02d", ym.Year, ym.Month)
}

// Before reports whether ym is strictly earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// Next returns the following month.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == 12 {
		return YearMonth{Year: ym.Year + 1, Month: 1}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// MonthsThrough lists every month from ym to end, both inclusive.
func (ym YearMonth) MonthsThrough(end YearMonth) []YearMonth {
	var months []YearMonth
	for cur := ym; !end.Before(cur); cur = cur.Next() {
		months = append(months, cur)
	}
	return months
}
