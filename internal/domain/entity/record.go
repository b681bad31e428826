package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// RawRecord is one unprocessed record of an upstream page, flattened to
// field name -> value.
type RawRecord map[string]string

// Get returns the trimmed value of field, or "" when absent.
func (r RawRecord) Get(field string) string {
	return strings.TrimSpace(r[field])
}

// Float parses field as a number, accepting thousands separators ("12,500").
func (r RawRecord) Float(field string) (float64, bool) {
	v := strings.ReplaceAll(r.Get(field), ",", "")
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Int parses field as an integer, accepting thousands separators.
func (r RawRecord) Int(field string) (int, bool) {
	v := strings.ReplaceAll(r.Get(field), ",", "")
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// With returns a copy of r with field set to value.
func (r RawRecord) With(field, value string) RawRecord {
	c := make(RawRecord, len(r)+1)
	for k, v := range r {
		c[k] = v
	}
	c[field] = value
	return c
}

// Page is one response page of an upstream API.
type Page struct {
	Records []RawRecord
	// TotalCount is the server-reported total; negative when not reported.
	TotalCount int
	// Last is set by sources that return everything in one response.
	Last bool
}

// PageQuery identifies what a fetcher should request. Params are source specific
// (region code, month, form id...) and PageNo/PageSize drive pagination.
type PageQuery struct {
	Params   map[string]string
	PageNo   int
	PageSize int
}

func (q PageQuery) String() string {
	return fmt.Sprintf("page %d (size %d) %v", q.PageNo, q.PageSize, q.Params)
}
