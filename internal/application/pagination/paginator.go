package pagination

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"time"

	"github.com/diillson/kr-realestate-report/internal/domain/entity"
	"github.com/diillson/kr-realestate-report/internal/domain/repository"
	"github.com/diillson/kr-realestate-report/internal/shared/types"
)

// DefaultPageSize is the largest page the data.go.kr gateway serves.
const DefaultPageSize = 1000

// Paginator walks the pages of one upstream query, strictly in sequence.
type Paginator struct {
	fetcher  repository.PageFetcher
	pageSize int
	retry    RetryPolicy
	console  types.ConsoleInterface
	status   types.StatusHandle
}

// NewPaginator creates a Paginator. A non-positive pageSize uses DefaultPageSize.
func NewPaginator(fetcher repository.PageFetcher, pageSize int, retry RetryPolicy, console types.ConsoleInterface) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator{
		fetcher:  fetcher,
		pageSize: pageSize,
		retry:    retry,
		console:  console,
	}
}

// WithStatus reports progress on status after every page.
func (p *Paginator) WithStatus(status types.StatusHandle) *Paginator {
	p.status = status
	return p
}

// Records returns the records of every page for params. The sequence is lazy:
// pages are requested as the consumer advances, and each range over it starts
// again from page 1. Iteration ends after the first error is yielded.
//
// Paging stops on the first of: an empty page, a page marked last, the
// cumulative count reaching the reported total, or (without a reported total)
// a short page.
func (p *Paginator) Records(ctx context.Context, params map[string]string) iter.Seq2[entity.RawRecord, error] {
	return func(yield func(entity.RawRecord, error) bool) {
		seen := 0
		for pageNo := 1; ; pageNo++ {
			query := entity.PageQuery{
				Params:   maps.Clone(params),
				PageNo:   pageNo,
				PageSize: p.pageSize,
			}

			page, err := p.fetch(ctx, query)
			if err != nil {
				yield(nil, err)
				return
			}
			p.console.LogDebug("%s: page %d returned %d record(s), total %d", p.fetcher.Source(), pageNo, len(page.Records), page.TotalCount)

			if len(page.Records) == 0 {
				return
			}
			for _, rec := range page.Records {
				if !yield(rec, nil) {
					return
				}
			}
			seen += len(page.Records)
			if p.status != nil {
				p.status.Update(progressMessage(p.fetcher.Source(), pageNo, seen, page.TotalCount))
			}

			switch {
			case page.Last:
				return
			case page.TotalCount >= 0 && seen >= page.TotalCount:
				return
			case page.TotalCount < 0 && len(page.Records) < p.pageSize:
				return
			}
		}
	}
}

func (p *Paginator) fetch(ctx context.Context, query entity.PageQuery) (entity.Page, error) {
	var page entity.Page
	onRetry := func(attempt int, err error, wait time.Duration) {
		p.console.LogWarning("%s page %d failed (attempt %d/%d): %v, retrying in %v",
			p.fetcher.Source(), query.PageNo, attempt, p.retry.Attempts, err, wait)
	}
	err := p.retry.Do(ctx, p.fetcher.Source(), onRetry, func() error {
		var fetchErr error
		page, fetchErr = p.fetcher.FetchPage(ctx, query)
		return fetchErr
	})
	return page, err
}

func progressMessage(source string, pageNo, seen, total int) string {
	if total < 0 {
		return fmt.Sprintf("%s: page %d, %d record(s)", source, pageNo, seen)
	}
	return fmt.Sprintf("%s: page %d, %d/%d record(s)", source, pageNo, seen, total)
}

// Collect drains seq into a slice, stopping at the first error.
func Collect(seq iter.Seq2[entity.RawRecord, error]) ([]entity.RawRecord, error) {
	var records []entity.RawRecord
	for rec, err := range seq {
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}
