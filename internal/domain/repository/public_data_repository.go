package repository

import (
	"context"

	"github.com/diillson/kr-realestate-report/internal/domain/entity"
)

// PageFetcher fetches a single page from an upstream public-data API.
type PageFetcher interface {
	// Source names the upstream API in logs and errors.
	Source() string
	FetchPage(ctx context.Context, query entity.PageQuery) (entity.Page, error)
}
