package publicdata

import (
	"context"
	"fmt"
	"net/url"

	"github.com/diillson/kr-realestate-report/internal/domain/entity"
	"github.com/diillson/kr-realestate-report/internal/domain/repository"
	"github.com/diillson/kr-realestate-report/internal/shared/types"
)

// PriceIndexFetcher reads monthly sale price index values (XML). One response
// holds the whole series of a region.
type PriceIndexFetcher struct {
	client  *Client
	baseURL string
	key     string
}

// NewPriceIndexFetcher creates the price index fetcher.
func NewPriceIndexFetcher(client *Client, baseURL, key string) repository.PageFetcher {
	return &PriceIndexFetcher{client: client, baseURL: baseURL, key: key}
}

func (f *PriceIndexFetcher) Source() string { return "price-index" }

func (f *PriceIndexFetcher) FetchPage(ctx context.Context, q entity.PageQuery) (entity.Page, error) {
	params := url.Values{}
	params.Set("method", "getList")
	params.Set("apiKey", f.key)
	params.Set("format", "xml")
	params.Set("cycle", "M")
	for _, p := range []string{entity.ParamStatCode, entity.ParamStartTime, entity.ParamEndTime, entity.ParamRegion} {
		params.Set(p, q.Params[p])
	}

	body, err := f.client.get(ctx, f.Source(), f.baseURL, params)
	if err != nil {
		return entity.Page{}, err
	}

	doc, err := parseXMLItems(body, "item")
	if err != nil {
		return entity.Page{}, fmt.Errorf("%s: %w", f.Source(), err)
	}
	if code, ok := doc.Fields["err"]; ok {
		// 10: key missing, 11: key invalid
		if code == "10" || code == "11" {
			return entity.Page{}, &types.AuthError{Source: f.Source(), Message: fmt.Sprintf("%s (code %s)", doc.Fields["errMsg"], code)}
		}
		if code == "30" {
			// no data for the region/period
			return entity.Page{TotalCount: 0, Last: true}, nil
		}
		return entity.Page{}, fmt.Errorf("%s: error %s: %s", f.Source(), code, doc.Fields["errMsg"])
	}

	return entity.Page{Records: doc.Items, TotalCount: len(doc.Items), Last: true}, nil
}
