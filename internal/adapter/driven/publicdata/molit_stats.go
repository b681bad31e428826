package publicdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/diillson/kr-realestate-report/internal/domain/entity"
	"github.com/diillson/kr-realestate-report/internal/domain/repository"
)

// MolitStatsFetcher reads a statistics form from stat.molit.go.kr. The service
// returns the whole form in one response, so every page is marked last.
type MolitStatsFetcher struct {
	client  *Client
	baseURL string
	key     string
}

// NewMolitStatsFetcher creates the MOLIT statistics fetcher.
func NewMolitStatsFetcher(client *Client, baseURL, key string) repository.PageFetcher {
	return &MolitStatsFetcher{client: client, baseURL: baseURL, key: key}
}

func (f *MolitStatsFetcher) Source() string { return "molit-stats" }

func (f *MolitStatsFetcher) FetchPage(ctx context.Context, q entity.PageQuery) (entity.Page, error) {
	params := url.Values{}
	params.Set("key", f.key)
	for _, p := range []string{entity.ParamFormID, entity.ParamStyleNum, entity.ParamStartDT, entity.ParamEndDT} {
		params.Set(p, q.Params[p])
	}

	body, err := f.client.get(ctx, f.Source(), f.baseURL, params)
	if err != nil {
		return entity.Page{}, err
	}

	var env struct {
		ResultStatus *struct {
			Code    string `json:"result_code"`
			Message string `json:"result_msg"`
		} `json:"result_status"`
		ResultData *struct {
			FormList json.RawMessage `json:"formList"`
		} `json:"result_data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return entity.Page{}, fmt.Errorf("%s: malformed JSON: %w", f.Source(), err)
	}
	if env.ResultData == nil || len(env.ResultData.FormList) == 0 || string(env.ResultData.FormList) == "null" {
		if env.ResultStatus != nil && env.ResultStatus.Code != "" {
			return entity.Page{}, gatewayError(f.Source(), env.ResultStatus.Code, env.ResultStatus.Message)
		}
		return entity.Page{}, fmt.Errorf("%s: response has no result_data.formList: %s", f.Source(), snippet(body))
	}

	records, err := decodeObjects(env.ResultData.FormList)
	if err != nil {
		return entity.Page{}, fmt.Errorf("%s: %w", f.Source(), err)
	}
	// Column names come padded in some forms ("구분 ").
	for i, rec := range records {
		clean := make(entity.RawRecord, len(rec))
		for k, v := range rec {
			clean[strings.TrimSpace(k)] = v
		}
		records[i] = clean
	}

	return entity.Page{Records: records, TotalCount: len(records), Last: true}, nil
}
