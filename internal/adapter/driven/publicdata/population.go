package publicdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/diillson/kr-realestate-report/internal/domain/entity"
	"github.com/diillson/kr-realestate-report/internal/domain/repository"
)

// PopulationFetcher reads resident population and household counts (JSON).
type PopulationFetcher struct {
	client  *Client
	baseURL string
	key     string
}

// NewPopulationFetcher creates the population fetcher.
func NewPopulationFetcher(client *Client, baseURL, key string) repository.PageFetcher {
	return &PopulationFetcher{client: client, baseURL: baseURL, key: serviceKey(key)}
}

func (f *PopulationFetcher) Source() string { return "population" }

func (f *PopulationFetcher) FetchPage(ctx context.Context, q entity.PageQuery) (entity.Page, error) {
	params := url.Values{}
	params.Set("serviceKey", f.key)
	for _, p := range []string{entity.ParamAdmmCode, entity.ParamFromYM, entity.ParamToYM, entity.ParamLevel} {
		params.Set(p, q.Params[p])
	}
	params.Set("regSeCd", "1")
	params.Set("type", "json")
	params.Set("numOfRows", strconv.Itoa(q.PageSize))
	params.Set("pageNo", strconv.Itoa(q.PageNo))

	body, err := f.client.get(ctx, f.Source(), f.baseURL, params)
	if err != nil {
		return entity.Page{}, err
	}

	// Key errors are still reported by the gateway in XML, even with type=json.
	if trimmed := strings.TrimSpace(string(body)); strings.HasPrefix(trimmed, "<") {
		return decodeGatewayXML(f.Source(), body)
	}
	return decodePopulationJSON(f.Source(), body)
}

type populationEnvelope struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items      json.RawMessage `json:"items"`
			TotalCount json.Number     `json:"totalCount"`
		} `json:"body"`
	} `json:"response"`
}

func decodePopulationJSON(source string, body []byte) (entity.Page, error) {
	var env populationEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return entity.Page{}, fmt.Errorf("%s: malformed JSON: %w", source, err)
	}

	switch env.Response.Header.ResultCode {
	case "0", "00", "000":
	case "03":
		return entity.Page{TotalCount: 0}, nil
	case "":
		return entity.Page{}, fmt.Errorf("%s: response has no resultCode", source)
	default:
		return entity.Page{}, gatewayError(source, env.Response.Header.ResultCode, env.Response.Header.ResultMsg)
	}

	records, err := decodeItems(env.Response.Body.Items)
	if err != nil {
		return entity.Page{}, fmt.Errorf("%s: %w", source, err)
	}

	total := -1
	if env.Response.Body.TotalCount != "" {
		n, err := env.Response.Body.TotalCount.Int64()
		if err != nil {
			return entity.Page{}, fmt.Errorf("%s: invalid totalCount %q", source, env.Response.Body.TotalCount)
		}
		total = int(n)
	}

	return entity.Page{Records: records, TotalCount: total}, nil
}

// decodeItems accepts the shapes the gateway produces for "items":
// {"item": [...]}, {"item": {...}}, "" (no data) and a bare array.
func decodeItems(raw json.RawMessage) ([]entity.RawRecord, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" || trimmed == `""` {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		return decodeObjects(raw)
	}

	var wrapper struct {
		Item json.RawMessage `json:"item"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("malformed items: %w", err)
	}
	item := strings.TrimSpace(string(wrapper.Item))
	switch {
	case item == "" || item == "null":
		return nil, nil
	case strings.HasPrefix(item, "["):
		return decodeObjects(wrapper.Item)
	default:
		return decodeObjects(json.RawMessage("[" + item + "]"))
	}
}

func decodeObjects(raw json.RawMessage) ([]entity.RawRecord, error) {
	var objects []map[string]interface{}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&objects); err != nil {
		return nil, fmt.Errorf("malformed items: %w", err)
	}

	records := make([]entity.RawRecord, 0, len(objects))
	for _, obj := range objects {
		records = append(records, flattenObject(obj))
	}
	return records, nil
}

func flattenObject(obj map[string]interface{}) entity.RawRecord {
	rec := make(entity.RawRecord, len(obj))
	for k, v := range obj {
		switch val := v.(type) {
		case nil:
			rec[strings.TrimSpace(k)] = ""
		case string:
			rec[strings.TrimSpace(k)] = strings.TrimSpace(val)
		case json.Number:
			rec[strings.TrimSpace(k)] = val.String()
		default:
			rec[strings.TrimSpace(k)] = fmt.Sprint(val)
		}
	}
	return rec
}
