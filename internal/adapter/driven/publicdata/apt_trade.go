package publicdata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/diillson/kr-realestate-report/internal/domain/entity"
	"github.com/diillson/kr-realestate-report/internal/domain/repository"
	"github.com/diillson/kr-realestate-report/internal/shared/types"
)

// AptTradeFetcher reads apartment sale transactions from the data.go.kr
// RTMS gateway (XML).
type AptTradeFetcher struct {
	client  *Client
	baseURL string
	key     string
}

// NewAptTradeFetcher creates the apartment trade fetcher.
func NewAptTradeFetcher(client *Client, baseURL, key string) repository.PageFetcher {
	return &AptTradeFetcher{client: client, baseURL: baseURL, key: serviceKey(key)}
}

func (f *AptTradeFetcher) Source() string { return "apt-trade" }

// FetchPage requests one page of trades for Params[LAWD_CD] in Params[DEAL_YMD].
func (f *AptTradeFetcher) FetchPage(ctx context.Context, q entity.PageQuery) (entity.Page, error) {
	params := url.Values{}
	params.Set("serviceKey", f.key)
	params.Set(entity.ParamLawdCode, q.Params[entity.ParamLawdCode])
	params.Set(entity.ParamDealYM, q.Params[entity.ParamDealYM])
	params.Set("pageNo", strconv.Itoa(q.PageNo))
	params.Set("numOfRows", strconv.Itoa(q.PageSize))

	body, err := f.client.get(ctx, f.Source(), f.baseURL, params)
	if err != nil {
		return entity.Page{}, err
	}
	return decodeGatewayXML(f.Source(), body)
}

// decodeGatewayXML decodes the standard data.go.kr XML envelope.
func decodeGatewayXML(source string, body []byte) (entity.Page, error) {
	doc, err := parseXMLItems(body, "item")
	if err != nil {
		return entity.Page{}, fmt.Errorf("%s: %w", source, err)
	}

	// Gateway failures come back as HTTP 200 with an OpenAPI_ServiceResponse.
	if reason, ok := doc.Fields["returnReasonCode"]; ok {
		return entity.Page{}, gatewayError(source, reason, doc.Fields["returnAuthMsg"])
	}

	code, ok := doc.Fields["resultCode"]
	if !ok {
		return entity.Page{}, fmt.Errorf("%s: response has no resultCode", source)
	}
	switch code {
	case "00", "000":
	case "03":
		// NODATA_ERROR
		return entity.Page{TotalCount: 0}, nil
	default:
		return entity.Page{}, gatewayError(source, code, doc.Fields["resultMsg"])
	}

	total := -1
	if raw, ok := doc.Fields["totalCount"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return entity.Page{}, fmt.Errorf("%s: invalid totalCount %q", source, raw)
		}
		total = n
	}

	return entity.Page{Records: doc.Items, TotalCount: total}, nil
}

// data.go.kr reason codes that mean the key itself is not usable.
var authReasonCodes = map[string]bool{
	"20": true, // SERVICE_ACCESS_DENIED_ERROR
	"30": true, // SERVICE_KEY_IS_NOT_REGISTERED_ERROR
	"31": true, // DEADLINE_HAS_EXPIRED_ERROR
	"32": true, // UNREGISTERED_IP_ERROR
}

func gatewayError(source, code, msg string) error {
	if authReasonCodes[code] {
		return &types.AuthError{Source: source, Message: fmt.Sprintf("%s (code %s)", msg, code)}
	}
	return fmt.Errorf("%s: result code %s: %s", source, code, msg)
}
