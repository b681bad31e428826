package publicdata

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/diillson/kr-realestate-report/internal/shared/types"
)

const maxBodySize = 32 << 20

// Client is the HTTP transport shared by every fetcher.
type Client struct {
	http    *http.Client
	console types.ConsoleInterface
}

// NewClient creates a Client pinned to TLS 1.2 or newer; the data.go.kr gateway
// rejects older handshakes.
func NewClient(timeout time.Duration, console types.ConsoleInterface) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		console: console,
	}
}

// get issues a GET and returns the body of a 2xx response.
// 401/403 become AuthError; every other failure is returned as a plain error so
// the paginator can retry it.
func (c *Client) get(ctx context.Context, source, baseURL string, params url.Values) ([]byte, error) {
	reqURL := baseURL + "?" + params.Encode()
	c.console.LogDebug("GET %s", redact(reqURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", source, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", source, redactErr(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", source, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &types.AuthError{Source: source, Status: resp.StatusCode, Message: snippet(body)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%s returned HTTP %d: %s", source, resp.StatusCode, snippet(body))
	}

	return body, nil
}

// serviceKey normalises a data.go.kr key. The portal hands out both the raw and
// the URL-encoded form; the encoded one would be encoded twice by url.Values.
func serviceKey(key string) string {
	if strings.Contains(key, "%") {
		if decoded, err := url.QueryUnescape(key); err == nil {
			return decoded
		}
	}
	return key
}

var secretParams = []string{"serviceKey", "key", "apiKey"}

func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "***")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// redactErr strips the request URL (and with it the key) from transport errors.
func redactErr(err error) error {
	if urlErr, ok := err.(*url.Error); ok {
		return fmt.Errorf("%s %s: %w", urlErr.Op, redact(urlErr.URL), urlErr.Err)
	}
	return err
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
