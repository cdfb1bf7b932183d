package source

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
)

// HTTP fetches the add-on list as a single JSON array from a URL.
type HTTP struct {
	client *resty.Client
	url    string
}

// NewHTTP creates an HTTP fetcher with a retryable transport.
func NewHTTP(url string) *HTTP {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil

	client := resty.New().
		SetTimeout(30*time.Second).
		SetHeader("User-Agent", "addon-proxy/1.0").
		SetTransport(retryClient.HTTPClient.Transport)

	return &HTTP{client: client, url: url}
}

// Fetch retrieves and decodes the upstream list. Individual records are
// returned raw; shape validation happens during snapshot construction.
func (h *HTTP) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	resp, err := h.client.R().SetContext(ctx).Get(h.url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", h.url, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", h.url, resp.StatusCode())
	}

	var records []json.RawMessage
	if err := sonic.Unmarshal(resp.Body(), &records); err != nil {
		return nil, fmt.Errorf("decode addon list: %w", err)
	}
	return records, nil
}
