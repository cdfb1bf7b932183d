// Package license proxies add-on license text from the URLs the catalog
// advertises.
package license

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
)

// Proxy fetches license text on behalf of gateway clients that cannot
// reach the hosting site directly.
type Proxy struct {
	client *resty.Client
}

// NewProxy creates a license proxy with a retryable transport.
func NewProxy() *Proxy {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	client := resty.New().
		SetTimeout(15*time.Second).
		SetHeader("User-Agent", "addon-proxy/1.0").
		SetTransport(retryClient.HTTPClient.Transport)

	return &Proxy{client: client}
}

// Text fetches the license body at url.
func (p *Proxy) Text(ctx context.Context, url string) (string, error) {
	resp, err := p.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch license %s: %w", url, err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("fetch license %s: unexpected status %d", url, resp.StatusCode())
	}
	return resp.String(), nil
}
