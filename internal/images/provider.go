// Package images finds stock photos for the image markers in a draft and
// substitutes them into the content.
package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"newsblog/internal/core"
)

// Provider searches one stock-photo service.
type Provider interface {
	Source() core.ImageSource
	Search(ctx context.Context, keyword string, count int) ([]core.ResolvedImage, error)
}

const providerTimeout = 10 * time.Second

// ProviderOption customises a provider.
type ProviderOption func(*httpProvider)

// WithBaseURL overrides the API host (used by tests).
func WithBaseURL(u string) ProviderOption {
	return func(p *httpProvider) { p.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ProviderOption {
	return func(p *httpProvider) { p.client = hc }
}

type httpProvider struct {
	baseURL string
	client  *http.Client
}

func newHTTPProvider(baseURL string, opts []ProviderOption) httpProvider {
	p := httpProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: providerTimeout},
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// get performs the request and returns the body of a 200 response.
func (p httpProvider) get(req *http.Request, name string) (io.ReadCloser, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s request: %w", name, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%s request failed with status: %d", name, resp.StatusCode)
	}
	return resp.Body, nil
}
