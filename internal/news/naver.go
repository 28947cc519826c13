package news

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"newsblog/internal/core"
	"newsblog/internal/logger"
	"newsblog/internal/sanitize"
)

// Searcher is the news search capability consumed by the pipeline.
type Searcher interface {
	Search(ctx context.Context, query string) ([]core.NewsItem, error)
}

const (
	// DefaultNaverURL is the RSS flavour of the Naver news search API
	DefaultNaverURL = "https://openapi.naver.com/v1/search/news.xml"
	defaultDisplay  = 50
	maxDisplay      = 100
	userAgent       = "newsblog/1.0"
)

// NaverClient searches Naver news and converts the RSS response into NewsItems.
type NaverClient struct {
	clientID     string
	clientSecret string
	baseURL      string
	display      int
	sort         string
	httpClient   *http.Client
	parser       *gofeed.Parser
}

// NaverOption customises a NaverClient.
type NaverOption func(*NaverClient)

// WithBaseURL points the client at a different endpoint (used by tests).
func WithBaseURL(u string) NaverOption {
	return func(c *NaverClient) { c.baseURL = u }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) NaverOption {
	return func(c *NaverClient) { c.httpClient = hc }
}

// WithDisplay sets how many items to request (1-100).
func WithDisplay(n int) NaverOption {
	return func(c *NaverClient) {
		if n > 0 && n <= maxDisplay {
			c.display = n
		}
	}
}

// WithSort sets the result order: "date" (newest first) or "sim" (relevance).
func WithSort(s string) NaverOption {
	return func(c *NaverClient) {
		if s == "date" || s == "sim" {
			c.sort = s
		}
	}
}

// NewNaverClient creates a client. Both credentials are required.
func NewNaverClient(clientID, clientSecret string, opts ...NaverOption) (*NaverClient, error) {
	clientID = strings.TrimSpace(clientID)
	clientSecret = strings.TrimSpace(clientSecret)
	if clientID == "" || clientSecret == "" {
		return nil, ErrMissingCredentials
	}

	c := &NaverClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      DefaultNaverURL,
		display:      defaultDisplay,
		sort:         "date",
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		parser:       gofeed.NewParser(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search queries the API once. An empty result is not an error.
func (c *NaverClient) Search(ctx context.Context, query string) ([]core.NewsItem, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("display", strconv.Itoa(c.display))
	params.Set("start", "1")
	params.Set("sort", c.sort)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &SearchError{Kind: ErrTransport, Query: query, Err: err}
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SearchError{Kind: ErrTransport, Query: query, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, &SearchError{
			Kind:   kindForStatus(resp.StatusCode),
			Status: resp.StatusCode,
			Query:  query,
			Err:    responseError(body),
		}
	}

	feed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, &SearchError{Kind: ErrTransport, Query: query, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	items := make([]core.NewsItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		item := convertEntry(entry)
		if item.Title == "" {
			continue
		}
		items = append(items, item)
	}

	logger.Info("Naver news search completed", "query", query, "results_found", len(items))
	return items, nil
}

func convertEntry(entry *gofeed.Item) core.NewsItem {
	if entry == nil {
		return core.NewsItem{}
	}
	item := core.NewsItem{
		Title:       sanitize.Clean(entry.Title),
		Description: sanitize.Clean(entry.Description),
		PubDate:     strings.TrimSpace(entry.Published),
		NaverLink:   strings.TrimSpace(entry.Link),
	}
	if entry.Custom != nil {
		item.OriginalLink = strings.TrimSpace(entry.Custom["originallink"])
	}
	return item
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrBadQuery
	case http.StatusUnauthorized:
		return ErrAuth
	case http.StatusForbidden, http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrTransport
	}
}

func responseError(body []byte) error {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return nil
	}
	return fmt.Errorf("response: %s", text)
}
