package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"newsblog/internal/core"
)

const (
	defaultPixabayURL = "https://pixabay.com"
	// Pixabay rejects per_page values outside 3-200.
	pixabayMinPerPage = 3
	pixabayMaxPerPage = 200
)

// Pixabay is the secondary image provider.
type Pixabay struct {
	httpProvider
	apiKey string
}

// NewPixabay creates a provider using apiKey.
func NewPixabay(apiKey string, opts ...ProviderOption) *Pixabay {
	return &Pixabay{
		httpProvider: newHTTPProvider(defaultPixabayURL, opts),
		apiKey:       apiKey,
	}
}

func (p *Pixabay) Source() core.ImageSource { return core.SourcePixabay }

// Search returns up to count wide background photos for keyword.
func (p *Pixabay) Search(ctx context.Context, keyword string, count int) ([]core.ResolvedImage, error) {
	if count < 1 {
		count = 1
	}

	params := url.Values{}
	params.Set("key", p.apiKey)
	params.Set("q", keyword)
	params.Set("image_type", "photo")
	params.Set("orientation", "horizontal")
	params.Set("category", "backgrounds")
	params.Set("min_width", "1280")
	params.Set("per_page", strconv.Itoa(clamp(count, pixabayMinPerPage, pixabayMaxPerPage)))
	params.Set("safesearch", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pixabay request: %w", err)
	}

	body, err := p.get(req, "Pixabay")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var apiResponse struct {
		Hits []struct {
			WebformatURL string `json:"webformatURL"`
			PreviewURL   string `json:"previewURL"`
			Tags         string `json:"tags"`
			User         string `json:"user"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse Pixabay response: %w", err)
	}

	images := make([]core.ResolvedImage, 0, count)
	for _, hit := range apiResponse.Hits {
		if len(images) == count {
			break
		}
		if hit.WebformatURL == "" {
			continue
		}
		description := hit.Tags
		if description == "" {
			description = keyword
		}
		images = append(images, core.ResolvedImage{
			URL:             hit.WebformatURL,
			ThumbnailURL:    hit.PreviewURL,
			Description:     description,
			AttributionName: hit.User,
			SourceProvider:  core.SourcePixabay,
			DownloadURL:     hit.WebformatURL,
		})
	}
	return images, nil
}
