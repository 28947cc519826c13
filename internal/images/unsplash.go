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
	defaultUnsplashURL = "https://api.unsplash.com"
	unsplashMaxPerPage = 30
)

// Unsplash is the primary image provider.
type Unsplash struct {
	httpProvider
	accessKey string
}

// NewUnsplash creates a provider authenticated with accessKey.
func NewUnsplash(accessKey string, opts ...ProviderOption) *Unsplash {
	return &Unsplash{
		httpProvider: newHTTPProvider(defaultUnsplashURL, opts),
		accessKey:    accessKey,
	}
}

func (u *Unsplash) Source() core.ImageSource { return core.SourceUnsplash }

// Search returns up to count landscape photos for keyword.
func (u *Unsplash) Search(ctx context.Context, keyword string, count int) ([]core.ResolvedImage, error) {
	count = clamp(count, 1, unsplashMaxPerPage)

	params := url.Values{}
	params.Set("query", keyword)
	params.Set("per_page", strconv.Itoa(count))
	params.Set("orientation", "landscape")
	params.Set("content_filter", "high")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Unsplash request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+u.accessKey)
	req.Header.Set("Accept-Version", "v1")

	body, err := u.get(req, "Unsplash")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var apiResponse struct {
		Results []struct {
			AltDescription *string `json:"alt_description"`
			URLs           struct {
				Regular string `json:"regular"`
				Thumb   string `json:"thumb"`
			} `json:"urls"`
			User struct {
				Name string `json:"name"`
			} `json:"user"`
			Links struct {
				Download string `json:"download"`
			} `json:"links"`
		} `json:"results"`
	}
	if err := json.NewDecoder(body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse Unsplash response: %w", err)
	}

	images := make([]core.ResolvedImage, 0, len(apiResponse.Results))
	for _, photo := range apiResponse.Results {
		if photo.URLs.Regular == "" {
			continue
		}
		description := keyword
		if photo.AltDescription != nil && *photo.AltDescription != "" {
			description = *photo.AltDescription
		}
		images = append(images, core.ResolvedImage{
			URL:             photo.URLs.Regular,
			ThumbnailURL:    photo.URLs.Thumb,
			Description:     description,
			AttributionName: photo.User.Name,
			SourceProvider:  core.SourceUnsplash,
			DownloadURL:     photo.Links.Download,
		})
	}
	if len(images) > count {
		images = images[:count]
	}
	return images, nil
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
