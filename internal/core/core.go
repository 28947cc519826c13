// Package core holds the records that flow through the blog generation pipeline.
package core

import "fmt"

// GeneralCategory is the sentinel category meaning "no specific category".
const GeneralCategory = "전체"

// NewsItem is one record returned by the news search collaborator.
// The pipeline only reads it; PubDate is kept in the provider's own format.
type NewsItem struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	PubDate      string `json:"pubDate"`
	OriginalLink string `json:"originalLink"`
	NaverLink    string `json:"naverLink"`
}

// Link returns the publisher link when known, otherwise the portal link.
func (n NewsItem) Link() string {
	if n.OriginalLink != "" {
		return n.OriginalLink
	}
	return n.NaverLink
}

// RankedCandidate pairs a news item with its newsworthiness score.
type RankedCandidate struct {
	Score int      `json:"score"`
	Item  NewsItem `json:"item"`
}

// ImageSource identifies which image provider produced a ResolvedImage.
type ImageSource string

const (
	SourceUnsplash ImageSource = "Unsplash" // primary provider
	SourcePixabay  ImageSource = "Pixabay"  // secondary provider
)

// ResolvedImage is a single image search hit.
type ResolvedImage struct {
	URL             string      `json:"url"`
	ThumbnailURL    string      `json:"thumbnailUrl"`
	Description     string      `json:"description"`
	AttributionName string      `json:"attributionName"`
	SourceProvider  ImageSource `json:"sourceProvider"`
	DownloadURL     string      `json:"downloadUrl"`
}

// ImageMarkerMap maps a marker key ("이미지_1", ...) to the images found for it.
// A key whose keyword produced nothing maps to an empty, non-nil slice.
type ImageMarkerMap map[string][]ResolvedImage

// MarkerKey returns the map key for the n-th (1-based) image marker.
func MarkerKey(n int) string {
	return fmt.Sprintf("이미지_%d", n)
}

// Marker returns the placeholder token for the n-th image as it appears in content.
func Marker(n int) string {
	return "[" + MarkerKey(n) + "]"
}

// GenerationDraft is the structured article recovered from the model output.
type GenerationDraft struct {
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	Conclusion    string         `json:"conclusion"`
	ImageKeywords []string       `json:"imageKeywords"`
	Tags          []string       `json:"tags"`
	Images        ImageMarkerMap `json:"images,omitempty"`
}

// SourceNews is the attribution block copied from the originating NewsItem.
type SourceNews struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	PubDate string `json:"pubDate"`
}

// BlogRecord is the final deliverable. Field names and nesting are the
// contract that downstream renderers depend on.
type BlogRecord struct {
	Title                string         `json:"title"`
	Content              string         `json:"content"`
	Conclusion           string         `json:"conclusion"`
	Tags                 []string       `json:"tags"`
	ImageKeywords        []string       `json:"imageKeywords"`
	Images               ImageMarkerMap `json:"images"`
	SourceNews           SourceNews     `json:"sourceNews"`
	GeneratedAt          string         `json:"generatedAt"`
	GeneratorLabel       string         `json:"generatorLabel"`
	WordCount            int            `json:"wordCount"`
	EstimatedReadMinutes int            `json:"estimatedReadMinutes"`
}
