package images

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"newsblog/internal/core"
)

// Style selects how an image is written into content.
type Style int

const (
	// StyleHTML emits a centered HTML figure block.
	StyleHTML Style = iota
	// StyleMarkdown emits a markdown image followed by an attribution line.
	StyleMarkdown
)

// ParseStyle maps "html" and "markdown"/"md" to a Style; anything else is StyleHTML.
func ParseStyle(s string) Style {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return StyleMarkdown
	default:
		return StyleHTML
	}
}

func (s Style) String() string {
	if s == StyleMarkdown {
		return "markdown"
	}
	return "html"
}

var (
	markerPattern = regexp.MustCompile(`\[이미지_(\d+)\]`)
	bareMarkerKey = regexp.MustCompile(`^이미지_\d+$`)

	htmlFigure     = regexp.MustCompile(`(?s)<div[^>]*>\s*<img[^>]*>.*?</div>`)
	markdownFigure = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)(?:\s*\*사진:[^\n]*\*)?`)
)

// Markers lists the image markers present in content, in order of appearance.
func Markers(content string) []string {
	return markerPattern.FindAllString(content, -1)
}

// Substitute replaces every marker with the first image of its entry, or
// removes it when the entry is missing or empty. Removing a marker can join
// text into a new marker, so passes repeat until none remain.
func Substitute(content string, images core.ImageMarkerMap, style Style) string {
	for markerPattern.MatchString(content) {
		content = markerPattern.ReplaceAllStringFunc(content, func(marker string) string {
			key := strings.TrimSuffix(strings.TrimPrefix(marker, "["), "]")
			list := images[key]
			if len(list) == 0 {
				return ""
			}
			return fragment(list[0], style)
		})
	}
	return content
}

// Apply substitutes images into draft.Content and records the map on the draft.
func Apply(draft *core.GenerationDraft, images core.ImageMarkerMap, style Style) {
	if images == nil {
		images = core.ImageMarkerMap{}
	}
	draft.Content = Substitute(draft.Content, images, style)
	draft.Images = images
}

func fragment(img core.ResolvedImage, style Style) string {
	src := scrub(img.URL)
	alt := scrub(img.Description)
	name := scrub(img.AttributionName)
	source := scrub(string(img.SourceProvider))

	if style == StyleMarkdown {
		alt = strings.NewReplacer("[", "", "]", "").Replace(alt)
		// ![이미지_1](...) would itself read as a marker
		if bareMarkerKey.MatchString(alt) {
			alt = strings.Replace(alt, "_", " ", 1)
		}
		src = strings.NewReplacer(" ", "%20", "(", "%28", ")", "%29").Replace(src)
		return fmt.Sprintf("![%s](%s)\n\n*사진: %s (%s)*", alt, src, name, source)
	}

	return fmt.Sprintf(`<div style="text-align: center; margin: 20px 0;">
    <img src="%s" alt="%s" style="width:100%%;max-width:600px;height:auto;border-radius:8px;">
    <p style="font-size:12px;color:#666;margin-top:5px;">사진: %s (%s)</p>
</div>`,
		html.EscapeString(src), html.EscapeString(alt), html.EscapeString(name), html.EscapeString(source))
}

// StripImages removes image blocks written by Substitute, in either style,
// along with any leftover markers.
func StripImages(content string) string {
	content = htmlFigure.ReplaceAllString(content, "")
	content = markdownFigure.ReplaceAllString(content, "")
	return markerPattern.ReplaceAllString(content, "")
}

// scrub removes marker text from provider-supplied strings so that
// substituted fragments never reintroduce a marker.
func scrub(s string) string {
	for markerPattern.MatchString(s) {
		s = markerPattern.ReplaceAllString(s, "")
	}
	return s
}
