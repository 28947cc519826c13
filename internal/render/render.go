// Package render produces the deliverable formats of a blog record.
package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"newsblog/internal/core"
)

// Format is an output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// ParseFormat accepts markdown/md, html and json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q (use markdown, html or json)", s)
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// Artifact is one rendered file.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// Markdown renders the record as a markdown document with the conclusion,
// tags and a generator footer.
func Markdown(rec core.BlogRecord) string {
	parts := []string{fmt.Sprintf("# %s\n", rec.Title), rec.Content}

	if rec.Conclusion != "" {
		parts = append(parts, "\n---\n## 💭 결론\n", rec.Conclusion)
	}
	if len(rec.Tags) > 0 {
		parts = append(parts, "\n---\n## 🏷️ 태그\n", strings.Join(rec.Tags, " "))
	}
	parts = append(parts, fmt.Sprintf("\n\n---\n*Generated by %s at %s*", rec.GeneratorLabel, rec.GeneratedAt))

	return strings.Join(parts, "\n")
}

// JSON renders the record with two-space indentation.
func JSON(rec core.BlogRecord) ([]byte, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode blog record: %w", err)
	}
	return data, nil
}

// Render produces a single format.
func Render(rec core.BlogRecord, f Format) ([]byte, error) {
	switch f {
	case FormatMarkdown:
		return []byte(Markdown(rec)), nil
	case FormatHTML:
		page, err := HTML(rec)
		if err != nil {
			return nil, err
		}
		return []byte(page), nil
	case FormatJSON:
		return JSON(rec)
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
}

// Files renders the requested formats (all of them when none are given)
// named baseName.<ext>.
func Files(rec core.BlogRecord, baseName string, formats ...Format) ([]Artifact, error) {
	if len(formats) == 0 {
		formats = []Format{FormatJSON, FormatMarkdown, FormatHTML}
	}

	artifacts := make([]Artifact, 0, len(formats))
	for _, f := range formats {
		data, err := Render(rec, f)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, Artifact{
			Name:        baseName + "." + f.Extension(),
			ContentType: f.ContentType(),
			Data:        data,
		})
	}
	return artifacts, nil
}

const maxSlugTitle = 40

// Slug builds a file-safe base name such as
// "blog_post_2024-10-15_093005_금리-인하-결정".
func Slug(title, generatedAt string) string {
	ts := strings.NewReplacer(":", "", " ", "_").Replace(strings.TrimSpace(generatedAt))
	name := "blog_post"
	if ts != "" {
		name += "_" + ts
	}
	if t := slugTitle(title); t != "" {
		name += "_" + t
	}
	return name
}

func slugTitle(title string) string {
	var b strings.Builder
	dash := false
	n := 0
	for _, r := range title {
		if n >= maxSlugTitle {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			dash = false
			n++
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
			n++
		}
	}
	return strings.Trim(b.String(), "-")
}
