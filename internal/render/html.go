package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"newsblog/internal/core"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; font-size: 16px; line-height: 1.7; max-width: 780px; margin: 0 auto; padding: 30px; color: #1f2328; background-color: #ffffff; }
h1 { color: #0969da; font-size: 28px; border-bottom: 3px solid #0969da; padding-bottom: 15px; margin-bottom: 35px; }
h2 { font-size: 22px; margin-top: 40px; margin-bottom: 20px; border-left: 5px solid #0969da; padding: 10px 15px; background-color: #f6f8fa; }
h3 { color: #656d76; font-size: 18px; margin-top: 30px; margin-bottom: 15px; }
p { margin-bottom: 18px; color: #24292f; }
img { max-width: 100%; height: auto; }
.conclusion { background-color: #dbeafe; padding: 25px; border-left: 6px solid #2563eb; margin: 40px 0; border-radius: 8px; }
.conclusion h3 { color: #1e40af; margin-top: 0; }
.conclusion p { color: #1e3a8a; margin-bottom: 0; }
.tags { background-color: #f6f8fa; padding: 22px; border-radius: 8px; margin-top: 40px; border: 1px solid #d1d9e0; }
.tags h3 { color: #24292f; margin-top: 0; font-size: 16px; }
.tag { display: inline-block; background-color: #0969da; color: #ffffff; padding: 8px 16px; margin: 4px 8px 4px 0; border-radius: 20px; font-size: 13px; font-weight: bold; }
.source { color: #656d76; font-size: 13px; margin-top: 30px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{.Body}}
{{- if .Conclusion}}
<div class="conclusion"><h3>💭 결론</h3><p>{{.Conclusion}}</p></div>
{{- end}}
{{- if .Tags}}
<div class="tags"><h3>🏷️ 태그</h3>{{range .Tags}}<span class="tag">{{.}}</span>{{end}}</div>
{{- end}}
{{- if .SourceTitle}}
<p class="source">출처: {{if .SourceURL}}<a href="{{.SourceURL}}" target="_blank" rel="noopener">{{.SourceTitle}}</a>{{else}}{{.SourceTitle}}{{end}}{{if .SourceDate}} ({{.SourceDate}}){{end}}</p>
{{- end}}
<footer class="source">Generated by {{.Generator}} at {{.GeneratedAt}} · {{.ReadMinutes}}분 읽기</footer>
</body>
</html>
`))

type pageData struct {
	Title       string
	Body        template.HTML
	Conclusion  string
	Tags        []string
	SourceTitle string
	SourceURL   string
	SourceDate  string
	Generator   string
	GeneratedAt string
	ReadMinutes int
}

// HTML renders the record as a standalone page. The content is treated as
// markdown with embedded HTML blocks; scripts and event handlers are removed.
func HTML(rec core.BlogRecord) (string, error) {
	body, err := ContentHTML(rec.Content)
	if err != nil {
		return "", err
	}

	data := pageData{
		Title:       rec.Title,
		Body:        body,
		Conclusion:  rec.Conclusion,
		Tags:        rec.Tags,
		SourceTitle: rec.SourceNews.Title,
		SourceURL:   rec.SourceNews.URL,
		SourceDate:  rec.SourceNews.PubDate,
		Generator:   rec.GeneratorLabel,
		GeneratedAt: rec.GeneratedAt,
		ReadMinutes: rec.EstimatedReadMinutes,
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render HTML page: %w", err)
	}
	return buf.String(), nil
}

// ContentHTML converts markdown content to sanitized HTML.
func ContentHTML(content string) (template.HTML, error) {
	if strings.TrimSpace(content) == "" {
		return "", nil
	}

	mdParser := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank,
	})
	raw := markdown.ToHTML([]byte(content), mdParser, renderer)

	clean, err := sanitizeHTML(string(raw))
	if err != nil {
		return "", err
	}
	return template.HTML(clean), nil
}

func sanitizeHTML(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + fragment + "</body>"))
	if err != nil {
		return "", fmt.Errorf("failed to parse rendered HTML: %w", err)
	}

	doc.Find("script, style, iframe, object, embed, form").Remove()
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		kept := node.Attr[:0]
		for _, attr := range node.Attr {
			key := strings.ToLower(attr.Key)
			if strings.HasPrefix(key, "on") {
				continue
			}
			if (key == "href" || key == "src") && strings.HasPrefix(strings.ToLower(strings.TrimSpace(attr.Val)), "javascript:") {
				continue
			}
			kept = append(kept, attr)
		}
		node.Attr = kept
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize HTML: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// ImageURLs lists the src of every image in rendered HTML, in document order.
func ImageURLs(page string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	var urls []string
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			urls = append(urls, src)
		}
	})
	return urls, nil
}
