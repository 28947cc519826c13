package news

import (
	"strings"
	"unicode/utf8"

	"newsblog/internal/core"
)

// FallbackQuery is searched once when the requested query returns nothing.
const FallbackQuery = "최신뉴스"

const (
	maxQueryBytes     = 100
	truncatedQueryLen = 30
)

// CategoryNames maps the portal's section IDs to their search keyword.
var CategoryNames = map[string]string{
	"100": "정치",
	"101": "경제",
	"102": "사회",
	"103": "생활문화",
	"104": "세계",
	"105": "IT과학",
}

// Query describes what the user asked for.
type Query struct {
	Keyword      string `json:"keyword"`
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

// Category returns the category stamped onto the search results.
func (q Query) Category() string {
	if name := strings.TrimSpace(q.CategoryName); name != "" {
		return name
	}
	if name, ok := CategoryNames[strings.TrimSpace(q.CategoryID)]; ok {
		return name
	}
	return core.GeneralCategory
}

// BuildQuery picks the search text: keyword, then category name, then the
// category ID mapping, then FallbackQuery. Queries over the API's 100-byte
// limit are cut to 30 characters.
func BuildQuery(q Query) string {
	var query string
	switch {
	case strings.TrimSpace(q.Keyword) != "":
		query = strings.TrimSpace(q.Keyword)
	case strings.TrimSpace(q.CategoryName) != "":
		query = strings.TrimSpace(q.CategoryName)
	case q.CategoryID != "":
		if name, ok := CategoryNames[strings.TrimSpace(q.CategoryID)]; ok {
			query = name
		} else {
			query = FallbackQuery
		}
	default:
		query = FallbackQuery
	}

	if len(query) > maxQueryBytes {
		query = truncateRunes(query, truncatedQueryLen)
	}
	return query
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
