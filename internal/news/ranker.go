package news

import (
	"sort"
	"strings"

	"newsblog/internal/core"
)

const (
	baseScore    = 100
	keywordBonus = 20
)

// TrendingKeywords earn a bonus when they appear in a headline. Each keyword
// found adds the bonus once; matches are additive and uncapped.
var TrendingKeywords = []string{"국정감사", "정치", "경제", "대통령", "개혁", "정책"}

// Score returns the newsworthiness of an item listed at position index.
func Score(item core.NewsItem, index int) int {
	score := baseScore - index
	if score < 0 {
		score = 0
	}
	for _, keyword := range TrendingKeywords {
		if strings.Contains(item.Title, keyword) {
			score += keywordBonus
		}
	}
	return score
}

// Rank scores every candidate and orders them by descending score.
// Ties keep their original relative order.
func Rank(items []core.NewsItem) []core.RankedCandidate {
	ranked := make([]core.RankedCandidate, len(items))
	for i, item := range items {
		ranked[i] = core.RankedCandidate{Score: Score(item, i), Item: item}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// SelectTop returns the most newsworthy item, or false when there are none.
func SelectTop(items []core.NewsItem) (core.NewsItem, bool) {
	if len(items) == 0 {
		return core.NewsItem{}, false
	}
	return Rank(items)[0].Item, true
}
