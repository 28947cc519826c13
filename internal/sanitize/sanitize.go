// Package sanitize strips markup from raw search-result text.
package sanitize

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^<>]*>`)

// entityReplacer decodes the small fixed set of entities the news API emits.
// Anything else is left untouched.
var entityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", `"`,
	"&#x27;", "'",
	"&#39;", "'",
	"&#x2F;", "/",
	"&apos;", "'",
)

// Clean removes tags, decodes entities and collapses whitespace.
//
// Decoding can reveal new tags (for example "&lt;b&gt;"), so the pass is
// repeated until the text stops changing. Every pass either shortens the text
// or only normalises whitespace, so the loop terminates, and the result is a
// fixed point: Clean(Clean(x)) == Clean(x).
func Clean(raw string) string {
	s := raw
	for {
		next := pass(s)
		if next == s {
			return s
		}
		s = next
	}
}

func pass(s string) string {
	if s == "" {
		return ""
	}
	s = tagPattern.ReplaceAllString(s, "")
	s = entityReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
