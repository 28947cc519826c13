package prompts

import (
	"regexp"
	"strings"
	"text/template"

	"newsblog/internal/core"
	"newsblog/internal/logger"
)

// UntitledNews is shown when the selected item has no title.
const UntitledNews = "제목 없음"

// DefaultCategoryGuidance holds one writing instruction per category. The
// 전체 entry is used for every category not listed.
var DefaultCategoryGuidance = map[string]string{
	"정치":                 "정치적 중립성을 유지하면서 다양한 관점을 균형있게 제시하고, 정책의 실질적 영향을 분석해주세요.",
	"경제":                 "경제 지표와 시장 동향을 포함하여 일반인도 이해하기 쉽게 설명하고, 실생활 영향을 중심으로 작성해주세요.",
	"사회":                 "사회 현상의 배경과 원인을 심층 분석하고, 다양한 계층의 입장을 고려한 균형잡힌 시각을 제시해주세요.",
	core.GeneralCategory: "해당 이슈의 전반적인 맥락과 의미를 포괄적으로 다루어주세요.",
}

var contextTemplates = map[string]string{
	"정치":                 "최근 정치권에서는 '%s' 관련 논의가 활발히 진행되고 있으며, 여야 간 입장 차이가 뚜렷합니다.",
	"경제":                 "'%s' 이슈는 국내 경제와 시장에 미치는 영향이 클 것으로 전망되며, 전문가들의 의견이 분분합니다.",
	"사회":                 "'%s' 사안에 대해 시민사회와 각계각층에서 다양한 의견과 대안이 제시되고 있습니다.",
	core.GeneralCategory: "'%s' 관련하여 다방면에서 관심이 집중되고 있으며, 향후 전개 과정이 주목받고 있습니다.",
}

var termPattern = regexp.MustCompile(`[가-힣\w]{2,}`)

var blogPrompt = template.Must(template.New("blog").Parse(`당신은 10년 경력의 전문 블로그 작가입니다. 다음 뉴스를 바탕으로 고품질 블로그 포스팅을 작성해주세요.

**📰 뉴스 정보**
- 제목: {{.Title}}
- 카테고리: {{.Category}}
- 발행일: {{.PubDate}}
- 요약: {{.Description}}

**🔍 추가 배경 정보**
{{.Context}}

**✍️ 작성 가이드라인**

**제목 작성**
- 30-40자 내외의 SEO 최적화된 클릭 유도 제목

**본문 구성 (2500자 내외)**
1. **도입부**: 독자의 관심을 끄는 흥미로운 시작
2. **배경 설명**: 이슈의 맥락과 배경 ([이미지_1] 마커 삽입)
3. **핵심 내용 분석**: 뉴스의 주요 내용과 의미
4. **다양한 관점**: 여러 입장과 의견 제시 ([이미지_2] 마커 삽입)
   - {{.Guidance}}
5. **영향과 전망**: 향후 예상되는 변화와 영향

**이미지 마커 사용법**
- 본문 중 적절한 위치에 [이미지_1], [이미지_2] 형식으로 삽입
- 각 이미지마다 검색할 키워드를 imageKeywords에 제공
- 이미지는 최대 2개까지 사용

**🚨 중요사항**
- 이미지 위치는 반드시 [이미지_1], [이미지_2] 형식 사용
- imageKeywords는 무료 이미지 사이트에서 검색할 키워드
- 검색 키워드는 영어로 작성 (예: "politics", "economy", "meeting")
- 결론(conclusion)은 독자의 사고를 자극하는 200자 내외 문단
- 태그(tags)는 #으로 시작하는 5-8개

반드시 지정된 JSON 형식으로만 응답하고, JSON 이외의 텍스트는 포함하지 마세요.`))

type promptData struct {
	Title       string
	Category    string
	PubDate     string
	Description string
	Context     string
	Guidance    string
}

// Compose builds the writer instruction for item. guidance may be nil, in
// which case DefaultCategoryGuidance is used. The output depends only on
// the arguments.
func Compose(item core.NewsItem, guidance map[string]string, contextBlock string) string {
	data := promptData{
		Title:       strings.TrimSpace(item.Title),
		Category:    strings.TrimSpace(item.Category),
		PubDate:     item.PubDate,
		Description: item.Description,
		Context:     contextBlock,
		Guidance:    GuidanceFor(item.Category, guidance),
	}
	if data.Title == "" {
		data.Title = UntitledNews
	}
	if data.Category == "" {
		data.Category = core.GeneralCategory
	}

	var sb strings.Builder
	if err := blogPrompt.Execute(&sb, data); err != nil {
		logger.Error("Failed to render blog prompt", err)
	}
	return sb.String()
}

// GuidanceFor returns the single guidance sentence for category.
func GuidanceFor(category string, guidance map[string]string) string {
	if guidance == nil {
		guidance = DefaultCategoryGuidance
	}
	if g, ok := guidance[strings.TrimSpace(category)]; ok && g != "" {
		return g
	}
	if g, ok := guidance[core.GeneralCategory]; ok && g != "" {
		return g
	}
	return DefaultCategoryGuidance[core.GeneralCategory]
}

// ContextFor returns the background paragraph for category built around
// searchTerms. Unknown categories use the 전체 template.
func ContextFor(category, searchTerms string) string {
	tmpl, ok := contextTemplates[strings.TrimSpace(category)]
	if !ok {
		tmpl = contextTemplates[core.GeneralCategory]
	}
	return strings.Replace(tmpl, "%s", searchTerms, 1)
}

// SearchTerms extracts up to three words of two or more characters from title.
// When none qualify the trimmed title is returned as is.
func SearchTerms(title string) string {
	terms := termPattern.FindAllString(title, 3)
	if len(terms) == 0 {
		return strings.TrimSpace(title)
	}
	return strings.Join(terms, " ")
}

// ContextForItem combines SearchTerms and ContextFor for a news item.
func ContextForItem(item core.NewsItem) string {
	category := item.Category
	if category == "" {
		category = core.GeneralCategory
	}
	return ContextFor(category, SearchTerms(item.Title))
}
