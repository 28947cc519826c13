package pipeline

import "sync"

// State is a pipeline stage.
type State int

const (
	Idle State = iota
	SearchingNews
	RankingNews
	Composing
	Generating
	Recovering
	ResolvingImages
	Finalizing
	Done
	Failed
)

var stateNames = [...]string{
	Idle:            "Idle",
	SearchingNews:   "SearchingNews",
	RankingNews:     "RankingNews",
	Composing:       "Composing",
	Generating:      "Generating",
	Recovering:      "Recovering",
	ResolvingImages: "ResolvingImages",
	Finalizing:      "Finalizing",
	Done:            "Done",
	Failed:          "Failed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// MarshalText lets states appear by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether no further transitions follow.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}

type milestone struct {
	percent int
	message string
}

var milestones = map[State]milestone{
	SearchingNews:   {10, "네이버 뉴스 검색 중..."},
	RankingNews:     {25, "뉴스 선별 중..."},
	Composing:       {40, "프롬프트 구성 중..."},
	Generating:      {50, "AI 블로그 생성 중..."},
	Recovering:      {70, "생성 결과 정리 중..."},
	ResolvingImages: {80, "관련 이미지 검색 중..."},
	Finalizing:      {90, "블로그 마무리 중..."},
	Done:            {100, "완료!"},
}

// Progress is an advisory status update.
type Progress struct {
	State   State  `json:"state"`
	Percent int    `json:"percent"`
	Message string `json:"message"`
}

// ProgressFunc receives progress updates. It is called from the goroutine
// running the pipeline.
type ProgressFunc func(Progress)

// tracker records the current state and guarantees that reported
// percentages never decrease.
type tracker struct {
	mu      sync.Mutex
	state   State
	percent int
	notify  ProgressFunc
}

func newTracker(notify ProgressFunc) *tracker {
	return &tracker{notify: notify}
}

func (t *tracker) enter(s State) {
	m := milestones[s]
	t.emit(s, m.percent, m.message)
}

func (t *tracker) fail(message string) {
	t.emit(Failed, 0, message)
}

func (t *tracker) emit(s State, percent int, message string) {
	t.mu.Lock()
	t.state = s
	if percent > t.percent {
		t.percent = percent
	}
	p := Progress{State: s, Percent: t.percent, Message: message}
	notify := t.notify
	t.mu.Unlock()

	if notify != nil {
		notify(p)
	}
}

func (t *tracker) current() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
