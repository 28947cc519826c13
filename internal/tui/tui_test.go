package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"newsblog/internal/core"
	"newsblog/internal/pipeline"
)

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return nm, cmd
}

func TestUpdate_Progress(t *testing.T) {
	m := newModel("금리", nil)

	m, _ = update(t, m, progressMsg{State: pipeline.SearchingNews, Percent: 10, Message: "네이버 뉴스 검색 중..."})
	m, _ = update(t, m, progressMsg{State: pipeline.Generating, Percent: 50, Message: "AI 블로그 생성 중..."})

	if m.current.Percent != 50 {
		t.Errorf("expected 50%%, got %d", m.current.Percent)
	}
	if len(m.steps) != 1 || m.steps[0].State != pipeline.SearchingNews {
		t.Errorf("expected the search step to be recorded, got %+v", m.steps)
	}

	view := m.View()
	for _, want := range []string{"금리", "AI 블로그 생성 중...", "50%", "✓ 네이버 뉴스 검색 중..."} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestUpdate_DoneQuits(t *testing.T) {
	m := newModel("금리", nil)

	m, cmd := update(t, m, doneMsg{record: &core.BlogRecord{Title: "금리 인하 분석", WordCount: 600, EstimatedReadMinutes: 2}})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if !m.done || !strings.Contains(m.View(), "금리 인하 분석") {
		t.Errorf("expected the finished title in the view:\n%s", m.View())
	}
}

func TestUpdate_DoneWithError(t *testing.T) {
	m := newModel("금리", nil)

	m, _ = update(t, m, doneMsg{err: errors.New("news search failed")})
	if !strings.Contains(m.View(), "news search failed") {
		t.Errorf("expected the error in the view:\n%s", m.View())
	}
}

func TestUpdate_QuitCancelsRun(t *testing.T) {
	cancelled := false
	m := newModel("금리", func() { cancelled = true })

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil || !m.quitting {
		t.Fatal("expected ctrl+c to quit")
	}
	if !cancelled {
		t.Error("expected the run to be cancelled")
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		percent int
		filled  int
	}{
		{-5, 0},
		{0, 0},
		{50, barWidth / 2},
		{100, barWidth},
		{150, barWidth},
	}

	for _, tt := range tests {
		got := strings.Count(bar(tt.percent), "█")
		if got != tt.filled {
			t.Errorf("bar(%d) filled %d cells, want %d", tt.percent, got, tt.filled)
		}
	}
}
