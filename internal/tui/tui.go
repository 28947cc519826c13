// Package tui shows the progress of a generation run in the terminal.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"newsblog/internal/core"
	"newsblog/internal/pipeline"
)

const barWidth = 40

var (
	docStyle     = lipgloss.NewStyle().Margin(1, 2)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	filledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type progressMsg pipeline.Progress

type doneMsg struct {
	record *core.BlogRecord
	err    error
}

type model struct {
	query    string
	current  pipeline.Progress
	steps    []pipeline.Progress
	record   *core.BlogRecord
	err      error
	done     bool
	quitting bool
	started  time.Time
	cancel   context.CancelFunc
}

func newModel(query string, cancel context.CancelFunc) model {
	return model{query: query, started: time.Now(), cancel: cancel}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		p := pipeline.Progress(msg)
		if p.State != m.current.State && m.current.Message != "" {
			m.steps = append(m.steps, m.current)
		}
		m.current = p

	case doneMsg:
		m.done = true
		m.record = msg.record
		m.err = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("📰 블로그 생성: %s", m.query)))
	b.WriteString("\n\n")

	for _, s := range m.steps {
		b.WriteString(stepStyle.Render("✓ " + s.Message))
		b.WriteString("\n")
	}

	b.WriteString(bar(m.current.Percent))
	b.WriteString(fmt.Sprintf(" %3d%%\n", m.current.Percent))
	if m.current.Message != "" {
		b.WriteString(m.current.Message)
		b.WriteString("\n")
	}

	switch {
	case m.done && m.err != nil:
		b.WriteString("\n" + errorStyle.Render("❌ "+m.err.Error()) + "\n")
	case m.done && m.record != nil:
		b.WriteString("\n" + successStyle.Render("✅ "+m.record.Title) + "\n")
		b.WriteString(helpStyle.Render(fmt.Sprintf("%d words, about %d min read, %s",
			m.record.WordCount, m.record.EstimatedReadMinutes, time.Since(m.started).Round(time.Second))) + "\n")
	case m.quitting:
		b.WriteString("\n" + helpStyle.Render("Cancelling...") + "\n")
	default:
		b.WriteString("\n" + helpStyle.Render("[q] Cancel") + "\n")
	}

	return docStyle.Render(b.String())
}

func bar(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * barWidth / 100
	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", barWidth-filled))
}

// Run executes the pipeline behind a progress view and returns its result.
// Quitting the view cancels the run.
func Run(ctx context.Context, p *pipeline.Pipeline, req pipeline.Request, timeout time.Duration) (*core.BlogRecord, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	label := req.Query.Keyword
	if label == "" {
		label = req.Query.Category()
	}
	prog := tea.NewProgram(newModel(label, cancel))

	results := make(chan pipeline.Result, 1)
	go func() {
		r := <-p.Start(ctx, req, timeout, func(pr pipeline.Progress) {
			prog.Send(progressMsg(pr))
		})
		results <- r
		prog.Send(doneMsg{record: r.Record, err: r.Err})
	}()

	if _, err := prog.Run(); err != nil {
		cancel()
		<-results
		return nil, fmt.Errorf("failed to run progress view: %w", err)
	}

	cancel()
	r := <-results
	return r.Record, r.Err
}
