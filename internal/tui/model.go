package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"resumerank/internal/domain"
	"resumerank/internal/ranker"
)

// Model is the Bubble Tea model for browsing a ranking.
type Model struct {
	job      string
	all      domain.RankedResult
	visible  []int
	input    textinput.Model
	viewport viewport.Model
	status   string
	cursor   int
	ready    bool
}

// New creates a new TUI model for the ranking of candidates against job.
func New(job string, results domain.RankedResult, status string) Model {
	ti := textinput.New()
	ti.Prompt = "filter> "
	ti.Placeholder = "Type to filter resumes by name"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	m := Model{job: job, all: results, input: ti, viewport: vp, status: status}
	m.applyFilter()
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and filter boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := filterBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header + list line, status, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrent())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "down":
			if len(m.visible) > 0 {
				m.cursor = (m.cursor + 1) % len(m.visible)
				m.viewport.SetContent(m.renderCurrent())
			}
			return m, nil
		case "up":
			if len(m.visible) > 0 {
				m.cursor = (m.cursor - 1 + len(m.visible)) % len(m.visible)
				m.viewport.SetContent(m.renderCurrent())
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.applyFilter()
		m.viewport.SetContent(m.renderCurrent())
	}
	return m, cmd
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Resume ranking for " + m.job)
	list := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.renderList())
	results := resultBoxStyle.Render(m.viewport.View())
	input := filterBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + list + "\n" + results + "\n" + input + "\n" + status
}

// Selected returns the match under the cursor.
func (m Model) Selected() (domain.Match, bool) {
	if len(m.visible) == 0 {
		return domain.Match{}, false
	}
	return m.all[m.visible[m.cursor]], true
}

func (m *Model) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.input.Value()))
	m.visible = m.visible[:0]
	for i, r := range m.all {
		if q == "" || strings.Contains(strings.ToLower(r.ID), q) {
			m.visible = append(m.visible, i)
		}
	}
	m.cursor = 0
}

func (m Model) renderList() string {
	if len(m.visible) == 0 {
		return ""
	}
	parts := make([]string, len(m.visible))
	for i, idx := range m.visible {
		r := m.all[idx]
		label := fmt.Sprintf("%d. %s %s%%", idx+1, r.ID, r.Percentage)
		if i == m.cursor {
			label = highlightStyle.Render(label)
		}
		parts[i] = label
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderCurrent() string {
	r, ok := m.Selected()
	if !ok {
		if len(m.all) == 0 {
			return "No resumes to rank."
		}
		return "No resumes match the filter."
	}
	title := fmt.Sprintf("Rank %d/%d  score=%.4f", m.visible[m.cursor]+1, len(m.all), r.Score)
	return title + "\n\n" + strings.TrimRight(ranker.Summary(r), "\n")
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	filterBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)
