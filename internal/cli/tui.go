package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shadercomposer/nodegraph/pkg/errors"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// Issue is one row of the issue browser.
type Issue struct {
	Warning bool
	Code    errors.Code
	Message string
}

func issuesOf(errs, warnings []*errors.Error) []Issue {
	out := make([]Issue, 0, len(errs)+len(warnings))
	for _, e := range errs {
		out = append(out, Issue{Code: e.Code, Message: e.Message})
	}
	for _, w := range warnings {
		out = append(out, Issue{Warning: true, Code: w.Code, Message: w.Message})
	}
	return out
}

// =============================================================================
// IssueListModel - Interactive issue browser
// =============================================================================

// IssueListModel is the bubbletea model for browsing validation issues.
type IssueListModel struct {
	Path         string
	Issues       []Issue
	Cursor       int
	Height       int
	Offset       int
	WarningsOnly bool
}

// NewIssueListModel creates a new issue list model.
func NewIssueListModel(path string, issues []Issue) IssueListModel {
	return IssueListModel{Path: path, Issues: issues, Height: 15}
}

func (m IssueListModel) Init() tea.Cmd {
	return nil
}

// visible returns the issues shown under the current filter.
func (m IssueListModel) visible() []Issue {
	if !m.WarningsOnly {
		return m.Issues
	}
	var out []Issue
	for _, is := range m.Issues {
		if is.Warning {
			out = append(out, is)
		}
	}
	return out
}

func (m IssueListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(m.visible())
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < n-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "w":
			m.WarningsOnly = !m.WarningsOnly
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
	}
	return m, nil
}

func (m IssueListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Issues in " + m.Path))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  w warnings only  q quit"))
	b.WriteString("\n\n")

	issues := m.visible()
	if len(issues) == 0 {
		b.WriteString(StyleSuccess.Render(iconSuccess + " no issues"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(issues))
	for i := m.Offset; i < end; i++ {
		is := issues[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		icon := styleIconError.Render(iconError)
		if is.Warning {
			icon = styleIconWarning.Render(iconWarning)
		}
		line := fmt.Sprintf("%s%s %-22s", cursor, icon, is.Code)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString(" " + listDimStyle.Render(truncate(is.Message, 60)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(detailBoxStyle.Render(issues[m.Cursor].Message))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(issues))))
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
