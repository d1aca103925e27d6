package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shadercomposer/nodegraph/pkg/errors"
)

func sampleIssues() []Issue {
	return issuesOf(
		[]*errors.Error{
			errors.New(errors.ErrCodeDuplicateID, "Duplicate node ID %q", "n1"),
			errors.New(errors.ErrCodeOutOfRange, "out of range"),
		},
		[]*errors.Error{errors.New(errors.ErrCodeAutomationType, "int lane")},
	)
}

func press(m IssueListModel, key string) IssueListModel {
	var msg tea.KeyMsg
	switch key {
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(IssueListModel)
}

func TestIssuesOf(t *testing.T) {
	issues := sampleIssues()
	if len(issues) != 3 {
		t.Fatalf("len = %d, want 3", len(issues))
	}
	if issues[0].Warning || !issues[2].Warning {
		t.Errorf("errors must come before warnings: %+v", issues)
	}
}

func TestIssueListModel_Navigation(t *testing.T) {
	m := NewIssueListModel("scene.json", sampleIssues())

	m = press(m, "down")
	m = press(m, "down")
	m = press(m, "down") // clamped at the last issue
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2", m.Cursor)
	}
	m = press(m, "up")
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1", m.Cursor)
	}
}

func TestIssueListModel_WarningFilter(t *testing.T) {
	m := press(NewIssueListModel("scene.json", sampleIssues()), "w")
	if !m.WarningsOnly || len(m.visible()) != 1 {
		t.Fatalf("filter shows %d issues", len(m.visible()))
	}
	if !strings.Contains(m.View(), "int lane") {
		t.Error("view should show the warning")
	}
}

func TestIssueListModel_Quit(t *testing.T) {
	_, cmd := NewIssueListModel("x", nil).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if !strings.Contains(NewIssueListModel("x", nil).View(), "no issues") {
		t.Error("empty view should say no issues")
	}
}
