package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/raphi011/divert/internal/dpkg"
)

var testDiversions = []dpkg.Diversion{
	{Path: "/etc/screenrc", Target: "/etc/screenrc.distrib", Holder: "branding"},
	{Path: "/etc/inputrc", Target: "/etc/inputrc.distrib"},
	{Path: "/usr/bin/vi", Target: "/usr/bin/vi.distrib", Holder: "vim-tiny"},
}

func TestFilterDiversions(t *testing.T) {
	t.Parallel()

	if got := filterDiversions(testDiversions, ""); len(got) != len(testDiversions) {
		t.Errorf("empty query kept %d entries, want all %d", len(got), len(testDiversions))
	}

	got := filterDiversions(testDiversions, "screenrc")
	if len(got) != 1 || got[0].Path != "/etc/screenrc" {
		t.Errorf("filterDiversions(screenrc) = %+v, want the screenrc entry", got)
	}

	// Holder names are searchable through their display label.
	got = filterDiversions(testDiversions, "vim")
	if len(got) != 1 || got[0].Holder != "vim-tiny" {
		t.Errorf("filterDiversions(vim) = %+v, want the vim-tiny entry", got)
	}

	if got := filterDiversions(testDiversions, "zzzzz"); len(got) != 0 {
		t.Errorf("filterDiversions(zzzzz) = %+v, want none", got)
	}
}

func TestSelectorModel_Navigation(t *testing.T) {
	t.Parallel()

	m := newSelectorModel(testDiversions)

	down := tea.KeyMsg{Type: tea.KeyDown}
	updated, _ := m.Update(down)
	m = updated.(selectorModel)
	if m.cursor != 1 {
		t.Errorf("cursor = %d after down, want 1", m.cursor)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(selectorModel)
	if m.selected == nil || m.selected.Path != "/etc/inputrc" {
		t.Errorf("selected = %+v, want /etc/inputrc", m.selected)
	}
}

func TestSelectorModel_Cancel(t *testing.T) {
	t.Parallel()

	m := newSelectorModel(testDiversions)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(selectorModel)
	if !m.cancelled {
		t.Error("cancelled = false after esc, want true")
	}
}
