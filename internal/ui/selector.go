// Package ui provides the interactive terminal components.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/raphi011/divert/internal/dpkg"
	"github.com/raphi011/divert/internal/format"
)

var (
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true)
	unselectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
)

// SelectorResult contains the result of the selection.
type SelectorResult struct {
	Diversion dpkg.Diversion
	Selected  bool
	Cancelled bool
}

// selectorModel is the bubbletea model for diversion selection.
type selectorModel struct {
	diversions []dpkg.Diversion
	filtered   []dpkg.Diversion
	textInput  textinput.Model
	cursor     int
	selected   *dpkg.Diversion
	cancelled  bool
	maxHeight  int
}

func newSelectorModel(diversions []dpkg.Diversion) selectorModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 40
	ti.PromptStyle = cursorStyle
	ti.TextStyle = lipgloss.NewStyle()

	return selectorModel{
		diversions: diversions,
		filtered:   diversions,
		textInput:  ti,
		maxHeight:  10,
	}
}

func (m selectorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m selectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			if len(m.filtered) > 0 && m.cursor < len(m.filtered) {
				m.selected = &m.filtered[m.cursor]
			}
			return m, tea.Quit

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)

	m.filtered = filterDiversions(m.diversions, m.textInput.Value())

	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}

	return m, cmd
}

// filterDiversions ranks diversions against the query with fuzzy matching
// over path, target and holder.
func filterDiversions(diversions []dpkg.Diversion, query string) []dpkg.Diversion {
	if query == "" {
		return diversions
	}

	haystack := make([]string, len(diversions))
	for i, d := range diversions {
		haystack[i] = fmt.Sprintf("%s %s %s", d.Path, d.Target, format.HolderLabel(d.Holder))
	}

	matches := fuzzy.Find(query, haystack)
	filtered := make([]dpkg.Diversion, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, diversions[match.Index])
	}
	return filtered
}

func (m selectorModel) View() string {
	if m.selected != nil || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString("Select a diversion to remove:\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	shown := m.filtered
	if len(shown) > m.maxHeight {
		shown = shown[:m.maxHeight]
	}

	for i, d := range shown {
		line := fmt.Sprintf("%s %s %s",
			d.Path,
			dimStyle.Render("→ "+d.Target),
			dimStyle.Render("("+format.HolderLabel(d.Holder)+")"))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(unselectedStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if len(m.filtered) == 0 {
		b.WriteString(dimStyle.Render("  no matching diversions"))
		b.WriteString("\n")
	}
	if hidden := len(m.filtered) - len(shown); hidden > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  … and %d more", hidden)))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("\nenter select · esc cancel"))
	return b.String()
}

// SelectDiversion shows an interactive fuzzy-filtered picker.
func SelectDiversion(diversions []dpkg.Diversion) (SelectorResult, error) {
	p := tea.NewProgram(newSelectorModel(diversions))
	finalModel, err := p.Run()
	if err != nil {
		return SelectorResult{}, err
	}

	m := finalModel.(selectorModel)
	if m.cancelled || m.selected == nil {
		return SelectorResult{Cancelled: true}, nil
	}
	return SelectorResult{Diversion: *m.selected, Selected: true}, nil
}
