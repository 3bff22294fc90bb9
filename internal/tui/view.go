package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	parts := []string{m.viewTabs()}
	if m.loadErr != nil {
		parts = append(parts, dangerStyle.Render(m.loadErr.Error()))
	}
	parts = append(parts, docStyle.Render(m.lists[m.tab].View()), m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for t := Tab(0); t < tabCount; t++ {
		if t == m.tab {
			tabs = append(tabs, activeTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(t.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
