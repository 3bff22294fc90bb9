package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		for t := range m.lists {
			// tabs and help take two lines each
			m.lists[t].SetSize(msg.Width-4, msg.Height-6)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.tab = (m.tab + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.tab = (m.tab - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.reload()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.lists[m.tab], cmd = m.lists[m.tab].Update(msg)
	return m, cmd
}
