package records

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// Item is one row of a collection listing.
type Item struct {
	ID     string
	Name   string
	Detail string
	Synced bool
}

func (i Item) Title() string {
	if i.Name == "" {
		return "(untitled)"
	}
	return i.Name
}

func (i Item) Description() string {
	desc := i.Detail
	if !i.Synced {
		if desc != "" {
			desc += " | "
		}
		desc += "not synced"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Name }

type Model struct {
	list  list.Model
	empty string
}

// New builds a list titled after a collection. empty is shown when there are no rows.
func New(title, empty string, items []Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = title
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is rendered by the parent model
	return Model{list: l, empty: empty}
}

func toListItems(items []Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

func (m *Model) SetItems(items []Item) {
	m.list.SetItems(toListItems(items))
}

func (m Model) Len() int {
	return len(m.list.Items())
}

// Selected returns the highlighted row, if any.
func (m Model) Selected() (Item, bool) {
	it, ok := m.list.SelectedItem().(Item)
	return it, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  " + m.empty
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
