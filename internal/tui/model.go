package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/curiosity/internal/constants"
	"github.com/julianstephens/curiosity/internal/models"
	"github.com/julianstephens/curiosity/internal/tui/components/records"
)

// Store is the read side of the local store the browser lists from.
type Store interface {
	GetAllEntries() ([]models.Entry, error)
	GetAllReminders() ([]models.Reminder, error)
	GetAllGoals() ([]models.Goal, error)
	GetAllTasks() ([]models.Task, error)
	GetAllVaultItems() ([]models.VaultItem, error)
}

type Tab int

const (
	TabEntries Tab = iota
	TabReminders
	TabGoals
	TabTasks
	TabVault
	tabCount
)

var tabTitles = [tabCount]string{"Entries", "Reminders", "Goals", "Tasks", "Vault"}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "unknown"
	}
	return tabTitles[t]
}

// Model browses the local collections one tab at a time.
type Model struct {
	store    Store
	tab      Tab
	keys     KeyMap
	help     help.Model
	lists    [tabCount]records.Model
	loadErr  error
	quitting bool
	width    int
	height   int
}

func NewModel(store Store) Model {
	m := Model{
		store: store,
		keys:  DefaultKeyMap(),
		help:  help.New(),
	}
	for t := Tab(0); t < tabCount; t++ {
		empty := fmt.Sprintf("No %s yet.", strings.ToLower(t.String()))
		m.lists[t] = records.New(t.String(), empty, nil, 80, 20)
	}
	m.reload()
	return m
}

// reload refreshes every list from the store. The first error is kept for the view.
func (m *Model) reload() {
	m.loadErr = nil
	loaders := [tabCount]func() ([]records.Item, error){
		TabEntries:   m.entryItems,
		TabReminders: m.reminderItems,
		TabGoals:     m.goalItems,
		TabTasks:     m.taskItems,
		TabVault:     m.vaultItems,
	}
	for t, load := range loaders {
		items, err := load()
		if err != nil {
			if m.loadErr == nil {
				m.loadErr = fmt.Errorf("load %s: %w", Tab(t), err)
			}
			continue
		}
		m.lists[t].SetItems(items)
	}
}

func (m *Model) entryItems() ([]records.Item, error) {
	entries, err := m.store.GetAllEntries()
	if err != nil {
		return nil, err
	}
	items := make([]records.Item, len(entries))
	for i, e := range entries {
		detail := string(e.Type) + " | " + e.CreatedAt.Local().Format(constants.DateFormat)
		if len(e.Tags) > 0 {
			detail += " | #" + strings.Join(e.Tags, " #")
		}
		items[i] = records.Item{ID: e.ID, Name: e.Title, Detail: detail, Synced: e.IsSynced}
	}
	return items, nil
}

func (m *Model) reminderItems() ([]records.Item, error) {
	reminders, err := m.store.GetAllReminders()
	if err != nil {
		return nil, err
	}
	items := make([]records.Item, len(reminders))
	for i, r := range reminders {
		detail := r.Date.Local().Format("2006-01-02 15:04")
		if r.FiredAt != nil {
			detail += " | fired"
		}
		items[i] = records.Item{ID: r.ID, Name: r.Text, Detail: detail, Synced: r.IsSynced}
	}
	return items, nil
}

func (m *Model) goalItems() ([]records.Item, error) {
	goals, err := m.store.GetAllGoals()
	if err != nil {
		return nil, err
	}
	items := make([]records.Item, len(goals))
	for i, g := range goals {
		items[i] = records.Item{ID: g.ID, Name: g.Title, Detail: string(g.Status), Synced: g.IsSynced}
	}
	return items, nil
}

func (m *Model) taskItems() ([]records.Item, error) {
	tasks, err := m.store.GetAllTasks()
	if err != nil {
		return nil, err
	}
	items := make([]records.Item, len(tasks))
	for i, t := range tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		items[i] = records.Item{ID: t.ID, Name: mark + " " + t.Text, Detail: "goal " + t.GoalID, Synced: t.IsSynced}
	}
	return items, nil
}

func (m *Model) vaultItems() ([]records.Item, error) {
	vault, err := m.store.GetAllVaultItems()
	if err != nil {
		return nil, err
	}
	items := make([]records.Item, len(vault))
	for i, v := range vault {
		detail := fmt.Sprintf("%s | %d bytes sealed", v.Type, len(v.EncryptedData))
		items[i] = records.Item{ID: v.ID, Name: v.Title, Detail: detail, Synced: v.IsSynced}
	}
	return items, nil
}

// Active returns the tab currently shown.
func (m Model) Active() Tab {
	return m.tab
}

func (m Model) ShortHelp() []key.Binding {
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return nil
}
