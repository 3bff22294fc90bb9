package models

import (
	"fmt"
	"time"
)

type EntryType string

const (
	EntryTypeJournal EntryType = "journal"
	EntryTypeNote    EntryType = "note"
	EntryTypeTask    EntryType = "task"
	EntryTypeEvent   EntryType = "event"
)

// Valid reports whether t is one of the known entry types
func (t EntryType) Valid() bool {
	switch t {
	case EntryTypeJournal, EntryTypeNote, EntryTypeTask, EntryTypeEvent:
		return true
	}
	return false
}

// Entry is a single journal record
type Entry struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"-"`
	Type      EntryType `json:"type" yaml:"type"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
	Tags      []string  `json:"tags" yaml:"tags"`
	IsSynced  bool      `json:"isSynced" yaml:"isSynced"`
}

// Validate checks the invariants the store relies on
func (e Entry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("entry id is required")
	}
	if !e.Type.Valid() {
		return fmt.Errorf("invalid entry type: %q", e.Type)
	}
	if e.UpdatedAt.Before(e.CreatedAt) {
		return fmt.Errorf("entry %s: updatedAt is before createdAt", e.ID)
	}
	return nil
}
