package models

import "time"

// Snapshot is the full contents of the local store at one point in time
type Snapshot struct {
	TakenAt    time.Time   `json:"takenAt"`
	Entries    []Entry     `json:"entries"`
	Reminders  []Reminder  `json:"reminders"`
	Settings   *Settings   `json:"settings,omitempty"`
	Goals      []Goal      `json:"goals"`
	Tasks      []Task      `json:"tasks"`
	VaultItems []VaultItem `json:"vaultItems"`
}

// Len returns the number of logical records in the snapshot
func (s Snapshot) Len() int {
	n := len(s.Entries) + len(s.Reminders) + len(s.Goals) + len(s.Tasks) + len(s.VaultItems)
	if s.Settings != nil {
		n++
	}
	return n
}
