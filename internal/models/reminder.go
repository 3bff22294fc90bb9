package models

import "time"

// Reminder fires once when its date is reached
type Reminder struct {
	ID        string     `json:"id" yaml:"id"`
	Text      string     `json:"text" yaml:"text"`
	Date      time.Time  `json:"date" yaml:"date"`
	CreatedAt time.Time  `json:"createdAt" yaml:"createdAt"`
	IsSynced  bool       `json:"isSynced" yaml:"isSynced"`
	FiredAt   *time.Time `json:"firedAt,omitempty" yaml:"firedAt,omitempty"`
}

// Due reports whether the reminder should fire at now
func (r Reminder) Due(now time.Time) bool {
	return r.FiredAt == nil && !r.Date.After(now)
}
