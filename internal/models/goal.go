package models

import "time"

type GoalStatus string

const (
	GoalStatusNotStarted GoalStatus = "not-started"
	GoalStatusInProgress GoalStatus = "in-progress"
	GoalStatusCompleted  GoalStatus = "completed"
)

// Valid reports whether s is one of the known goal statuses
func (s GoalStatus) Valid() bool {
	switch s {
	case GoalStatusNotStarted, GoalStatusInProgress, GoalStatusCompleted:
		return true
	}
	return false
}

type Goal struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"-"`
	Status      GoalStatus `json:"status" yaml:"status"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" yaml:"updatedAt"`
	IsSynced    bool       `json:"isSynced" yaml:"isSynced"`
}

// Task is a step towards a goal. GoalID is not checked against existing goals,
// so a task may outlive the goal it points at.
type Task struct {
	ID        string    `json:"id" yaml:"id"`
	GoalID    string    `json:"goalId" yaml:"goalId"`
	Text      string    `json:"text" yaml:"text"`
	Completed bool      `json:"completed" yaml:"completed"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	IsSynced  bool      `json:"isSynced" yaml:"isSynced"`
}
