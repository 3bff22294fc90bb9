package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/curiosity/internal/models"
	"github.com/julianstephens/curiosity/internal/storage"
)

const goalColumns = "id, title, description, status, created_at, updated_at, is_synced"

func (s *Store) PutGoal(goal models.Goal) error {
	if goal.ID == "" {
		return fmt.Errorf("goal id is required")
	}
	if !goal.Status.Valid() {
		return fmt.Errorf("invalid goal status: %q", goal.Status)
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO goals (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		goal.ID, goal.Title, goal.Description, string(goal.Status),
		formatTime(goal.CreatedAt), formatTime(goal.UpdatedAt), goal.IsSynced,
	)
	if err != nil {
		return fmt.Errorf("failed to put goal: %w", err)
	}
	return nil
}

func (s *Store) GetGoal(id string) (models.Goal, error) {
	row := s.db.QueryRow("SELECT "+goalColumns+" FROM goals WHERE id = ?", id)
	goal, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Goal{}, fmt.Errorf("goal %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.Goal{}, fmt.Errorf("failed to get goal: %w", err)
	}
	return goal, nil
}

func (s *Store) GetAllGoals() ([]models.Goal, error) {
	return s.queryGoals("SELECT " + goalColumns + " FROM goals ORDER BY id")
}

func (s *Store) GetGoalsByStatus(status models.GoalStatus) ([]models.Goal, error) {
	return s.queryGoals("SELECT "+goalColumns+" FROM goals WHERE status = ? ORDER BY id", string(status))
}

func (s *Store) GetUnsyncedGoals() ([]models.Goal, error) {
	return s.queryGoals("SELECT " + goalColumns + " FROM goals WHERE is_synced = 0 ORDER BY id")
}

// DeleteGoal removes the goal only. Tasks pointing at it are kept.
func (s *Store) DeleteGoal(id string) error {
	return s.deleteByID("goals", id)
}

func (s *Store) queryGoals(query string, args ...any) ([]models.Goal, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

func scanGoal(row rowScanner) (models.Goal, error) {
	var goal models.Goal
	var status, createdAtStr, updatedAtStr string

	if err := row.Scan(
		&goal.ID, &goal.Title, &goal.Description, &status,
		&createdAtStr, &updatedAtStr, &goal.IsSynced,
	); err != nil {
		return models.Goal{}, err
	}

	goal.Status = models.GoalStatus(status)
	var err error
	if goal.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return models.Goal{}, err
	}
	if goal.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return models.Goal{}, err
	}
	return goal, nil
}
