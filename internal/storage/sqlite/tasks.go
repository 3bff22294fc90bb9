package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/curiosity/internal/models"
	"github.com/julianstephens/curiosity/internal/storage"
)

const taskColumns = "id, goal_id, text, completed, created_at, is_synced"

func (s *Store) PutTask(task models.Task) error {
	if task.ID == "" {
		return fmt.Errorf("task id is required")
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		task.ID, task.GoalID, task.Text, task.Completed, formatTime(task.CreatedAt), task.IsSynced,
	)
	if err != nil {
		return fmt.Errorf("failed to put task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(id string) (models.Task, error) {
	row := s.db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

func (s *Store) GetAllTasks() ([]models.Task, error) {
	return s.queryTasks("SELECT " + taskColumns + " FROM tasks ORDER BY id")
}

func (s *Store) GetTasksForGoal(goalID string) ([]models.Task, error) {
	return s.queryTasks("SELECT "+taskColumns+" FROM tasks WHERE goal_id = ? ORDER BY created_at, id", goalID)
}

func (s *Store) GetUnsyncedTasks() ([]models.Task, error) {
	return s.queryTasks("SELECT " + taskColumns + " FROM tasks WHERE is_synced = 0 ORDER BY id")
}

func (s *Store) DeleteTask(id string) error {
	return s.deleteByID("tasks", id)
}

func (s *Store) queryTasks(query string, args ...any) ([]models.Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func scanTask(row rowScanner) (models.Task, error) {
	var task models.Task
	var createdAtStr string

	if err := row.Scan(
		&task.ID, &task.GoalID, &task.Text, &task.Completed, &createdAtStr, &task.IsSynced,
	); err != nil {
		return models.Task{}, err
	}

	var err error
	if task.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return models.Task{}, err
	}
	return task, nil
}
