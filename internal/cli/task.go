package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/curiosity/internal/models"
	"github.com/julianstephens/curiosity/internal/storage"
)

type TaskCmd struct {
	Add  TaskAddCmd  `cmd:"" help:"Add a task to a goal."`
	List TaskListCmd `cmd:"" help:"List tasks."`
	Done TaskDoneCmd `cmd:"" help:"Mark a task as completed."`
}

type TaskAddCmd struct {
	Goal string `short:"g" help:"ID of the goal the task belongs to." required:""`
	Text string `arg:"" help:"Task text."`
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	// Tasks may point at a goal that no longer exists, but a new task should
	// start out attached to a real one.
	if _, err := ctx.Store.GetGoal(c.Goal); errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("goal not found: %s", c.Goal)
	} else if err != nil {
		return err
	}

	task := models.Task{
		ID:        uuid.NewString(),
		GoalID:    c.Goal,
		Text:      c.Text,
		CreatedAt: time.Now(),
	}
	if err := ctx.syncer().SaveTask(context.Background(), task); err != nil {
		return err
	}

	ctx.printf("Added task: %s (ID: %s)\n", task.Text, task.ID)
	return nil
}

type TaskListCmd struct {
	Goal string `short:"g" help:"Only tasks of this goal."`
}

func (c *TaskListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	var (
		tasks []models.Task
		err   error
	)
	if c.Goal != "" {
		tasks, err = ctx.Store.GetTasksForGoal(c.Goal)
	} else {
		tasks, err = ctx.Store.GetAllTasks()
	}
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		ctx.printf("No tasks found\n")
		return nil
	}

	ctx.printf("Tasks:\n")
	for _, t := range tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		ctx.printf(" %s %s %s  (goal %s, %s)\n", syncMark(t.IsSynced), mark, t.Text, t.GoalID, t.ID)
	}
	return nil
}

type TaskDoneCmd struct {
	ID string `arg:"" help:"ID of the task."`
}

func (c *TaskDoneCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	task, err := ctx.Store.GetTask(c.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("task not found: %s", c.ID)
	}
	if err != nil {
		return err
	}

	task.Completed = true
	if err := ctx.syncer().SaveTask(context.Background(), task); err != nil {
		return err
	}
	ctx.printf("Completed task: %s\n", task.Text)
	return nil
}
