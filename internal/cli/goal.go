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

type GoalCmd struct {
	Add    GoalAddCmd    `cmd:"" help:"Create a goal."`
	List   GoalListCmd   `cmd:"" help:"List goals."`
	Status GoalStatusCmd `cmd:"" help:"Change the status of a goal."`
}

type GoalAddCmd struct {
	Title       string `arg:"" help:"Goal title."`
	Description string `short:"d" help:"Longer description."`
}

func (c *GoalAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	now := time.Now()
	goal := models.Goal{
		ID:          uuid.NewString(),
		Title:       c.Title,
		Description: c.Description,
		Status:      models.GoalStatusNotStarted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := ctx.syncer().SaveGoal(context.Background(), goal); err != nil {
		return err
	}

	ctx.printf("Added goal: %s (ID: %s)\n", goal.Title, goal.ID)
	return nil
}

type GoalListCmd struct {
	Status string `short:"s" help:"Only goals with this status (not-started|in-progress|completed)."`
}

func (c *GoalListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	var (
		goals []models.Goal
		err   error
	)
	if c.Status != "" {
		goals, err = ctx.Store.GetGoalsByStatus(models.GoalStatus(c.Status))
	} else {
		goals, err = ctx.Store.GetAllGoals()
	}
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		ctx.printf("No goals found\n")
		return nil
	}

	ctx.printf("Goals:\n")
	for _, g := range goals {
		tasks, err := ctx.Store.GetTasksForGoal(g.ID)
		if err != nil {
			return err
		}
		done := 0
		for _, t := range tasks {
			if t.Completed {
				done++
			}
		}
		ctx.printf(" %s [%s] %s - %d/%d tasks  (%s)\n", syncMark(g.IsSynced), g.Status, g.Title, done, len(tasks), g.ID)
	}
	return nil
}

type GoalStatusCmd struct {
	ID     string `arg:"" help:"ID of the goal."`
	Status string `arg:"" help:"New status." enum:"not-started,in-progress,completed"`
}

func (c *GoalStatusCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	goal, err := ctx.Store.GetGoal(c.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("goal not found: %s", c.ID)
	}
	if err != nil {
		return err
	}

	goal.Status = models.GoalStatus(c.Status)
	goal.UpdatedAt = time.Now()
	if err := ctx.syncer().SaveGoal(context.Background(), goal); err != nil {
		return err
	}

	ctx.printf("Goal %s is now %s\n", goal.Title, goal.Status)
	return nil
}
