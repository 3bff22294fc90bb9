package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/curiosity/internal/constants"
	"github.com/julianstephens/curiosity/internal/logger"
	"github.com/julianstephens/curiosity/internal/models"
)

type ReminderCmd struct {
	Add    ReminderAddCmd    `cmd:"" help:"Schedule a reminder."`
	List   ReminderListCmd   `cmd:"" help:"List reminders."`
	Notify ReminderNotifyCmd `cmd:"" help:"Show notifications for reminders that are due."`
}

type ReminderAddCmd struct {
	Text string `arg:"" help:"Reminder text."`
	At   string `short:"a" help:"When to fire (RFC 3339, YYYY-MM-DD HH:MM or YYYY-MM-DD)." required:""`
}

func (c *ReminderAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	at, err := parseWhen(c.At)
	if err != nil {
		return err
	}

	reminder := models.Reminder{
		ID:        uuid.NewString(),
		Text:      c.Text,
		Date:      at,
		CreatedAt: time.Now(),
	}
	if err := ctx.syncer().SaveReminder(context.Background(), reminder); err != nil {
		return err
	}

	ctx.printf("Added reminder for %s (ID: %s)\n", at.Local().Format("2006-01-02 15:04"), reminder.ID)
	return nil
}

type ReminderListCmd struct {
	Due bool `help:"Only reminders that are due and not yet shown."`
}

func (c *ReminderListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	var (
		reminders []models.Reminder
		err       error
	)
	if c.Due {
		reminders, err = ctx.Store.GetDueReminders(time.Now())
	} else {
		reminders, err = ctx.Store.GetAllReminders()
	}
	if err != nil {
		return err
	}
	if len(reminders) == 0 {
		ctx.printf("No reminders found\n")
		return nil
	}

	ctx.printf("Reminders:\n")
	for _, r := range reminders {
		state := "pending"
		if r.FiredAt != nil {
			state = "fired"
		}
		ctx.printf(" %s %s  [%s] %s  (%s)\n", syncMark(r.IsSynced), r.Date.Local().Format("2006-01-02 15:04"), state, r.Text, r.ID)
	}
	return nil
}

type ReminderNotifyCmd struct {
	URL string `help:"Page to open when the notification is clicked." default:"/reminders"`
}

// reminderPush is the push message body the bridge parses for a reminder.
type reminderPush struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

func (c *ReminderNotifyCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	now := time.Now()
	due, err := ctx.Store.GetDueReminders(now)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		ctx.printf("No reminders due\n")
		return nil
	}

	bridge := ctx.bridge()
	shown := 0
	for _, r := range due {
		payload, err := json.Marshal(reminderPush{Title: constants.DefaultNotificationTitle, Body: r.Text, URL: c.URL})
		if err != nil {
			return err
		}
		if _, err := bridge.HandlePush(context.Background(), payload); err != nil {
			// Unshown reminders stay due and are retried on the next run.
			logger.Warn("Failed to show reminder", "id", r.ID, "error", err)
			continue
		}

		fired := now
		r.FiredAt = &fired
		if err := ctx.syncer().SaveReminder(context.Background(), r); err != nil {
			return fmt.Errorf("failed to mark reminder %s as fired: %w", r.ID, err)
		}
		shown++
	}

	ctx.printf("Showed %d of %d due reminder(s)\n", shown, len(due))
	if shown < len(due) {
		return fmt.Errorf("%d reminder(s) could not be shown", len(due)-shown)
	}
	return nil
}
