package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/curiosity/internal/constants"
	"github.com/julianstephens/curiosity/internal/logger"
	"github.com/julianstephens/curiosity/internal/mirror"
	"github.com/julianstephens/curiosity/internal/models"
	"github.com/julianstephens/curiosity/internal/storage"
)

type EntryCmd struct {
	Add    EntryAddCmd    `cmd:"" help:"Write a journal entry."`
	List   EntryListCmd   `cmd:"" help:"List journal entries."`
	Delete EntryDeleteCmd `cmd:"" help:"Delete a journal entry."`
}

type EntryAddCmd struct {
	Title   string   `arg:"" help:"Entry title."`
	Content string   `short:"c" help:"Entry body. Read from stdin when empty."`
	Type    string   `short:"t" help:"Entry type (journal|note|task|event)." default:"journal" enum:"journal,note,task,event"`
	Tags    []string `short:"g" help:"Tags, comma separated."`
}

func (c *EntryAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	content := c.Content
	if content == "" {
		var err error
		if content, err = readAll(ctx.In); err != nil {
			return err
		}
	}

	now := time.Now()
	entry := models.Entry{
		ID:        uuid.NewString(),
		Title:     c.Title,
		Content:   content,
		Type:      models.EntryType(c.Type),
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      c.Tags,
	}
	if err := ctx.syncer().SaveEntry(context.Background(), entry); err != nil {
		return err
	}

	ctx.printf("Added entry: %s (ID: %s)\n", entry.Title, entry.ID)
	return nil
}

type EntryListCmd struct {
	Tag  string `help:"Only entries with this tag."`
	From string `help:"Only entries created at or after this time."`
	To   string `help:"Only entries created at or before this time."`
}

func (c *EntryListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	entries, err := c.query(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		ctx.printf("No entries found\n")
		return nil
	}

	ctx.printf("Entries:\n")
	for _, e := range entries {
		ctx.printf(" %s %s  %-8s %s", syncMark(e.IsSynced), e.CreatedAt.Local().Format(constants.DateFormat), e.Type, e.Title)
		if len(e.Tags) > 0 {
			ctx.printf("  #%s", strings.Join(e.Tags, " #"))
		}
		ctx.printf("  (%s)\n", e.ID)
	}
	return nil
}

func (c *EntryListCmd) query(ctx *Context) ([]models.Entry, error) {
	switch {
	case c.Tag != "":
		return ctx.Store.GetEntriesByTag(c.Tag)
	case c.From != "" || c.To != "":
		from, to := time.Time{}, time.Now()
		var err error
		if c.From != "" {
			if from, err = parseWhen(c.From); err != nil {
				return nil, err
			}
		}
		if c.To != "" {
			if to, err = parseWhen(c.To); err != nil {
				return nil, err
			}
		}
		return ctx.Store.GetEntriesBetween(from, to)
	default:
		return ctx.Store.GetAllEntries()
	}
}

type EntryDeleteCmd struct {
	ID string `arg:"" help:"ID of the entry to delete."`
}

func (c *EntryDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if err := ctx.Store.DeleteEntry(c.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("entry not found: %s", c.ID)
		}
		return err
	}
	ctx.deleteRemote(storage.Entries, c.ID)
	ctx.printf("Deleted entry: %s\n", c.ID)
	return nil
}

// deleteRemote removes one mirrored document. Failures are logged only.
func (c *Context) deleteRemote(collection storage.Collection, id string) {
	pg, err := c.mirror()
	if err != nil || pg == nil {
		return
	}
	userID, err := c.Session.UserID()
	if err != nil {
		return
	}
	ref := mirror.CollectionRef{UserID: userID, Name: string(collection)}
	if _, err := pg.BatchDelete(context.Background(), ref, []string{id}); err != nil {
		logger.Warn("Failed to delete mirrored document", "path", ref.Path(), "id", id, "error", err)
	}
}
