package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/curiosity/internal/storage"
)

type DebugCmd struct {
	DBPath DebugDBPathCmd `cmd:"" help:"Show database path."`
	Dump   DebugDumpCmd   `cmd:"" help:"Dump one record as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	return printJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpCmd struct {
	Collection string `arg:"" help:"Collection name (entries|reminders|settings|goals|tasks|vaultItems)."`
	ID         string `arg:"" optional:"" help:"Record id. Not used for settings."`
}

func (cmd *DebugDumpCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	collection := storage.Collection(cmd.Collection)
	if !collection.Valid() {
		return fmt.Errorf("unknown collection: %s", cmd.Collection)
	}
	if collection != storage.Settings && cmd.ID == "" {
		return fmt.Errorf("an id is required for %s", collection)
	}

	record, err := cmd.lookup(ctx, collection)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s not found: %s", collection, cmd.ID)
	}
	if err != nil {
		return err
	}
	return printJSON(ctx, record)
}

func (cmd *DebugDumpCmd) lookup(ctx *Context, collection storage.Collection) (any, error) {
	switch collection {
	case storage.Entries:
		return ctx.Store.GetEntry(cmd.ID)
	case storage.Reminders:
		return ctx.Store.GetReminder(cmd.ID)
	case storage.Goals:
		return ctx.Store.GetGoal(cmd.ID)
	case storage.Tasks:
		return ctx.Store.GetTask(cmd.ID)
	case storage.VaultItems:
		return ctx.Store.GetVaultItem(cmd.ID)
	default:
		settings, err := ctx.Store.GetSettings()
		if err != nil {
			return nil, err
		}
		if settings == nil {
			return nil, storage.ErrNotFound
		}
		return settings, nil
	}
}

func printJSON(ctx *Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.printf("%s\n", jsonBytes)
	return nil
}
