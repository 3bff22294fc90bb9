package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/curiosity/internal/backup"
	"github.com/julianstephens/curiosity/internal/constants"
	"github.com/julianstephens/curiosity/internal/keyring"
	"github.com/julianstephens/curiosity/internal/mirror"
	"github.com/julianstephens/curiosity/internal/storage"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(*Context) error
	// warnOnly checks never fail the command
	warnOnly bool
}

var doctorChecks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", run: checkSchemaVersion},
	{name: "Unsynced records", run: checkUnsynced, warnOnly: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "OS keyring", run: checkKeyring, warnOnly: true},
	{name: "Cloud mirror", run: checkMirror, warnOnly: true},
	{name: "Clock", run: checkClock},
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.printf("Running diagnostics...\n\n")

	hasError := false
	for _, c := range doctorChecks {
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.printf("⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			ctx.printf("❌ %s: FAIL\n   Error: %v\n", c.name, err)
			hasError = true
		}
	}

	ctx.printf("\n")
	if hasError {
		ctx.printf("Diagnostics completed with errors.\n")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.printf("All diagnostics passed!\n")
	return nil
}

func checkDBReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	var result int
	if err := ctx.Store.GetDB().QueryRow("SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	current, latest, err := ctx.Store.SchemaVersions()
	if err != nil {
		return err
	}
	if current != latest {
		return fmt.Errorf("schema version %d, expected %d", current, latest)
	}
	return nil
}

func checkUnsynced(ctx *Context) error {
	if ctx.Store.GetDB() == nil {
		return errors.New("database not loaded")
	}
	counts := []func() (int, error){
		func() (int, error) { r, err := ctx.Store.GetUnsyncedEntries(); return len(r), err },
		func() (int, error) { r, err := ctx.Store.GetUnsyncedReminders(); return len(r), err },
		func() (int, error) { r, err := ctx.Store.GetUnsyncedGoals(); return len(r), err },
		func() (int, error) { r, err := ctx.Store.GetUnsyncedTasks(); return len(r), err },
		func() (int, error) { r, err := ctx.Store.GetUnsyncedVaultItems(); return len(r), err },
	}
	total := 0
	for i, count := range counts {
		n, err := count()
		if err != nil {
			return fmt.Errorf("failed to count unsynced %s: %w", storage.MirroredCollections[i], err)
		}
		total += n
	}
	if total > 0 {
		return fmt.Errorf("%d record(s) waiting to sync - run '%s sync'", total, constants.AppName)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkKeyring(*Context) error {
	if !keyring.IsAvailable() {
		return errors.New("keyring not available, PIN and session cannot be stored")
	}
	if !keyring.HasPIN() {
		return fmt.Errorf("no PIN set - run '%s pin set'", constants.AppName)
	}
	return nil
}

func checkMirror(ctx *Context) error {
	pg, err := ctx.mirror()
	if err != nil {
		return err
	}
	if pg == nil {
		return errors.New("not configured, data stays on this device")
	}
	userID, err := ctx.Session.UserID()
	if err != nil {
		return fmt.Errorf("configured but not signed in: %w", err)
	}
	probe, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ref := mirror.CollectionRef{UserID: userID, Name: string(storage.Entries)}
	if _, err := pg.ListAll(probe, ref); err != nil {
		return fmt.Errorf("unreachable: %w", err)
	}
	return nil
}

func checkClock(*Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
