package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/curiosity/internal/backup"
	"github.com/julianstephens/curiosity/internal/constants"
	"github.com/julianstephens/curiosity/internal/logger"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a backup of the local database."`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Replace the local database with a backup."`
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backupPath, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.printf("No backups found.\n")
		ctx.printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		ctx.printf("  %s  %s  (%.1f KB)\n", b.Timestamp.Local().Format("2006-01-02 15:04:05"), filepath.Base(b.Path), float64(b.Size)/1024.0)
	}
	ctx.printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())

	// Bare file names are looked up in the backup directory first
	backupPath := c.BackupFile
	if !filepath.IsAbs(backupPath) {
		candidate := filepath.Join(mgr.Dir(), c.BackupFile)
		if _, err := os.Stat(candidate); err == nil {
			backupPath = candidate
		}
	}
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file not found: %s", backupPath)
	}

	if !c.Yes {
		ok, err := confirm(
			"Restore "+filepath.Base(backupPath)+"?",
			"This replaces your current database. A backup of it is created first.",
		)
		if err != nil {
			return err
		}
		if !ok {
			ctx.printf("Restore cancelled.\n")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		logger.Warn("Failed to close database before restore", "error", err)
	}

	previous, err := mgr.Restore(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if previous != "" {
		ctx.printf("Created backup of current database: %s\n", filepath.Base(previous))
	}

	ctx.printf("✓ Database restored successfully!\n")
	ctx.printf("Restart any running %s processes to use the restored database.\n", constants.AppName)
	return nil
}
