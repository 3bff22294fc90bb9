package main

import (
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/curiosity/internal/cli"
	"github.com/julianstephens/curiosity/internal/constants"
	"github.com/julianstephens/curiosity/internal/errors"
	"github.com/julianstephens/curiosity/internal/logger"
	"github.com/julianstephens/curiosity/internal/mirror"
	"github.com/julianstephens/curiosity/internal/storage/sqlite"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Local database path." type:"path" default:"${default_config}" env:"CURIOSITY_CONFIG"`
	DebugLog bool   `name:"debug" help:"Log debug output to stderr." env:"CURIOSITY_DEBUG"`

	MirrorDSN string `name:"mirror-dsn" help:"PostgreSQL connection string of the cloud mirror. Falls back to the OS keyring." env:"CURIOSITY_MIRROR_DSN"`
	S3        struct {
		Bucket    string `help:"Bucket for profile pictures and uploaded exports." env:"CURIOSITY_S3_BUCKET"`
		Region    string `help:"Bucket region." default:"us-east-1" env:"CURIOSITY_S3_REGION"`
		Endpoint  string `help:"S3-compatible endpoint, e.g. a local MinIO." env:"CURIOSITY_S3_ENDPOINT"`
		AccessKey string `help:"Access key id." env:"CURIOSITY_S3_ACCESS_KEY"`
		SecretKey string `help:"Secret access key." env:"CURIOSITY_S3_SECRET_KEY"`
	} `embed:"" prefix:"s3-"`
	PushAddr   string `help:"Listen address of the push receiver." default:"${default_push_addr}" env:"CURIOSITY_PUSH_ADDR"`
	PushSecret string `help:"Shared secret callers of the push receiver must send." env:"CURIOSITY_PUSH_SECRET"`

	Init      cli.InitCmd      `cmd:"" help:"Initialize curiosity storage."`
	Browse    cli.BrowseCmd    `cmd:"" help:"Browse your data in the terminal." default:"1"`
	Doctor    cli.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Entry     cli.EntryCmd     `cmd:"" help:"Manage journal entries."`
	Reminder  cli.ReminderCmd  `cmd:"" help:"Manage reminders."`
	Goal      cli.GoalCmd      `cmd:"" help:"Manage goals."`
	Task      cli.TaskCmd      `cmd:"" help:"Manage goal tasks."`
	Vault     cli.VaultCmd     `cmd:"" help:"Manage encrypted vault items."`
	Settings  cli.SettingsCmd  `cmd:"" help:"Manage application settings."`
	Profile   cli.ProfileCmd   `cmd:"" help:"Manage your profile."`
	Export    cli.ExportCmd    `cmd:"" help:"Export all data."`
	DeleteAll cli.DeleteAllCmd `cmd:"" name:"delete-all" help:"Delete all data from this device and the cloud mirror."`
	Pin       cli.PinCmd       `cmd:"" help:"Manage the lock screen PIN."`
	Biometric cli.BiometricCmd `cmd:"" help:"Manage biometric unlock."`
	Session   cli.SessionCmd   `cmd:"" help:"Manage the signed-in session."`
	Sync      cli.SyncCmd      `cmd:"" help:"Push unsynced records to the cloud mirror."`
	Mirror    cli.MirrorCmd    `cmd:"" help:"Manage the cloud mirror."`
	Push      cli.PushCmd      `cmd:"" help:"Run the push notification receiver."`
	Backup    cli.BackupCmd    `cmd:"" help:"Manage database backups."`
	Debug     cli.DebugCmd     `cmd:"" help:"Debug commands for troubleshooting."`
}

func main() {
	// A missing .env file is fine; the environment and flags still apply.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Offline-first journal: entries, reminders, goals and an encrypted vault"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":           constants.Version,
			"default_config":    constants.DefaultConfigPath,
			"default_push_addr": constants.DefaultPushAddr,
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.DebugLog, ConfigDir: filepath.Dir(CLI.Config)}); err != nil {
		errors.Fatal(err)
	}

	appCtx := cli.NewContext(sqlite.NewStore(CLI.Config))
	appCtx.MirrorDSN = CLI.MirrorDSN
	appCtx.Objects = mirror.ObjectConfig{
		Bucket:    CLI.S3.Bucket,
		Region:    CLI.S3.Region,
		Endpoint:  CLI.S3.Endpoint,
		AccessKey: CLI.S3.AccessKey,
		SecretKey: CLI.S3.SecretKey,
	}
	appCtx.PushAddr = CLI.PushAddr
	appCtx.PushSecret = CLI.PushSecret

	err := ctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("Failed to close resources", "error", closeErr)
	}
	errors.Fatal(err)
}
