package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/curiosity/internal/keyring"
	"github.com/julianstephens/curiosity/internal/syncer"
)

type SyncCmd struct{}

func (c *SyncCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	pg, err := ctx.mirror()
	if err != nil {
		return err
	}
	if pg == nil {
		return fmt.Errorf("%w: set CURIOSITY_MIRROR_DSN or run 'curiosity mirror connect'", syncer.ErrNoRemote)
	}

	n, err := syncer.New(ctx.Store, pg, ctx.Session).Flush(context.Background())
	ctx.printf("Synced %d record(s)\n", n)
	return err
}

type MirrorCmd struct {
	Connect MirrorConnectCmd `cmd:"" help:"Store the mirror connection string in the OS keyring."`
	Migrate MirrorMigrateCmd `cmd:"" help:"Create or update the mirror schema."`
}

type MirrorConnectCmd struct {
	DSN string `arg:"" help:"PostgreSQL connection string."`
}

func (c *MirrorConnectCmd) Run(ctx *Context) error {
	if err := keyring.SetMirrorConnection(c.DSN); err != nil {
		return err
	}
	ctx.printf("Mirror connection saved\n")
	return nil
}

type MirrorMigrateCmd struct{}

func (c *MirrorMigrateCmd) Run(ctx *Context) error {
	pg, err := ctx.mirror()
	if err != nil {
		return err
	}
	if pg == nil {
		return errors.New("no mirror configured")
	}
	if err := pg.Migrate(context.Background()); err != nil {
		return err
	}
	ctx.printf("Mirror schema is up to date\n")
	return nil
}
