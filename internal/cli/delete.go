package cli

import (
	"context"
	"sync"
	"time"

	"github.com/julianstephens/curiosity/internal/lifecycle"
	"github.com/julianstephens/curiosity/internal/logger"
	"github.com/julianstephens/curiosity/internal/storage/sqlite"
	"github.com/julianstephens/curiosity/internal/tui"
)

type DeleteAllCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *DeleteAllCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if !c.Yes {
		ok, err := confirmDeleteAll()
		if err != nil {
			return err
		}
		if !ok {
			ctx.printf("Delete cancelled.\n")
			return nil
		}
	}

	reloader := newStoreReloader(ctx.Store)
	ctl := ctx.controller()
	ctl.Reloader = reloader

	result, err := ctl.DeleteAllData(context.Background())
	if err != nil {
		ctx.printf("%s\n", result.Message)
		return err
	}

	kind := tui.NoticeSuccess
	if result.Outcome == lifecycle.DeleteLocalOnly {
		kind = tui.NoticeWarning
	}
	notice := tui.NewNotice(kind, result.Message, ctx.ReloadDelay).WithDetail("Reloading...")
	if err := showNotice(notice); err != nil {
		logger.Warn("Failed to show delete notice", "error", err)
		ctx.printf("%s\n", result.Message)
	}

	if !reloader.wait(ctx.ReloadDelay + time.Second) {
		logger.Warn("Reload did not finish in time")
	}

	switch {
	case result.RemoteSkipped:
		ctx.printf("Outcome: %s (no cloud mirror in use)\n", result.Outcome)
	default:
		ctx.printf("Outcome: %s (%d cloud document(s) removed)\n", result.Outcome, result.RemoteDeleted)
	}
	return nil
}

// storeReloader reopens the local store so later reads start from the
// cleared database.
type storeReloader struct {
	store *sqlite.Store
	once  sync.Once
	done  chan struct{}
}

func newStoreReloader(store *sqlite.Store) *storeReloader {
	return &storeReloader{store: store, done: make(chan struct{})}
}

func (r *storeReloader) Reload() error {
	defer r.once.Do(func() { close(r.done) })
	if err := r.store.Close(); err != nil {
		return err
	}
	if err := r.store.Load(); err != nil {
		return err
	}
	logger.Info("Store reloaded", "path", r.store.GetConfigPath())
	return nil
}

// wait blocks until Reload has run or timeout elapses.
func (r *storeReloader) wait(timeout time.Duration) bool {
	select {
	case <-r.done:
		return true
	case <-time.After(timeout):
		return false
	}
}
