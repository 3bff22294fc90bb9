package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/julianstephens/curiosity/internal/constants"
	"github.com/julianstephens/curiosity/internal/keyring"
	"github.com/julianstephens/curiosity/internal/lifecycle"
	"github.com/julianstephens/curiosity/internal/logger"
	"github.com/julianstephens/curiosity/internal/mirror"
	"github.com/julianstephens/curiosity/internal/notifier"
	"github.com/julianstephens/curiosity/internal/profile"
	"github.com/julianstephens/curiosity/internal/session"
	"github.com/julianstephens/curiosity/internal/storage/sqlite"
	"github.com/julianstephens/curiosity/internal/syncer"
	"github.com/julianstephens/curiosity/internal/tui"
)

// Seams replaced in tests.
var (
	openMirror       = mirror.Open
	newObjectStore   = mirror.NewObjectStore
	mirrorConnection = keyring.GetMirrorConnection
	readPassword     = term.ReadPassword
	confirm          = tui.Confirm
	confirmDeleteAll = tui.ConfirmDeleteAll
	showNotice       = tui.ShowNotice
	newPlatform      = func() notificationPlatform { return notifier.NewTrayPlatform() }
)

type notificationPlatform interface {
	notifier.Platform
	notifier.Clients
}

// Context carries the dependencies shared by every command.
type Context struct {
	Store       *sqlite.Store
	Session     *session.Session
	MirrorDSN   string
	Objects     mirror.ObjectConfig
	PushAddr    string
	PushSecret  string
	ReloadDelay time.Duration
	Out         io.Writer
	In          io.Reader

	pg *mirror.Postgres
}

func NewContext(store *sqlite.Store) *Context {
	return &Context{
		Store:       store,
		Session:     session.New(),
		PushAddr:    constants.DefaultPushAddr,
		ReloadDelay: constants.ReloadDelay,
		Out:         os.Stdout,
		In:          os.Stdin,
	}
}

// Close releases the mirror connection and the local store.
func (c *Context) Close() error {
	var errs []error
	if c.pg != nil {
		errs = append(errs, c.pg.Close())
		c.pg = nil
	}
	errs = append(errs, c.Store.Close())
	return errors.Join(errs...)
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

// mirror opens the remote mirror on first use. It returns nil when no DSN
// is configured in the flags, the environment or the keyring.
func (c *Context) mirror() (*mirror.Postgres, error) {
	if c.pg != nil {
		return c.pg, nil
	}
	dsn := c.MirrorDSN
	if dsn == "" {
		stored, err := mirrorConnection()
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		dsn = stored
	}
	pg, err := openMirror(dsn)
	if err != nil {
		return nil, err
	}
	c.pg = pg
	return pg, nil
}

// objects returns the object store, or nil when no bucket is configured.
func (c *Context) objects(ctx context.Context) (*mirror.ObjectStore, error) {
	if c.Objects.Bucket == "" {
		return nil, nil
	}
	return newObjectStore(ctx, c.Objects)
}

// syncer builds a write-through syncer. A mirror that cannot be opened is
// logged and left out, so writes stay local and are flushed later.
func (c *Context) syncer() *syncer.Syncer {
	var m syncer.Mirror
	pg, err := c.mirror()
	if err != nil {
		logger.Warn("Mirror unavailable, saving locally only", "error", err)
	} else if pg != nil {
		m = pg
	}
	return syncer.New(c.Store, m, c.Session)
}

func (c *Context) profile(ctx context.Context) *profile.Service {
	var (
		m       profile.Mirror
		objects profile.Objects
	)
	if pg, err := c.mirror(); err != nil {
		logger.Warn("Mirror unavailable", "error", err)
	} else if pg != nil {
		m = pg
	}
	if store, err := c.objects(ctx); err != nil {
		logger.Warn("Object store unavailable", "error", err)
	} else if store != nil {
		objects = store
	}
	return profile.New(c.Store, objects, m, c.Session)
}

// controller builds the lifecycle controller. A mirror that is configured
// but cannot be opened still takes part so the delete reports local-only.
func (c *Context) controller() *lifecycle.Controller {
	ctl := lifecycle.New(c.Store, keyring.Credentials{})
	ctl.Session = c.Session
	ctl.ReloadDelay = c.ReloadDelay
	pg, err := c.mirror()
	switch {
	case err != nil:
		ctl.Mirror = unavailableMirror{err: err}
	case pg != nil:
		ctl.Mirror = pg
	}
	return ctl
}

type unavailableMirror struct{ err error }

func (m unavailableMirror) ListAll(context.Context, mirror.CollectionRef) ([]mirror.Document, error) {
	return nil, m.err
}

func (m unavailableMirror) BatchDelete(context.Context, mirror.CollectionRef, []string) (int64, error) {
	return 0, m.err
}

func (c *Context) bridge() *notifier.Bridge {
	platform := newPlatform()
	return notifier.NewBridge(platform, platform)
}

// readSecret prompts on stderr and reads a line without echo.
func (c *Context) readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// parseWhen accepts RFC 3339, "YYYY-MM-DD HH:MM" or "YYYY-MM-DD" in local time.
func parseWhen(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", constants.DateFormat} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (expected RFC 3339, YYYY-MM-DD HH:MM or YYYY-MM-DD)", s)
}

func syncMark(synced bool) string {
	if synced {
		return " "
	}
	return "*"
}

func readAll(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}
