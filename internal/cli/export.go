package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/curiosity/internal/export"
	"github.com/julianstephens/curiosity/internal/lifecycle"
	"github.com/julianstephens/curiosity/internal/mirror"
)

const exportLinkTTL = 15 * time.Minute

type ExportCmd struct {
	Format string `short:"f" help:"Export format (markdown|pdf|json)." enum:"markdown,pdf,json" default:"markdown"`
	Output string `short:"o" help:"Output file. Defaults to a timestamped name in the current directory." type:"path"`
	Upload bool   `help:"Also upload the export to the object store and print a download link."`
}

func (c *ExportCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	out := c.Output
	if out == "" {
		out = export.FileName(c.Format, time.Now())
	}

	f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := lifecycle.New(ctx.Store, nil).Export(c.Format, f); err != nil {
		f.Close()
		os.Remove(out)
		return fmt.Errorf("export failed: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	ctx.printf("Exported to %s\n", out)

	if c.Upload {
		return c.upload(ctx, out)
	}
	return nil
}

func (c *ExportCmd) upload(ctx *Context, path string) error {
	bg := context.Background()
	objects, err := ctx.objects(bg)
	if err != nil {
		return err
	}
	if objects == nil {
		return fmt.Errorf("no object store configured (set CURIOSITY_S3_BUCKET)")
	}
	userID, err := ctx.Session.UserID()
	if err != nil {
		return fmt.Errorf("upload requires a signed-in session: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	key := mirror.ObjectKey(userID, "exports", filepath.Base(path))
	if err := objects.Put(bg, key, f, export.ContentType(c.Format)); err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	link, err := objects.PresignGet(bg, key, exportLinkTTL)
	if err != nil {
		return fmt.Errorf("failed to create download link: %w", err)
	}

	ctx.printf("Uploaded to %s\nDownload link (valid %s): %s\n", key, exportLinkTTL, link)
	return nil
}
