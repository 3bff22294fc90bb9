package cli

import (
	"fmt"

	"github.com/julianstephens/curiosity/internal/tui"
)

type BrowseCmd struct{}

func (c *BrowseCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if err := tui.Browse(ctx.Store); err != nil {
		return fmt.Errorf("browser exited: %w", err)
	}
	return nil
}
