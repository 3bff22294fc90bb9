package cli

import "github.com/julianstephens/curiosity/internal/constants"

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())
	return nil
}
