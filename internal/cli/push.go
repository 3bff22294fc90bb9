package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/curiosity/internal/logger"
	"github.com/julianstephens/curiosity/internal/notifier"
)

type PushCmd struct {
	Serve PushServeCmd `cmd:"" help:"Receive push messages and notification clicks over HTTP."`
}

type PushServeCmd struct {
	Origins []string `help:"Web origins allowed to call the receiver." env:"CURIOSITY_PUSH_ORIGINS"`
}

func (c *PushServeCmd) Run(ctx *Context) error {
	if ctx.PushSecret == "" {
		logger.Warn("Push receiver running without a shared secret")
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := notifier.NewServer(ctx.PushAddr, ctx.PushSecret, c.Origins, ctx.bridge())
	ctx.printf("Listening for push messages on %s\n", ctx.PushAddr)
	return srv.ListenAndServe(sigCtx)
}
