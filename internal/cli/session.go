package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/curiosity/internal/keyring"
	"github.com/julianstephens/curiosity/internal/session"
)

type SessionCmd struct {
	Set  SessionSetCmd  `cmd:"" help:"Store the auth token of a signed-in session."`
	Show SessionShowCmd `cmd:"" help:"Show the signed-in user."`
}

type SessionSetCmd struct {
	Token string `arg:"" help:"JWT issued by the auth provider." env:"CURIOSITY_SESSION_TOKEN"`
}

func (c *SessionSetCmd) Run(ctx *Context) error {
	userID, err := ctx.Session.SubjectFromToken(c.Token)
	if err != nil {
		return fmt.Errorf("token rejected: %w", err)
	}
	if err := keyring.SetSessionToken(c.Token); err != nil {
		return err
	}
	ctx.printf("Signed in as %s\n", userID)
	return nil
}

type SessionShowCmd struct{}

func (c *SessionShowCmd) Run(ctx *Context) error {
	userID, err := ctx.Session.UserID()
	if errors.Is(err, session.ErrNotAuthenticated) {
		ctx.printf("Not signed in\n")
		return nil
	}
	if err != nil {
		return err
	}
	ctx.printf("Signed in as %s\n", userID)
	return nil
}
