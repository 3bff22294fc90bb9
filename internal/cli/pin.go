package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/curiosity/internal/keyring"
)

type PinCmd struct {
	Set    PinSetCmd    `cmd:"" help:"Set or change the lock screen PIN."`
	Verify PinVerifyCmd `cmd:"" help:"Check a PIN against the stored one."`
}

type PinSetCmd struct{}

func (c *PinSetCmd) Run(ctx *Context) error {
	if keyring.HasPIN() {
		if _, err := ctx.unlock(); err != nil {
			return err
		}
	}

	pin, err := ctx.readSecret("New PIN: ")
	if err != nil {
		return err
	}
	again, err := ctx.readSecret("Repeat PIN: ")
	if err != nil {
		return err
	}
	if pin != again {
		return fmt.Errorf("PINs do not match")
	}

	if err := keyring.SetPIN(pin); err != nil {
		return err
	}
	ctx.printf("PIN saved\n")
	return nil
}

type PinVerifyCmd struct{}

func (c *PinVerifyCmd) Run(ctx *Context) error {
	if _, err := ctx.unlock(); err != nil {
		if errors.Is(err, keyring.ErrPINMismatch) {
			return fmt.Errorf("incorrect PIN")
		}
		return err
	}
	ctx.printf("PIN OK\n")
	return nil
}

type BiometricCmd struct {
	Set BiometricSetCmd `cmd:"" help:"Store the platform authenticator credential id."`
}

type BiometricSetCmd struct {
	ID string `arg:"" help:"Credential id returned by the authenticator."`
}

func (c *BiometricSetCmd) Run(ctx *Context) error {
	if err := keyring.SetBiometricCredentialID(c.ID); err != nil {
		return err
	}
	ctx.printf("Biometric credential saved\n")
	return nil
}
