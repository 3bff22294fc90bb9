package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/curiosity/internal/keyring"
	"github.com/julianstephens/curiosity/internal/models"
	"github.com/julianstephens/curiosity/internal/storage"
	"github.com/julianstephens/curiosity/internal/vaultcrypt"
)

type VaultCmd struct {
	Add  VaultAddCmd  `cmd:"" help:"Store a secret in the vault."`
	List VaultListCmd `cmd:"" help:"List vault items without decrypting them."`
	Show VaultShowCmd `cmd:"" help:"Decrypt and print a vault item."`
}

// unlock prompts for the PIN and checks it against the stored hash.
func (c *Context) unlock() (string, error) {
	pin, err := c.readSecret("PIN: ")
	if err != nil {
		return "", err
	}
	if err := keyring.VerifyPIN(pin); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("no PIN set, run 'curiosity pin set' first")
		}
		return "", err
	}
	return pin, nil
}

type VaultAddCmd struct {
	Title string `arg:"" help:"Item title."`
	Type  string `short:"t" help:"Item type, for display only." default:"note"`
}

func (c *VaultAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	pin, err := ctx.unlock()
	if err != nil {
		return err
	}
	secret, err := readAll(ctx.In)
	if err != nil {
		return err
	}
	if secret == "" {
		return fmt.Errorf("nothing to store: pipe the secret on stdin")
	}

	sealed, err := vaultcrypt.Seal(pin, []byte(secret))
	if err != nil {
		return err
	}

	now := time.Now()
	item := models.VaultItem{
		ID:            uuid.NewString(),
		Title:         c.Title,
		Type:          c.Type,
		EncryptedData: sealed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := ctx.syncer().SaveVaultItem(context.Background(), item); err != nil {
		return err
	}

	ctx.printf("Added vault item: %s (ID: %s)\n", item.Title, item.ID)
	return nil
}

type VaultListCmd struct{}

func (c *VaultListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	items, err := ctx.Store.GetAllVaultItems()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		ctx.printf("Vault is empty\n")
		return nil
	}

	ctx.printf("Vault:\n")
	for _, v := range items {
		ctx.printf(" %s %-10s %s  (%s)\n", syncMark(v.IsSynced), v.Type, v.Title, v.ID)
	}
	return nil
}

type VaultShowCmd struct {
	ID string `arg:"" help:"ID of the vault item."`
}

func (c *VaultShowCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	item, err := ctx.Store.GetVaultItem(c.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("vault item not found: %s", c.ID)
	}
	if err != nil {
		return err
	}

	pin, err := ctx.unlock()
	if err != nil {
		return err
	}
	plain, err := vaultcrypt.Open(pin, item.EncryptedData)
	if err != nil {
		return err
	}

	ctx.printf("%s\n", plain)
	return nil
}
