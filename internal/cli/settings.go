package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/julianstephens/curiosity/internal/logger"
	"github.com/julianstephens/curiosity/internal/models"
	"github.com/julianstephens/curiosity/internal/profile"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" help:"Print the current settings as JSON."`
	Set  SettingsSetCmd  `cmd:"" help:"Change display settings."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := currentSettings(ctx)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	ctx.printf("%s\n", out)
	return nil
}

// currentSettings returns the saved settings, or the defaults when none were saved.
func currentSettings(ctx *Context) (models.Settings, error) {
	saved, err := ctx.Store.GetSettings()
	if err != nil {
		return models.Settings{}, err
	}
	if saved == nil {
		return models.DefaultSettings(), nil
	}
	return *saved, nil
}

// SettingsFlags are the editable settings fields. Empty flags keep the current value.
type SettingsFlags struct {
	Username   string `help:"Display name."`
	ThemeColor string `help:"Accent color, e.g. #6366f1."`
	FontFamily string `help:"Font family."`
	ThemeMode  string `help:"Theme mode (light|dark|system)."`
	FontSize   string `help:"Font size (small|medium|large)."`
}

func (f SettingsFlags) Validate() error {
	if err := oneOf("theme mode", f.ThemeMode, "light", "dark", "system"); err != nil {
		return err
	}
	return oneOf("font size", f.FontSize, "small", "medium", "large")
}

func oneOf(name, value string, allowed ...string) error {
	if value == "" || slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("invalid %s %q (expected one of %s)", name, value, strings.Join(allowed, ", "))
}

func (f SettingsFlags) apply(s models.Settings) models.Settings {
	for _, field := range []struct {
		dst *string
		val string
	}{
		{&s.Username, f.Username},
		{&s.ThemeColor, f.ThemeColor},
		{&s.FontFamily, f.FontFamily},
		{&s.ThemeMode, f.ThemeMode},
		{&s.FontSize, f.FontSize},
	} {
		if field.val != "" {
			*field.dst = field.val
		}
	}
	return s
}

type SettingsSetCmd struct {
	SettingsFlags `embed:""`
}

func (c *SettingsSetCmd) Run(ctx *Context) error {
	return saveProfile(ctx, c.SettingsFlags, "")
}

type ProfileCmd struct {
	Save ProfileSaveCmd `cmd:"" help:"Save profile settings and upload a profile picture."`
}

type ProfileSaveCmd struct {
	SettingsFlags `embed:""`
	Picture       string `short:"p" help:"Image file to upload as the profile picture." type:"existingfile"`
}

func (c *ProfileSaveCmd) Run(ctx *Context) error {
	return saveProfile(ctx, c.SettingsFlags, c.Picture)
}

// saveProfile replaces the settings row with the current values plus flags.
// A remote failure after a successful local save is reported as a warning.
func saveProfile(ctx *Context, flags SettingsFlags, picturePath string) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	current, err := currentSettings(ctx)
	if err != nil {
		return err
	}

	var pic *profile.Picture
	if picturePath != "" {
		f, err := os.Open(picturePath)
		if err != nil {
			return fmt.Errorf("failed to open picture: %w", err)
		}
		defer f.Close()
		pic = &profile.Picture{
			Name:        filepath.Base(picturePath),
			ContentType: mime.TypeByExtension(filepath.Ext(picturePath)),
			Body:        f,
		}
	}

	bg := context.Background()
	saved, err := ctx.profile(bg).Save(bg, flags.apply(current), pic)
	if errors.Is(err, profile.ErrRemoteSave) {
		logger.Warn("Settings saved locally only", "error", err)
		ctx.printf("Warning: %v\n", err)
		return nil
	}
	if err != nil {
		return err
	}

	ctx.printf("Settings saved\n")
	if saved.ProfilePicURL != "" && pic != nil {
		ctx.printf("Profile picture: %s\n", saved.ProfilePicURL)
	}
	return nil
}
