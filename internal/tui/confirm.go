package tui

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// runForm is replaced in tests.
var runForm = func(f *huh.Form) error { return f.Run() }

// Confirm asks a yes/no question and defaults to no. An aborted prompt
// counts as no.
func Confirm(title, description string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(huh.ThemeDracula())

	if err := runForm(form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// ConfirmDeleteAll asks before every local record and credential is removed.
func ConfirmDeleteAll() (bool, error) {
	return Confirm(
		"Delete all data?",
		"Every journal entry, reminder, goal, task, vault item and your settings "+
			"will be removed from this device and from the cloud mirror. This cannot be undone.",
	)
}
