// Package notifier turns push messages into desktop notifications and routes
// notification clicks to an open window.
package notifier

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/curiosity/internal/constants"
	"github.com/julianstephens/curiosity/internal/logger"
)

type NotificationData struct {
	URL string `json:"url"`
}

// Notification is what the platform displays. ID lets the platform close it
// later; it is not used to deduplicate.
type Notification struct {
	ID    string           `json:"id"`
	Title string           `json:"title"`
	Body  string           `json:"body"`
	Icon  string           `json:"icon"`
	Data  NotificationData `json:"data"`
}

// Window is an open application window
type Window struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Focused bool   `json:"focused"`
}

type MatchOptions struct {
	Type                string `json:"type"`
	IncludeUncontrolled bool   `json:"includeUncontrolled"`
}

// Platform displays and dismisses notifications. Show returns once the
// notification is on screen.
type Platform interface {
	Show(ctx context.Context, n Notification) error
	Close(ctx context.Context, n Notification) error
}

// Clients enumerates and drives application windows
type Clients interface {
	MatchAll(ctx context.Context, opts MatchOptions) ([]Window, error)
	Focus(ctx context.Context, w Window) error
	OpenWindow(ctx context.Context, url string) error
}

// Bridge handles the two independent events. It keeps no state between calls.
type Bridge struct {
	platform Platform
	clients  Clients
	newID    func() string
}

func NewBridge(platform Platform, clients Clients) *Bridge {
	return &Bridge{
		platform: platform,
		clients:  clients,
		newID:    uuid.NewString,
	}
}

// HandlePush shows exactly one notification for raw
func (b *Bridge) HandlePush(ctx context.Context, raw []byte) (Notification, error) {
	p := ParsePayload(raw)
	n := Notification{
		ID:    b.newID(),
		Title: p.Title,
		Body:  p.Body,
		Icon:  constants.NotificationIcon,
		Data:  NotificationData{URL: p.URL},
	}

	if err := b.platform.Show(ctx, n); err != nil {
		return n, fmt.Errorf("failed to show notification: %w", err)
	}
	logger.Debug("Notification shown", "id", n.ID, "url", n.Data.URL)
	return n, nil
}

// HandleClick closes n and focuses the window already showing its URL, or
// opens a new one there.
func (b *Bridge) HandleClick(ctx context.Context, n Notification) error {
	if err := b.platform.Close(ctx, n); err != nil {
		logger.Warn("Failed to close notification", "id", n.ID, "error", err)
	}

	target := n.Data.URL
	if target == "" {
		target = constants.DefaultNotificationURL
	}

	windows, err := b.clients.MatchAll(ctx, MatchOptions{Type: "window", IncludeUncontrolled: true})
	if err != nil {
		return fmt.Errorf("failed to list windows: %w", err)
	}

	for _, w := range windows {
		if w.URL == target {
			if err := b.clients.Focus(ctx, w); err != nil {
				return fmt.Errorf("failed to focus window: %w", err)
			}
			return nil
		}
	}

	if err := b.clients.OpenWindow(ctx, target); err != nil {
		return fmt.Errorf("failed to open window: %w", err)
	}
	return nil
}
