package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/curiosity/internal/keyring"
	"github.com/julianstephens/curiosity/internal/mirror"
	"github.com/julianstephens/curiosity/internal/models"
	"github.com/julianstephens/curiosity/internal/notifier"
	"github.com/julianstephens/curiosity/internal/storage/sqlite"
	"github.com/julianstephens/curiosity/internal/tui"
)

var baseTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// setupTestContext returns a context over a fresh store with the keyring
// mocked and every interactive seam stubbed out.
func setupTestContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	gokeyring.MockInit()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "curiosity.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := NewContext(store)
	ctx.Out = out
	ctx.In = strings.NewReader("")
	ctx.ReloadDelay = 0
	t.Cleanup(func() { ctx.Close() })

	origConn, origNotice, origConfirm := mirrorConnection, showNotice, confirmDeleteAll
	mirrorConnection = func() (string, error) { return "", keyring.ErrNotFound }
	showNotice = func(tui.Notice) error { return nil }
	confirmDeleteAll = func() (bool, error) { return true, nil }
	t.Cleanup(func() {
		mirrorConnection, showNotice, confirmDeleteAll = origConn, origNotice, origConfirm
	})

	return ctx, out
}

func signedToken(t *testing.T, subject string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func addEntry(t *testing.T, ctx *Context, id string) {
	t.Helper()
	err := ctx.Store.PutEntry(models.Entry{
		ID:        id,
		Title:     "Entry " + id,
		Type:      models.EntryTypeJournal,
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	})
	if err != nil {
		t.Fatalf("failed to add entry: %v", err)
	}
}

func TestDebugDBPathCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&DebugDBPathCmd{}).Run(ctx); err != nil {
		t.Fatalf("debug db-path command failed: %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got["path"] != ctx.Store.GetConfigPath() {
		t.Errorf("path = %q, want %q", got["path"], ctx.Store.GetConfigPath())
	}
}

func TestDebugDumpCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	addEntry(t, ctx, "e1")

	if err := (&DebugDumpCmd{Collection: "entries", ID: "e1"}).Run(ctx); err != nil {
		t.Fatalf("debug dump failed: %v", err)
	}
	var entry models.Entry
	if err := json.Unmarshal(out.Bytes(), &entry); err != nil {
		t.Fatalf("output is not an entry: %v", err)
	}
	if entry.ID != "e1" || entry.Title != "Entry e1" {
		t.Errorf("dumped entry = %+v", entry)
	}
}

func TestDebugDumpCmdErrors(t *testing.T) {
	ctx, _ := setupTestContext(t)

	tests := []struct {
		name string
		cmd  DebugDumpCmd
		want string
	}{
		{"unknown collection", DebugDumpCmd{Collection: "habits", ID: "x"}, "unknown collection"},
		{"missing id", DebugDumpCmd{Collection: "tasks"}, "id is required"},
		{"not found", DebugDumpCmd{Collection: "goals", ID: "nope"}, "goals not found: nope"},
		{"settings never saved", DebugDumpCmd{Collection: "settings"}, "settings not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Run(ctx)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Run() error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestEntryAddAndList(t *testing.T) {
	ctx, out := setupTestContext(t)
	ctx.In = strings.NewReader("  Went for a long walk.\n")

	add := &EntryAddCmd{Title: "Walk", Type: "journal", Tags: []string{"outside", "health"}}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("entry add failed: %v", err)
	}

	entries, err := ctx.Store.GetAllEntries()
	if err != nil {
		t.Fatalf("GetAllEntries() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Content != "Went for a long walk." {
		t.Errorf("content = %q", entries[0].Content)
	}
	if entries[0].IsSynced {
		t.Error("entry saved without a mirror should not be marked synced")
	}

	out.Reset()
	if err := (&EntryListCmd{Tag: "health"}).Run(ctx); err != nil {
		t.Fatalf("entry list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Walk") || !strings.Contains(out.String(), "#health #outside") {
		t.Errorf("unexpected list output:\n%s", out)
	}
}

func TestEntryDeleteNotFound(t *testing.T) {
	ctx, _ := setupTestContext(t)
	err := (&EntryDeleteCmd{ID: "missing"}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "entry not found") {
		t.Errorf("Run() error = %v, want entry not found", err)
	}
}

func TestTaskAddRequiresGoal(t *testing.T) {
	ctx, _ := setupTestContext(t)
	err := (&TaskAddCmd{Goal: "g-missing", Text: "Outline"}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "goal not found") {
		t.Errorf("Run() error = %v, want goal not found", err)
	}
}

func TestSettingsSetIsFullReplaceOfCurrentValues(t *testing.T) {
	ctx, _ := setupTestContext(t)

	if err := (&SettingsSetCmd{SettingsFlags{Username: "ada"}}).Run(ctx); err != nil {
		t.Fatalf("settings set failed: %v", err)
	}
	if err := (&SettingsSetCmd{SettingsFlags{ThemeMode: "dark"}}).Run(ctx); err != nil {
		t.Fatalf("settings set failed: %v", err)
	}

	saved, err := ctx.Store.GetSettings()
	if err != nil || saved == nil {
		t.Fatalf("GetSettings() = %v, %v", saved, err)
	}
	if saved.Username != "ada" || saved.ThemeMode != "dark" {
		t.Errorf("settings = %+v, want username kept and theme mode changed", saved)
	}
	if saved.FontSize != models.DefaultSettings().FontSize {
		t.Errorf("font size = %q, want default", saved.FontSize)
	}
}

func TestSettingsFlagsValidate(t *testing.T) {
	if err := (SettingsFlags{ThemeMode: "sepia"}).Validate(); err == nil {
		t.Error("Validate() should reject unknown theme mode")
	}
	if err := (SettingsFlags{FontSize: "large"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestVaultAddAndShow(t *testing.T) {
	ctx, out := setupTestContext(t)
	if err := keyring.SetPIN("2468"); err != nil {
		t.Fatalf("SetPIN() failed: %v", err)
	}

	orig := readPassword
	defer func() { readPassword = orig }()
	readPassword = func(int) ([]byte, error) { return []byte("2468"), nil }

	ctx.In = strings.NewReader("wifi: correct horse")
	if err := (&VaultAddCmd{Title: "Home wifi", Type: "password"}).Run(ctx); err != nil {
		t.Fatalf("vault add failed: %v", err)
	}

	items, err := ctx.Store.GetAllVaultItems()
	if err != nil || len(items) != 1 {
		t.Fatalf("GetAllVaultItems() = %d items, %v", len(items), err)
	}
	if bytes.Contains(items[0].EncryptedData, []byte("correct horse")) {
		t.Fatal("vault item stored in plaintext")
	}

	out.Reset()
	if err := (&VaultShowCmd{ID: items[0].ID}).Run(ctx); err != nil {
		t.Fatalf("vault show failed: %v", err)
	}
	if strings.TrimSpace(out.String()) != "wifi: correct horse" {
		t.Errorf("vault show output = %q", out)
	}

	readPassword = func(int) ([]byte, error) { return []byte("1357"), nil }
	if err := (&VaultShowCmd{ID: items[0].ID}).Run(ctx); !errors.Is(err, keyring.ErrPINMismatch) {
		t.Errorf("vault show with wrong PIN error = %v, want ErrPINMismatch", err)
	}
}

type fakePlatform struct {
	shown []notifier.Notification
	err   error
}

func (p *fakePlatform) Show(_ context.Context, n notifier.Notification) error {
	if p.err != nil {
		return p.err
	}
	p.shown = append(p.shown, n)
	return nil
}
func (p *fakePlatform) Close(context.Context, notifier.Notification) error { return nil }
func (p *fakePlatform) MatchAll(context.Context, notifier.MatchOptions) ([]notifier.Window, error) {
	return nil, nil
}
func (p *fakePlatform) Focus(context.Context, notifier.Window) error { return nil }
func (p *fakePlatform) OpenWindow(context.Context, string) error     { return nil }

func TestReminderNotifyFiresDueReminders(t *testing.T) {
	ctx, out := setupTestContext(t)
	platform := &fakePlatform{}
	orig := newPlatform
	defer func() { newPlatform = orig }()
	newPlatform = func() notificationPlatform { return platform }

	for id, when := range map[string]time.Time{"due": baseTime, "later": time.Now().Add(24 * time.Hour)} {
		err := ctx.Store.PutReminder(models.Reminder{ID: id, Text: "Stretch", Date: when, CreatedAt: baseTime})
		if err != nil {
			t.Fatalf("PutReminder(%s) failed: %v", id, err)
		}
	}

	if err := (&ReminderNotifyCmd{URL: "/reminders"}).Run(ctx); err != nil {
		t.Fatalf("reminder notify failed: %v", err)
	}
	if len(platform.shown) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(platform.shown))
	}
	n := platform.shown[0]
	if n.Body != "Stretch" || n.Data.URL != "/reminders" {
		t.Errorf("notification = %+v", n)
	}

	fired, err := ctx.Store.GetReminder("due")
	if err != nil {
		t.Fatalf("GetReminder() failed: %v", err)
	}
	if fired.FiredAt == nil {
		t.Error("due reminder not marked as fired")
	}

	out.Reset()
	if err := (&ReminderNotifyCmd{URL: "/"}).Run(ctx); err != nil {
		t.Fatalf("second notify failed: %v", err)
	}
	if !strings.Contains(out.String(), "No reminders due") {
		t.Errorf("fired reminder shown again: %s", out)
	}
}

func TestReminderNotifyPlatformFailureKeepsReminderDue(t *testing.T) {
	ctx, _ := setupTestContext(t)
	orig := newPlatform
	defer func() { newPlatform = orig }()
	newPlatform = func() notificationPlatform { return &fakePlatform{err: notifier.ErrTrayNotRunning} }

	if err := ctx.Store.PutReminder(models.Reminder{ID: "r1", Text: "Call", Date: baseTime, CreatedAt: baseTime}); err != nil {
		t.Fatalf("PutReminder() failed: %v", err)
	}
	if err := (&ReminderNotifyCmd{URL: "/"}).Run(ctx); err == nil {
		t.Error("notify should report reminders that could not be shown")
	}
	due, err := ctx.Store.GetDueReminders(time.Now())
	if err != nil || len(due) != 1 {
		t.Errorf("GetDueReminders() = %d, %v; want reminder still due", len(due), err)
	}
}

func TestDeleteAllWithoutMirror(t *testing.T) {
	ctx, out := setupTestContext(t)
	addEntry(t, ctx, "e1")
	if err := keyring.SetPIN("2468"); err != nil {
		t.Fatalf("SetPIN() failed: %v", err)
	}

	if err := (&DeleteAllCmd{}).Run(ctx); err != nil {
		t.Fatalf("delete-all failed: %v", err)
	}

	entries, err := ctx.Store.GetAllEntries()
	if err != nil {
		t.Fatalf("store unusable after reload: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
	if keyring.HasPIN() {
		t.Error("PIN should be cleared")
	}
	if !strings.Contains(out.String(), "Outcome: complete (no cloud mirror in use)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestDeleteAllCancelled(t *testing.T) {
	ctx, out := setupTestContext(t)
	addEntry(t, ctx, "e1")
	confirmDeleteAll = func() (bool, error) { return false, nil }

	if err := (&DeleteAllCmd{}).Run(ctx); err != nil {
		t.Fatalf("delete-all failed: %v", err)
	}
	if !strings.Contains(out.String(), "cancelled") {
		t.Errorf("unexpected output: %s", out)
	}
	if entries, _ := ctx.Store.GetAllEntries(); len(entries) != 1 {
		t.Errorf("entries deleted despite cancel: %d left", len(entries))
	}
}

func TestDeleteAllUnreachableMirrorIsLocalOnly(t *testing.T) {
	ctx, out := setupTestContext(t)
	addEntry(t, ctx, "e1")
	if err := keyring.SetSessionToken(signedToken(t, "user-1")); err != nil {
		t.Fatalf("SetSessionToken() failed: %v", err)
	}

	orig := openMirror
	defer func() { openMirror = orig }()
	openMirror = func(string) (*mirror.Postgres, error) { return nil, errors.New("connection refused") }
	ctx.MirrorDSN = "postgres://mirror.invalid/curiosity"

	if err := (&DeleteAllCmd{Yes: true}).Run(ctx); err != nil {
		t.Fatalf("delete-all should succeed when only the mirror fails: %v", err)
	}
	if entries, _ := ctx.Store.GetAllEntries(); len(entries) != 0 {
		t.Errorf("local entries left: %d", len(entries))
	}
	if !strings.Contains(out.String(), "Outcome: local-only") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestSyncWithoutMirror(t *testing.T) {
	ctx, _ := setupTestContext(t)
	if err := (&SyncCmd{}).Run(ctx); err == nil || !strings.Contains(err.Error(), "no remote mirror") {
		t.Errorf("sync error = %v, want no remote mirror", err)
	}
}

func TestParseWhen(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2026-03-14T09:30:00Z", want: baseTime},
		{in: "2026-03-14 09:30", want: time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local)},
		{in: "2026-03-14", want: time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)},
		{in: "tomorrow", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseWhen(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseWhen(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("parseWhen(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
