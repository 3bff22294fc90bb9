package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/curiosity/internal/models"
	"github.com/julianstephens/curiosity/internal/storage"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "curiosity.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

var baseTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("Load() on missing database should fail")
	}
}

func TestInitThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "curiosity.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file not created: %v", err)
	}

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer reopened.Close()

	// Init on an existing database is a no-op
	if err := reopened.Init(); err != nil {
		t.Errorf("second Init() failed: %v", err)
	}
}

func TestSettingsNeverSaved(t *testing.T) {
	store := setupTestStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	if settings != nil {
		t.Errorf("GetSettings() = %+v, want nil", settings)
	}
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	store.now = func() time.Time { return baseTime }

	in := models.Settings{
		ID:            42,
		Username:      "ada",
		ProfilePicURL: "https://example.com/ada.png",
		ThemeColor:    "#ff0000",
		FontFamily:    "Georgia",
		ThemeMode:     "dark",
		FontSize:      "large",
	}
	if err := store.SaveSettings(in); err != nil {
		t.Fatalf("SaveSettings() failed: %v", err)
	}

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetSettings() returned nil after save")
	}

	want := in
	want.ID = 1
	want.UpdatedAt = baseTime
	if !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, want.UpdatedAt)
	}
	got.UpdatedAt = want.UpdatedAt
	if *got != want {
		t.Errorf("GetSettings() = %+v, want %+v", *got, want)
	}
}

func TestSaveSettingsReplacesWholeRow(t *testing.T) {
	store := setupTestStore(t)

	first := models.DefaultSettings()
	first.Username = "ada"
	first.ProfilePicURL = "https://example.com/ada.png"
	if err := store.SaveSettings(first); err != nil {
		t.Fatalf("SaveSettings() failed: %v", err)
	}

	later := baseTime.Add(time.Hour)
	store.now = func() time.Time { return later }
	if err := store.SaveSettings(models.Settings{Username: "grace"}); err != nil {
		t.Fatalf("SaveSettings() failed: %v", err)
	}

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	if got.Username != "grace" {
		t.Errorf("Username = %q, want %q", got.Username, "grace")
	}
	if got.ProfilePicURL != "" || got.ThemeColor != "" || got.FontFamily != "" {
		t.Errorf("fields from the previous save leaked into the new row: %+v", *got)
	}
	if !got.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, later)
	}

	var count int
	if err := store.db.QueryRow("SELECT count(*) FROM settings").Scan(&count); err != nil {
		t.Fatalf("count settings: %v", err)
	}
	if count != 1 {
		t.Errorf("settings rows = %d, want 1", count)
	}
}

func TestEntryRoundTripWithTags(t *testing.T) {
	store := setupTestStore(t)

	entry := models.Entry{
		ID:        "e1",
		Title:     "First",
		Content:   "Hello",
		Type:      models.EntryTypeJournal,
		CreatedAt: baseTime,
		UpdatedAt: baseTime.Add(time.Minute),
		Tags:      []string{"work", " ideas ", "work", ""},
	}
	if err := store.PutEntry(entry); err != nil {
		t.Fatalf("PutEntry() failed: %v", err)
	}

	got, err := store.GetEntry("e1")
	if err != nil {
		t.Fatalf("GetEntry() failed: %v", err)
	}
	if !reflect.DeepEqual(got.Tags, []string{"ideas", "work"}) {
		t.Errorf("Tags = %v, want [ideas work]", got.Tags)
	}
	if got.Title != "First" || got.Content != "Hello" || got.Type != models.EntryTypeJournal {
		t.Errorf("GetEntry() = %+v", got)
	}
	if !got.CreatedAt.Equal(entry.CreatedAt) || !got.UpdatedAt.Equal(entry.UpdatedAt) {
		t.Errorf("timestamps changed: %v / %v", got.CreatedAt, got.UpdatedAt)
	}

	// Re-putting replaces the tag set
	entry.Tags = []string{"personal"}
	if err := store.PutEntry(entry); err != nil {
		t.Fatalf("PutEntry() failed: %v", err)
	}
	byWork, err := store.GetEntriesByTag("work")
	if err != nil {
		t.Fatalf("GetEntriesByTag() failed: %v", err)
	}
	if len(byWork) != 0 {
		t.Errorf("GetEntriesByTag(work) returned %d entries, want 0", len(byWork))
	}
	byPersonal, err := store.GetEntriesByTag("personal")
	if err != nil {
		t.Fatalf("GetEntriesByTag() failed: %v", err)
	}
	if len(byPersonal) != 1 || byPersonal[0].ID != "e1" {
		t.Errorf("GetEntriesByTag(personal) = %+v", byPersonal)
	}
}

func TestPutEntryRejectsUpdatedBeforeCreated(t *testing.T) {
	store := setupTestStore(t)

	err := store.PutEntry(models.Entry{
		ID:        "bad",
		Type:      models.EntryTypeNote,
		CreatedAt: baseTime,
		UpdatedAt: baseTime.Add(-time.Second),
	})
	if err == nil {
		t.Fatal("PutEntry() should reject updatedAt before createdAt")
	}
	if _, err := store.GetEntry("bad"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("rejected entry was stored: %v", err)
	}
}

func TestGetEntriesBetween(t *testing.T) {
	store := setupTestStore(t)

	for i, id := range []string{"a", "b", "c"} {
		created := baseTime.Add(time.Duration(i) * 24 * time.Hour)
		if err := store.PutEntry(models.Entry{ID: id, Type: models.EntryTypeNote, CreatedAt: created, UpdatedAt: created}); err != nil {
			t.Fatalf("PutEntry(%s) failed: %v", id, err)
		}
	}

	got, err := store.GetEntriesBetween(baseTime.Add(time.Hour), baseTime.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("GetEntriesBetween() failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "c" {
		t.Errorf("GetEntriesBetween() = %v, want [b c]", entryIDs(got))
	}
}

func TestDueReminders(t *testing.T) {
	store := setupTestStore(t)

	fired := baseTime.Add(-time.Hour)
	reminders := []models.Reminder{
		{ID: "past", Text: "past", Date: baseTime.Add(-time.Minute), CreatedAt: baseTime},
		{ID: "fired", Text: "fired", Date: baseTime.Add(-2 * time.Hour), CreatedAt: baseTime, FiredAt: &fired},
		{ID: "future", Text: "future", Date: baseTime.Add(time.Hour), CreatedAt: baseTime},
	}
	for _, r := range reminders {
		if err := store.PutReminder(r); err != nil {
			t.Fatalf("PutReminder(%s) failed: %v", r.ID, err)
		}
	}

	due, err := store.GetDueReminders(baseTime)
	if err != nil {
		t.Fatalf("GetDueReminders() failed: %v", err)
	}
	if len(due) != 1 || due[0].ID != "past" {
		t.Fatalf("GetDueReminders() = %+v, want [past]", due)
	}

	got, err := store.GetReminder("fired")
	if err != nil {
		t.Fatalf("GetReminder() failed: %v", err)
	}
	if got.FiredAt == nil || !got.FiredAt.Equal(fired) {
		t.Errorf("FiredAt = %v, want %v", got.FiredAt, fired)
	}

	between, err := store.GetRemindersBetween(baseTime.Add(-3*time.Hour), baseTime)
	if err != nil {
		t.Fatalf("GetRemindersBetween() failed: %v", err)
	}
	if len(between) != 2 || between[0].ID != "fired" || between[1].ID != "past" {
		t.Errorf("GetRemindersBetween() returned %d reminders", len(between))
	}
}

func TestGoalsAndOrphanTasks(t *testing.T) {
	store := setupTestStore(t)

	goal := models.Goal{ID: "g1", Title: "Read", Status: models.GoalStatusInProgress, CreatedAt: baseTime, UpdatedAt: baseTime}
	if err := store.PutGoal(goal); err != nil {
		t.Fatalf("PutGoal() failed: %v", err)
	}
	if err := store.PutGoal(models.Goal{ID: "g2", Status: "someday"}); err == nil {
		t.Error("PutGoal() should reject an unknown status")
	}
	if err := store.PutTask(models.Task{ID: "t1", GoalID: "g1", Text: "chapter 1", CreatedAt: baseTime}); err != nil {
		t.Fatalf("PutTask() failed: %v", err)
	}

	inProgress, err := store.GetGoalsByStatus(models.GoalStatusInProgress)
	if err != nil {
		t.Fatalf("GetGoalsByStatus() failed: %v", err)
	}
	if len(inProgress) != 1 {
		t.Errorf("GetGoalsByStatus() returned %d goals, want 1", len(inProgress))
	}

	if err := store.DeleteGoal("g1"); err != nil {
		t.Fatalf("DeleteGoal() failed: %v", err)
	}
	tasks, err := store.GetTasksForGoal("g1")
	if err != nil {
		t.Fatalf("GetTasksForGoal() failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("task for deleted goal should survive, got %d tasks", len(tasks))
	}
}

func TestVaultItemIsOpaque(t *testing.T) {
	store := setupTestStore(t)

	payload := []byte{0x00, 0xff, 0x10, 0x80}
	item := models.VaultItem{ID: "v1", Title: "bank", Type: "password", EncryptedData: payload, CreatedAt: baseTime, UpdatedAt: baseTime}
	if err := store.PutVaultItem(item); err != nil {
		t.Fatalf("PutVaultItem() failed: %v", err)
	}

	got, err := store.GetVaultItem("v1")
	if err != nil {
		t.Fatalf("GetVaultItem() failed: %v", err)
	}
	if !reflect.DeepEqual(got.EncryptedData, payload) {
		t.Errorf("EncryptedData = %x, want %x", got.EncryptedData, payload)
	}
}

func TestUnsyncedQueue(t *testing.T) {
	store := setupTestStore(t)

	if err := store.PutTask(models.Task{ID: "t1", CreatedAt: baseTime}); err != nil {
		t.Fatal(err)
	}
	if err := store.PutTask(models.Task{ID: "t2", CreatedAt: baseTime, IsSynced: true}); err != nil {
		t.Fatal(err)
	}

	unsynced, err := store.GetUnsyncedTasks()
	if err != nil {
		t.Fatalf("GetUnsyncedTasks() failed: %v", err)
	}
	if len(unsynced) != 1 || unsynced[0].ID != "t1" {
		t.Errorf("GetUnsyncedTasks() = %+v, want [t1]", unsynced)
	}
}

func TestGetMissingReturnsErrNotFound(t *testing.T) {
	store := setupTestStore(t)

	tests := []struct {
		name string
		get  func() error
	}{
		{"entry", func() error { _, err := store.GetEntry("x"); return err }},
		{"reminder", func() error { _, err := store.GetReminder("x"); return err }},
		{"goal", func() error { _, err := store.GetGoal("x"); return err }},
		{"task", func() error { _, err := store.GetTask("x"); return err }},
		{"vault item", func() error { _, err := store.GetVaultItem("x"); return err }},
		{"delete task", func() error { return store.DeleteTask("x") }},
		{"delete entry", func() error { return store.DeleteEntry("x") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.get(); !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestClearEmptiesEveryCollection(t *testing.T) {
	store := setupTestStore(t)
	seedAll(t, store)

	for _, c := range storage.AllCollections {
		if err := store.Clear(c); err != nil {
			t.Fatalf("Clear(%s) failed: %v", c, err)
		}
	}

	for _, table := range []string{"entries", "entry_tags", "reminders", "settings", "goals", "tasks", "vault_items"} {
		var count int
		if err := store.db.QueryRow("SELECT count(*) FROM " + table).Scan(&count); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Errorf("%s has %d rows after clear", table, count)
		}
	}
	settings, err := store.GetSettings()
	if err != nil || settings != nil {
		t.Errorf("GetSettings() after clear = %v, %v; want nil, nil", settings, err)
	}
}

func TestClearUnknownCollection(t *testing.T) {
	store := setupTestStore(t)
	if err := store.Clear("photos"); err == nil {
		t.Error("Clear() should reject an unknown collection")
	}
}

func seedAll(t *testing.T, store *Store) {
	t.Helper()
	if err := store.PutEntry(models.Entry{ID: "e1", Type: models.EntryTypeNote, CreatedAt: baseTime, UpdatedAt: baseTime, Tags: []string{"x"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.PutReminder(models.Reminder{ID: "r1", Date: baseTime, CreatedAt: baseTime}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveSettings(models.DefaultSettings()); err != nil {
		t.Fatal(err)
	}
	if err := store.PutGoal(models.Goal{ID: "g1", Status: models.GoalStatusNotStarted, CreatedAt: baseTime, UpdatedAt: baseTime}); err != nil {
		t.Fatal(err)
	}
	if err := store.PutTask(models.Task{ID: "t1", GoalID: "g1", CreatedAt: baseTime}); err != nil {
		t.Fatal(err)
	}
	if err := store.PutVaultItem(models.VaultItem{ID: "v1", EncryptedData: []byte("x"), CreatedAt: baseTime, UpdatedAt: baseTime}); err != nil {
		t.Fatal(err)
	}
}

func entryIDs(entries []models.Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}
