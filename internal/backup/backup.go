package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/curiosity/internal/constants"
	"github.com/julianstephens/curiosity/internal/logger"
)

// stampLayout is the timestamp embedded in backup file names.
const stampLayout = "20060102-150405"

var (
	// ErrNoDatabase is returned when the local database file does not exist yet.
	ErrNoDatabase = errors.New("local database does not exist")
	// ErrInvalidBackup is returned when a file is not a readable SQLite database.
	ErrInvalidBackup = errors.New("backup file is corrupted or invalid")
)

// Info describes one backup file on disk.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager creates, lists, rotates and restores copies of the local store.
type Manager struct {
	dbPath    string
	backupDir string
	keep      int
	now       func() time.Time
}

// NewManager returns a manager that keeps its backups next to dbPath.
func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:      constants.MaxBackups,
		now:       time.Now,
	}
}

// Dir returns the backup directory path.
func (m *Manager) Dir() string {
	return m.backupDir
}

// Create writes a new backup and prunes the oldest ones beyond the retention limit.
func (m *Manager) Create() (string, error) {
	path, err := m.create()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) create() (string, error) {
	if _, err := os.Stat(m.dbPath); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNoDatabase, m.dbPath)
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	dest, err := m.nextPath()
	if err != nil {
		return "", err
	}
	if err := vacuumInto(m.dbPath, dest); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}

	logger.Info("Backup created", "path", dest)
	return dest, nil
}

// nextPath picks an unused file name for the current second, appending a
// counter when several backups land in the same second.
func (m *Manager) nextPath() (string, error) {
	stamp := m.now().UTC().Format(stampLayout)
	for n := 0; n <= 100; n++ {
		name := constants.BackupFilePrefix + stamp
		if n > 0 {
			name += "-" + strconv.Itoa(n)
		}
		path := filepath.Join(m.backupDir, name+constants.BackupFileSuffix)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
	}
	return "", errors.New("failed to generate unique backup filename")
}

func vacuumInto(src, dest string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	if err := ping(db); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	if _, err := db.Exec("VACUUM INTO ?", dest); err != nil {
		db.Close()
		return copyFile(src, dest)
	}
	return nil
}

// List returns all backups, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, seq, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts.Add(time.Duration(seq)),
			Size:      fi.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseName extracts the timestamp and same-second counter from a backup
// file name. The counter is folded into the timestamp as nanoseconds so
// that ordering stays stable.
func parseName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, 0, false
	}
	body := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	seq := 0
	if len(body) > len(stampLayout) {
		n, err := strconv.Atoi(strings.TrimPrefix(body[len(stampLayout):], "-"))
		if err != nil {
			return time.Time{}, 0, false
		}
		seq = n
		body = body[:len(stampLayout)]
	}

	ts, err := time.Parse(stampLayout, body)
	if err != nil {
		return time.Time{}, 0, false
	}
	return ts, seq, true
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		logger.Debug("Pruned backup", "path", backups[i].Path)
	}
	return nil
}

// Restore replaces the local database with the backup at path. The current
// database, when present, is backed up first and its path returned.
func (m *Manager) Restore(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("backup file does not exist: %s", path)
	}
	if err := Verify(path); err != nil {
		return "", err
	}

	var previous string
	if _, err := os.Stat(m.dbPath); err == nil {
		// No rotation here so the backup being restored is never pruned.
		previous, err = m.create()
		if err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary restore file", "path", tmp, "error", rmErr)
		}
		return "", fmt.Errorf("failed to restore database: %w", err)
	}

	logger.Info("Database restored", "from", path)
	return previous, nil
}

// Verify checks that path is a readable SQLite database.
func Verify(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	defer db.Close()
	if err := ping(db); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return nil
}

func ping(db *sql.DB) error {
	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
