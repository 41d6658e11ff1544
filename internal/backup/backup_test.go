package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/lifeplan/internal/constants"
	"github.com/julianstephens/lifeplan/internal/models"
	"github.com/julianstephens/lifeplan/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "lifeplan.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if err := store.SavePriority(models.Priority{Category: models.CategoryCareer, Description: "Ship v1"}); err != nil {
		t.Fatalf("failed to save priority: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}
	return dbPath
}

// steppingClock returns a clock that advances by step on every call
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}

func careerPriority(t *testing.T, dbPath string) string {
	t.Helper()
	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	defer store.Close()

	priorities, err := store.GetPriorities()
	if err != nil {
		t.Fatalf("failed to get priorities: %v", err)
	}
	for _, p := range priorities {
		if p.Category == models.CategoryCareer {
			return p.Description
		}
	}
	return ""
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(func() time.Time {
		return time.Date(2024, 1, 15, 10, 30, 0, 0, time.Local)
	}))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if want := filepath.Join(mgr.GetBackupDir(), "lifeplan-20240115-1030.db"); backupPath != want {
		t.Errorf("expected backup path %s, got %s", want, backupPath)
	}
	if got := careerPriority(t, backupPath); got != "Ship v1" {
		t.Errorf("expected backup to contain priority, got %q", got)
	}
}

func TestCreateBackup_NoDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("expected error when database does not exist")
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	dbPath := setupTestDB(t)
	fixed := time.Date(2024, 1, 15, 10, 30, 0, 0, time.Local)
	mgr := NewManager(dbPath, WithClock(func() time.Time { return fixed }))

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		path, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup %d failed: %v", i, err)
		}
		if seen[path] {
			t.Fatalf("duplicate backup path %s", path)
		}
		seen[path] = true
	}

	want := []string{"lifeplan-20240115-1030.db", "lifeplan-20240115-103000.db", "lifeplan-20240115-103000-1.db"}
	for _, name := range want {
		if !seen[filepath.Join(mgr.GetBackupDir(), name)] {
			t.Errorf("expected backup %s to exist", name)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Errorf("expected 3 listed backups, got %d", len(backups))
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	mgr := NewManager(dbPath, WithMaxBackups(3), WithClock(steppingClock(start, 24*time.Hour)))

	for i := 0; i < 5; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup %d failed: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups after rotation, got %d", len(backups))
	}
	if got := filepath.Base(backups[0].Path); got != "lifeplan-20240105-0900.db" {
		t.Errorf("expected newest backup first, got %s", got)
	}
	if got := filepath.Base(backups[2].Path); got != "lifeplan-20240103-0900.db" {
		t.Errorf("expected oldest kept backup to be day 3, got %s", got)
	}
}

func TestDefaultMaxBackups(t *testing.T) {
	mgr := NewManager("/tmp/lifeplan.db", WithMaxBackups(0))
	if mgr.MaxBackups() != constants.MaxBackups {
		t.Errorf("expected default %d, got %d", constants.MaxBackups, mgr.MaxBackups())
	}
}

func TestListBackups_IgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "lifeplan-latest.db", "other-20240101-0900.db"} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %d", len(backups))
	}

	if _, ok, err := mgr.Latest(); err != nil || ok {
		t.Errorf("expected no latest backup, got ok=%v err=%v", ok, err)
	}
}

func TestListBackups_NoDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "lifeplan.db"))
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected empty list, got %d", len(backups))
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)
	mgr := NewManager(dbPath, WithClock(steppingClock(start, time.Hour)))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	if err := store.SavePriority(models.Priority{Category: models.CategoryCareer, Description: "Changed"}); err != nil {
		t.Fatal(err)
	}
	store.Close()

	safetyCopy, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	if got := careerPriority(t, dbPath); got != "Ship v1" {
		t.Errorf("expected restored priority %q, got %q", "Ship v1", got)
	}
	if safetyCopy == "" {
		t.Fatal("expected a safety copy of the replaced database")
	}
	if got := careerPriority(t, safetyCopy); got != "Changed" {
		t.Errorf("expected safety copy to hold the replaced data, got %q", got)
	}

	latest, ok, err := mgr.Latest()
	if err != nil || !ok {
		t.Fatalf("Latest failed: ok=%v err=%v", ok, err)
	}
	if latest.Path != safetyCopy {
		t.Errorf("expected latest backup to be the safety copy, got %s", latest.Path)
	}
}

func TestRestoreBackup_Missing(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("expected error for missing backup")
	}
}

func TestRestoreBackup_RejectsInvalidFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	dir := t.TempDir()

	corrupted := filepath.Join(dir, "corrupted.db")
	if err := os.WriteFile(corrupted, []byte("this is not a database"), 0600); err != nil {
		t.Fatal(err)
	}

	foreign := filepath.Join(dir, "foreign.db")
	db, err := sqlite.Open(foreign)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("CREATE TABLE notes (id INTEGER)"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	for _, path := range []string{corrupted, foreign} {
		_, err := mgr.RestoreBackup(path)
		if err == nil {
			t.Errorf("expected %s to be rejected", filepath.Base(path))
			continue
		}
		if !strings.Contains(err.Error(), "corrupted or invalid") {
			t.Errorf("unexpected error for %s: %v", filepath.Base(path), err)
		}
	}

	if got := careerPriority(t, dbPath); got != "Ship v1" {
		t.Errorf("database changed after rejected restore: %q", got)
	}
}
