package backup

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/models"
	"github.com/julianstephens/habitbloom/internal/storage"
)

// stepClock advances one minute per call so every backup gets its own name.
type stepClock struct{ t time.Time }

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func setupTestDB(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "habitbloom.db")
	store := storage.New(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	for _, name := range []string{"Run", "Read"} {
		if _, err := store.CreateHabit(models.Habit{
			UserID: constants.DefaultUserID, Name: name, Category: constants.CategoryHealth, Icon: "🌱",
			PlantType: constants.PlantFlower, TargetFrequency: 7, Difficulty: 1, IsActive: true,
		}); err != nil {
			t.Fatalf("CreateHabit failed: %v", err)
		}
	}
	return dbPath, store
}

func countHabits(t *testing.T, dbPath string) int {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM habits").Scan(&n); err != nil {
		t.Fatalf("failed to count habits: %v", err)
	}
	return n
}

func TestCreateBackup(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath, (&stepClock{t: time.Date(2024, 6, 3, 7, 0, 0, 0, time.Local)}).Now)

	info, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if info.Name != "habitbloom-20240603-0701.db" {
		t.Errorf("Name = %s", info.Name)
	}
	if filepath.Dir(info.Path) != filepath.Join(filepath.Dir(dbPath), constants.BackupDirName) {
		t.Errorf("backup written outside backup dir: %s", info.Path)
	}
	if info.Size == 0 {
		t.Error("backup is empty")
	}
	if got := countHabits(t, info.Path); got != 2 {
		t.Errorf("backup has %d habits, want 2", got)
	}
}

func TestCreateBackupWithoutDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"), nil)
	if _, err := mgr.CreateBackup(); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("error = %v, want ErrNoDatabase", err)
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath, (&stepClock{t: time.Date(2024, 6, 3, 7, 0, 0, 0, time.Local)}).Now)

	for i := 0; i < constants.MaxBackups+5; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups not sorted newest first at %d", i)
		}
	}
	if backups[0].Name != "habitbloom-20240603-0719.db" {
		t.Errorf("newest = %s", backups[0].Name)
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	fixed := time.Date(2024, 6, 3, 7, 0, 0, 0, time.Local)
	mgr := NewManager(dbPath, func() time.Time { return fixed })

	want := []string{
		"habitbloom-20240603-0700.db",
		"habitbloom-20240603-070000.db",
		"habitbloom-20240603-070000-1.db",
		"habitbloom-20240603-070000-2.db",
	}
	for i, name := range want {
		info, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		if info.Name != name {
			t.Errorf("backup #%d = %s, want %s", i, info.Name, name)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != len(want) {
		t.Errorf("ListBackups returned %d, want %d", len(backups), len(want))
	}
}

func TestListBackupsIgnoresStrayFiles(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath, nil)

	backups, err := mgr.ListBackups()
	if err != nil || len(backups) != 0 {
		t.Fatalf("ListBackups before any backup = %v, %v", backups, err)
	}

	os.MkdirAll(mgr.BackupDir(), 0700)
	for _, name := range []string{"notes.txt", "habitbloom-garbage.db", "other-20240603-0700.db"} {
		os.WriteFile(filepath.Join(mgr.BackupDir(), name), []byte("x"), 0600)
	}
	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("got %d backups, want 1", len(backups))
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath, store := setupTestDB(t)
	mgr := NewManager(dbPath, (&stepClock{t: time.Date(2024, 6, 3, 7, 0, 0, 0, time.Local)}).Now)

	info, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if _, err := store.CreateHabit(models.Habit{
		UserID: constants.DefaultUserID, Name: "Swim", Category: constants.CategoryHealth, Icon: "🏊",
		PlantType: constants.PlantHerb, TargetFrequency: 7, Difficulty: 1, IsActive: true,
	}); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	store.Close()
	if got := countHabits(t, dbPath); got != 3 {
		t.Fatalf("expected 3 habits before restore, got %d", got)
	}

	safety, err := mgr.RestoreBackup(info.Path)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if got := countHabits(t, dbPath); got != 2 {
		t.Errorf("expected 2 habits after restore, got %d", got)
	}
	if safety == "" || countHabits(t, safety) != 3 {
		t.Errorf("safety backup %q does not hold the pre-restore state", safety)
	}

	backups, _ := mgr.ListBackups()
	if len(backups) != 2 {
		t.Errorf("expected 2 backups after restore, got %d", len(backups))
	}
	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file left behind")
	}
}

func TestRestoreRejectsInvalidBackups(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath, nil)
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.db")
	os.WriteFile(garbage, []byte("not a database"), 0600)

	foreign := filepath.Join(dir, "foreign.db")
	db, err := sql.Open("sqlite", foreign)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("CREATE TABLE tasks (id INTEGER PRIMARY KEY)"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "nope.db")},
		{"garbage", garbage},
		{"foreign schema", foreign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := mgr.RestoreBackup(tt.path); err == nil {
				t.Error("expected restore to fail")
			}
		})
	}
	if got := countHabits(t, dbPath); got != 2 {
		t.Errorf("database changed by failed restore: %d habits", got)
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
		want time.Time
	}{
		{"habitbloom-20240603-0700.db", true, time.Date(2024, 6, 3, 7, 0, 0, 0, time.Local)},
		{"habitbloom-20240603-070005.db", true, time.Date(2024, 6, 3, 7, 0, 5, 0, time.Local)},
		{"habitbloom-20240603-070005-12.db", true, time.Date(2024, 6, 3, 7, 0, 5, 0, time.Local)},
		{"habitbloom-20240603.db", false, time.Time{}},
		{"habitbloom-20240603-0700.json", false, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseName(tt.name)
			if ok != tt.ok || !got.Equal(tt.want) {
				t.Errorf("parseName = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}
