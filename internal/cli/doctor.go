package cli

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/habitbloom/internal/keyring"
	"github.com/julianstephens/habitbloom/internal/migration"
	"github.com/julianstephens/habitbloom/internal/utils"
)

// inspector is implemented by stores that expose schema and integrity checks.
type inspector interface {
	GetDB() *sql.DB
	MigrationStatus() (migration.Status, error)
	CheckIntegrity() error
}

type DoctorCmd struct{}

type check struct {
	name    string
	needsDB bool
	// warn marks checks whose failure is reported but not fatal.
	warn bool
	run  func(*Context) error
}

var doctorChecks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Database integrity", needsDB: true, run: checkIntegrity},
	{name: "Data validation", needsDB: true, run: checkValidation},
	{name: "Backups present", warn: true, run: checkBackupsPresent},
	{name: "Keyring available", warn: true, run: checkKeyring},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	dbReachable := true
	for i, c := range doctorChecks {
		if c.needsDB && !dbReachable {
			ctx.printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", c.name)
		case c.warn:
			ctx.printf("⚠ %s: WARNING\n", c.name)
			ctx.printf("   %v\n", err)
		default:
			ctx.printf("❌ %s: FAIL\n", c.name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
			if i == 0 {
				dbReachable = false
			}
		}
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func storeInspector(ctx *Context) (inspector, error) {
	in, ok := ctx.Store.(inspector)
	if !ok {
		return nil, fmt.Errorf("storage backend does not support diagnostics")
	}
	if in.GetDB() == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return in, nil
}

func checkDBReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	in, err := storeInspector(ctx)
	if err != nil {
		return err
	}
	var result int
	if err := in.GetDB().QueryRow("SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	in, err := storeInspector(ctx)
	if err != nil {
		return err
	}
	st, err := in.MigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if st.Current > st.Latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", st.Current, st.Latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *Context) error {
	in, err := storeInspector(ctx)
	if err != nil {
		return err
	}
	st, err := in.MigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if len(st.Pending) > 0 {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d; run 'habitbloom migrate'", st.Current, st.Latest)
	}
	return nil
}

func checkIntegrity(ctx *Context) error {
	in, err := storeInspector(ctx)
	if err != nil {
		return err
	}
	return in.CheckIntegrity()
}

func checkValidation(ctx *Context) error {
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	u, err := ctx.Store.GetUser(ctx.userID())
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}
	if err := u.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	habits, err := ctx.Store.GetHabits(ctx.userID(), false)
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}
	states, err := ctx.Store.GetGardenStates(ctx.userID())
	if err != nil {
		return fmt.Errorf("failed to get garden: %w", err)
	}
	planted := make(map[int64]bool, len(states))
	for _, s := range states {
		planted[s.HabitID] = true
	}
	for _, h := range habits {
		if err := h.Validate(); err != nil {
			return fmt.Errorf("habit %d is invalid: %w", h.ID, err)
		}
		if h.LongestStreak < h.CurrentStreak {
			return fmt.Errorf("habit %d has longest streak %d below current streak %d", h.ID, h.LongestStreak, h.CurrentStreak)
		}
		if !planted[h.ID] {
			return fmt.Errorf("habit %d has no plant", h.ID)
		}
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	backups, err := ctx.backups().ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habitbloom backup create'")
	}
	return nil
}

func checkKeyring(*Context) error {
	if !keyring.IsAvailable() {
		return fmt.Errorf("OS keyring unavailable; set server.token in the config file to protect the API")
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	now := ctx.clock()()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if tz := ctx.Config.Timezone; tz != "" && !utils.ValidateTimezone(tz) {
		return fmt.Errorf("configured timezone %q is not a valid IANA name", tz)
	}
	return nil
}
