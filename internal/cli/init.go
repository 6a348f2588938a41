package cli

import (
	"fmt"
	"os"

	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/models"
)

type InitCmd struct {
	Force        bool `help:"Delete any existing database first."`
	WithDefaults bool `help:"Plant the starter habits when the garden is empty."`
}

func (c *InitCmd) Run(ctx *Context) error {
	path := ctx.Store.GetConfigPath()
	if c.Force {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		for _, p := range []string{path, path + "-wal", path + "-shm"} {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove %s: %w", p, err)
			}
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized habitbloom storage at: %s\n", path)

	if c.WithDefaults {
		n, err := plantDefaults(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			ctx.printf("🌱 Planted %d starter habits\n", n)
		} else {
			ctx.println("Garden already has habits; starter habits skipped.")
		}
	}
	return nil
}

func plantDefaults(ctx *Context) (int, error) {
	habits := ctx.Habits()
	existing, err := habits.ListHabits(ctx.userID(), false)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for _, tpl := range constants.DefaultHabits {
		_, unlocked, err := habits.CreateHabit(models.Habit{
			UserID:     ctx.userID(),
			Name:       tpl.Name,
			Icon:       tpl.Icon,
			Category:   tpl.Category,
			PlantType:  tpl.PlantType,
			Difficulty: tpl.Difficulty,
		})
		if err != nil {
			return 0, fmt.Errorf("failed to plant %q: %w", tpl.Name, err)
		}
		printUnlocked(ctx, unlocked)
	}
	return len(constants.DefaultHabits), nil
}

// maintainer is implemented by stores that manage their own schema.
type maintainer interface {
	Migrate(logFn func(string)) (int, error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	m, ok := ctx.Store.(maintainer)
	if !ok {
		return fmt.Errorf("storage backend does not support migrations")
	}
	applied, err := m.Migrate(func(msg string) { ctx.println("  " + msg) })
	if err != nil {
		return err
	}
	if applied == 0 {
		ctx.println("✓ Database schema is up to date")
	} else {
		ctx.printf("✓ Applied %d migration(s)\n", applied)
	}
	return nil
}
