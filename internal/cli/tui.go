package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitbloom/internal/logger"
	"github.com/julianstephens/habitbloom/internal/tui"
)

type TuiCmd struct {
	NoBackup bool `help:"Skip the automatic snapshot taken on startup."`
}

func (c *TuiCmd) Run(ctx *Context) error {
	if !c.NoBackup {
		ctx.automaticBackup()
	}
	if _, _, err := ctx.Garden().SweepIfDue(ctx.userID()); err != nil {
		logger.Warn("Garden sweep failed", "error", err)
	}
	if err := ctx.Store.TouchLogin(ctx.userID(), ctx.clock()()); err != nil {
		logger.Warn("Failed to record login", "error", err)
	}

	p := tea.NewProgram(tui.NewModel(ctx.Store, ctx.clock()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited: %w", err)
	}
	return nil
}

// automaticBackup snapshots the database unless one was already taken today.
func (c *Context) automaticBackup() {
	mgr := c.backups()
	backups, err := mgr.ListBackups()
	if err != nil {
		logger.Warn("Failed to list backups", "error", err)
		return
	}
	today := c.clock()()
	for _, b := range backups {
		if b.Timestamp.Year() == today.Year() && b.Timestamp.YearDay() == today.YearDay() {
			return
		}
	}
	info, err := mgr.CreateBackup()
	if err != nil {
		logger.Warn("Automatic backup failed", "error", err)
		return
	}
	logger.Info("Automatic backup created", "file", info.Name)
}
