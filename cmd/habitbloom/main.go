package main

import (
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitbloom/internal/cli"
	"github.com/julianstephens/habitbloom/internal/config"
	"github.com/julianstephens/habitbloom/internal/constants"
	apperrors "github.com/julianstephens/habitbloom/internal/errors"
	"github.com/julianstephens/habitbloom/internal/logger"
	"github.com/julianstephens/habitbloom/internal/storage"
	"github.com/julianstephens/habitbloom/internal/utils"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path"`
	DB      string `name:"db" help:"Database path, overrides db_path from the config file." type:"path"`
	Debug   bool   `help:"Enable debug logging."`

	Init         cli.InitCmd         `cmd:"" help:"Initialize habitbloom storage."`
	Migrate      cli.MigrateCmd      `cmd:"" help:"Run database migrations."`
	Doctor       cli.DoctorCmd       `cmd:"" help:"Run health checks and diagnostics."`
	Tui          cli.TuiCmd          `cmd:"" help:"Launch the interactive garden." default:"1"`
	Habit        cli.HabitCmd        `cmd:"" help:"Manage habits and check-ins."`
	Garden       cli.GardenCmd       `cmd:"" help:"Tend the garden."`
	Stats        cli.StatsCmd        `cmd:"" help:"Show statistics."`
	Achievements cli.AchievementsCmd `cmd:"" help:"Show achievements."`
	Reminder     cli.ReminderCmd     `cmd:"" help:"Manage reminders."`
	Export       cli.ExportCmd       `cmd:"" help:"Export all data to a JSON file."`
	Import       cli.ImportCmd       `cmd:"" help:"Replace all data from a JSON export."`
	Backup       cli.BackupCmd       `cmd:"" help:"Manage database backups."`
	Profile      cli.ProfileCmd      `cmd:"" help:"Show or update your profile."`
	Settings     cli.SettingsCmd     `cmd:"" help:"Show or update settings."`
	Daemon       cli.DaemonCmd       `cmd:"" help:"Deliver reminders and run the daily garden sweep."`
	Serve        cli.ServeCmd        `cmd:"" help:"Serve the local HTTP API."`
	Token        cli.TokenCmd        `cmd:"" help:"Manage the API token."`
	Diagnostics  cli.DebugCmd        `cmd:"" name:"debug" help:"Debug commands for troubleshooting." hidden:""`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Grow a garden of habits: every check-in waters a plant."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	if CLI.DB != "" {
		cfg.DBPath = utils.ExpandPath(CLI.DB)
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{
		Debug:   cfg.Debug,
		Level:   cfg.LogLevel,
		DataDir: filepath.Dir(cfg.DBPath),
	}); err != nil {
		apperrors.Fatal(err)
	}

	store := storage.New(cfg.DBPath)
	defer store.Close()

	appCtx := &cli.Context{
		Store:  store,
		Config: cfg,
		Now:    utils.ClockFor(cfg.Timezone),
		UserID: constants.DefaultUserID,
		Out:    os.Stdout,
		In:     os.Stdin,
	}

	// Init and doctor open the database themselves.
	if cmd := ctx.Selected(); cmd != nil && cmd.Name != "init" && cmd.Name != "doctor" {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}
