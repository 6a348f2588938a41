package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/julianstephens/habitbloom/internal/backup"
	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/utils"
)

type ExportCmd struct {
	File string `arg:"" help:"Destination JSON file." type:"path"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	data, err := backup.Export(ctx.Store)
	if err != nil {
		return err
	}
	if err := backup.WriteFile(c.File, data); err != nil {
		return err
	}
	ctx.printf("✓ Exported to %s\n", c.File)
	printCounts(ctx, data.Counts())
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"JSON export to import." type:"existingfile"`
	Yes  bool   `short:"y" help:"Skip confirmation."`
}

func (c *ImportCmd) Run(ctx *Context) error {
	data, err := backup.ReadFile(c.File)
	if err != nil {
		return err
	}
	if !c.Yes {
		ctx.println("⚠️  WARNING: This replaces every habit, check-in, reminder and plant with the file's contents.")
		ok, err := ctx.confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Import cancelled.")
			return nil
		}
	}
	if err := backup.Import(ctx.Store, data); err != nil {
		return err
	}
	ctx.printf("✓ Imported %s (exported %s)\n", c.File, data.ExportTime)
	printCounts(ctx, data.Counts())
	return nil
}

func printCounts(ctx *Context, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ctx.printf("  %-14s %d\n", k+":", counts[k])
	}
}

type ProfileCmd struct {
	Name     *string `help:"Display name."`
	Color    *string `help:"Avatar color as #RRGGBB."`
	GoalTime *string `help:"Daily goal time (HH:MM)."`
}

func (c *ProfileCmd) Run(ctx *Context) error {
	u, err := ctx.Store.GetUser(ctx.userID())
	if err != nil {
		return err
	}

	if c.Name != nil || c.Color != nil || c.GoalTime != nil {
		if c.Name != nil {
			u.Username = *c.Name
		}
		if c.Color != nil {
			u.AvatarColor = *c.Color
		}
		if c.GoalTime != nil {
			u.DailyGoalTime = *c.GoalTime
		}
		if err := ctx.Store.UpdateUser(u); err != nil {
			return err
		}
		ctx.println("✓ Profile updated")
	}

	ctx.printf("Name:       %s\n", u.Username)
	ctx.printf("Color:      %s\n", u.AvatarColor)
	ctx.printf("Daily goal: %s\n", u.DailyGoalTime)
	ctx.printf("Joined:     %s\n", u.CreatedAt.Format(constants.DateFormat))
	if u.LastLogin != nil {
		ctx.printf("Last login: %s\n", u.LastLogin.Format(constants.DateFormat+" "+constants.TimeFormat))
	}
	return nil
}

type SettingsCmd struct {
	Notifications *bool   `help:"Enable or disable reminder notifications."`
	Timezone      *string `help:"IANA timezone name, or Local."`
	Theme         *string `help:"Garden theme (spring, summer, autumn, winter)."`
}

func (c *SettingsCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	if c.Notifications != nil || c.Timezone != nil || c.Theme != nil {
		if c.Notifications != nil {
			settings.NotificationsEnabled = *c.Notifications
		}
		if c.Timezone != nil {
			if !utils.ValidateTimezone(*c.Timezone) {
				return fmt.Errorf("invalid timezone: %s", *c.Timezone)
			}
			settings.Timezone = *c.Timezone
		}
		if c.Theme != nil {
			if _, ok := constants.Themes[*c.Theme]; !ok {
				return fmt.Errorf("unknown theme: %s (want spring, summer, autumn or winter)", *c.Theme)
			}
			settings.Theme = *c.Theme
		}
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return err
		}
		ctx.println("✓ Settings saved")
	}

	ctx.printf("Notifications: %s\n", strconv.FormatBool(settings.NotificationsEnabled))
	ctx.printf("Timezone:      %s\n", settings.Timezone)
	ctx.printf("Theme:         %s\n", constants.Themes[settings.Theme].Name)
	if settings.LastDecaySweep != "" {
		ctx.printf("Last sweep:    %s\n", settings.LastDecaySweep)
	}
	return nil
}
