package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/habitbloom/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingNotificationsEnabled:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.NotificationsEnabled = b
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingTheme:
			settings.Theme = value
		case constants.SettingLastDecaySweep:
			settings.LastDecaySweep = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingNotificationsEnabled: strconv.FormatBool(settings.NotificationsEnabled),
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingTheme:                settings.Theme,
		constants.SettingLastDecaySweep:       settings.LastDecaySweep,
	}
}

// DefaultSettings returns the settings written by init.
func DefaultSettings() Settings {
	return Settings{
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		Timezone:             constants.DefaultTimezone,
		Theme:                constants.DefaultTheme,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if _, ok := constants.Themes[settings.Theme]; !ok {
		settings.Theme = constants.DefaultTheme
	}
}
