package models

import (
	"testing"

	"github.com/julianstephens/habitbloom/internal/constants"
)

func TestSettingsMapRoundTrip(t *testing.T) {
	in := Settings{NotificationsEnabled: false, Timezone: "Europe/London", Theme: "autumn", LastDecaySweep: "2024-03-01"}

	out, err := MapToSettings(SettingsToMap(in))
	if err != nil {
		t.Fatalf("MapToSettings failed: %v", err)
	}
	if out != in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestMapToSettingsInvalidBool(t *testing.T) {
	_, err := MapToSettings(map[string]string{constants.SettingNotificationsEnabled: "maybe"})
	if err == nil {
		t.Error("expected error for invalid bool")
	}
}

func TestApplyDefaultSettings(t *testing.T) {
	s := Settings{Theme: "neon"}
	ApplyDefaultSettings(&s)
	if s.Timezone != constants.DefaultTimezone {
		t.Errorf("Timezone = %q", s.Timezone)
	}
	if s.Theme != constants.DefaultTheme {
		t.Errorf("Theme = %q", s.Theme)
	}
}
