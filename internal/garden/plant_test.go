package garden

import (
	"testing"
	"time"

	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/models"
)

var today = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func TestStageForGrowth(t *testing.T) {
	tests := []struct {
		growth int
		want   int
	}{
		{0, 1}, {19, 1}, {20, 2}, {39, 2}, {40, 3}, {59, 3}, {60, 4}, {79, 4}, {80, 5}, {100, 5},
	}
	for _, tt := range tests {
		if got := StageForGrowth(tt.growth); got != tt.want {
			t.Errorf("StageForGrowth(%d) = %d, want %d", tt.growth, got, tt.want)
		}
	}
}

func TestWaterClampsAndGrows(t *testing.T) {
	s := models.GardenState{PlantGrowth: 0, PlantHealth: 100, Stage: 1}

	prevStage := s.Stage
	for i := 0; i < 40; i++ {
		s = Water(s, today)
		if s.PlantGrowth < 0 || s.PlantGrowth > 100 {
			t.Fatalf("growth out of range: %d", s.PlantGrowth)
		}
		if s.PlantHealth < 0 || s.PlantHealth > 100 {
			t.Fatalf("health out of range: %d", s.PlantHealth)
		}
		if s.Stage < prevStage {
			t.Fatalf("stage decreased from %d to %d", prevStage, s.Stage)
		}
		prevStage = s.Stage
	}

	if s.PlantGrowth != 100 || s.PlantHealth != 100 || s.Stage != 5 {
		t.Errorf("unexpected final plant %+v", s)
	}
	if s.LastWatered != "2024-06-15" {
		t.Errorf("LastWatered = %q", s.LastWatered)
	}
}

func TestWaterStepsAcrossThresholds(t *testing.T) {
	s := models.GardenState{PlantGrowth: 15, PlantHealth: 55, Stage: 1}
	s = Water(s, today)
	if s.PlantGrowth != 20 || s.PlantHealth != 65 || s.Stage != 2 {
		t.Errorf("after first watering: %+v", s)
	}

	// A stage already above the growth threshold is kept
	s = models.GardenState{PlantGrowth: 5, PlantHealth: 95, Stage: 3}
	s = Water(s, today)
	if s.Stage != 3 || s.PlantHealth != 100 {
		t.Errorf("stage should not drop: %+v", s)
	}
}

func TestDecay(t *testing.T) {
	tests := []struct {
		name        string
		lastWatered string
		health      int
		want        int
		changed     bool
	}{
		{"never watered", "", 80, 80, false},
		{"watered today", "2024-06-15", 80, 80, false},
		{"one day", "2024-06-14", 80, 75, true},
		{"four days", "2024-06-11", 80, 60, true},
		{"capped at fifty", "2024-05-01", 90, 40, true},
		{"floored at zero", "2024-06-05", 30, 0, true},
		{"already dead", "2024-06-10", 0, 0, false},
		{"bad date ignored", "yesterday", 80, 80, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := models.GardenState{PlantGrowth: 45, PlantHealth: tt.health, LastWatered: tt.lastWatered, Stage: 3}
			got, changed := Decay(s, today)
			if got.PlantHealth != tt.want || changed != tt.changed {
				t.Errorf("Decay() = health %d changed %v, want %d %v", got.PlantHealth, changed, tt.want, tt.changed)
			}
			if got.Stage != 3 || got.PlantGrowth != 45 || got.LastWatered != tt.lastWatered {
				t.Errorf("Decay must only touch health: %+v", got)
			}
		})
	}
}

func TestNeedsWater(t *testing.T) {
	if !NeedsWater("", today) {
		t.Error("never watered plant needs water")
	}
	if NeedsWater("2024-06-15", today) {
		t.Error("plant watered today does not need water")
	}
	if !NeedsWater("2024-06-14", today) {
		t.Error("plant watered yesterday needs water")
	}
}

func TestNextStageProgress(t *testing.T) {
	tests := []struct {
		growth, stage, want int
	}{
		{0, 1, 0},
		{10, 1, 50},
		{30, 2, 50},
		{45, 3, 25},
		{79, 4, 95},
		{100, 5, 100},
		{65, 3, 100},
	}
	for _, tt := range tests {
		s := models.GardenState{PlantGrowth: tt.growth, Stage: tt.stage}
		if got := NextStageProgress(s); got != tt.want {
			t.Errorf("NextStageProgress(growth=%d, stage=%d) = %d, want %d", tt.growth, tt.stage, got, tt.want)
		}
	}
}

func TestStageIcon(t *testing.T) {
	if got := StageIcon(constants.PlantTree, 5); got != "🌳" {
		t.Errorf("tree stage 5 = %s", got)
	}
	if got := StageIcon("unknown", 1); got != "🌱" {
		t.Errorf("unknown plant stage 1 = %s", got)
	}
	if got := StageIcon(constants.PlantFlower, 9); got != "💐" {
		t.Errorf("out of range stage should clamp, got %s", got)
	}
	if StageName(4) != "Blooming" || StageName(0) != "Seed" {
		t.Error("unexpected stage names")
	}
}
