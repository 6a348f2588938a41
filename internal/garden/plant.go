// Package garden holds the plant growth and health rules and the manager
// that applies them to stored plants.
package garden

import (
	"time"

	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/models"
	"github.com/julianstephens/habitbloom/internal/utils"
)

// StageForGrowth maps a growth percentage onto a stage (1-5).
func StageForGrowth(growth int) int {
	for _, th := range constants.StageThresholds {
		if growth >= th.MinGrowth {
			return th.Stage
		}
	}
	return constants.MinStage
}

// stageMinGrowth is the growth percentage at which stage begins.
func stageMinGrowth(stage int) int {
	for _, th := range constants.StageThresholds {
		if th.Stage == stage {
			return th.MinGrowth
		}
	}
	return 0
}

// Water applies one watering. Growth and health are capped at 100 and the
// stage only ever moves up.
func Water(s models.GardenState, today time.Time) models.GardenState {
	s.PlantGrowth = min(constants.MaxGrowth, max(0, s.PlantGrowth)+constants.WaterGrowthStep)
	s.PlantHealth = min(constants.MaxHealth, max(0, s.PlantHealth)+constants.WaterHealthStep)
	s.LastWatered = utils.FormatDate(today)
	if stage := StageForGrowth(s.PlantGrowth); stage > s.Stage {
		s.Stage = stage
	}
	return s
}

// Decay lowers health by 5 per day since the last watering, at most 50 per
// call and never below 0. Plants that were never watered are left alone.
// Stage and growth are not touched.
func Decay(s models.GardenState, today time.Time) (models.GardenState, bool) {
	days := DaysSinceWatered(s.LastWatered, today)
	if days <= 0 {
		return s, false
	}
	loss := min(days*constants.DecayPerDay, constants.MaxDecayPerSweep)
	health := max(0, s.PlantHealth-loss)
	if health == s.PlantHealth {
		return s, false
	}
	s.PlantHealth = health
	return s, true
}

// DaysSinceWatered returns whole days since lastWatered, or -1 when the plant
// has never been watered or the date is unreadable.
func DaysSinceWatered(lastWatered string, today time.Time) int {
	if lastWatered == "" {
		return -1
	}
	d, err := utils.ParseDate(lastWatered, today.Location())
	if err != nil {
		return -1
	}
	return utils.DaysBetween(d, today)
}

// NeedsWater is true for plants never watered or not watered today.
func NeedsWater(lastWatered string, today time.Time) bool {
	days := DaysSinceWatered(lastWatered, today)
	return days < 0 || days >= 1
}

// NextStageProgress is the percentage of the way from the current stage's
// threshold to the next one. Fully grown plants report 100.
func NextStageProgress(s models.GardenState) int {
	if s.Stage >= constants.MaxStage {
		return 100
	}
	lo := stageMinGrowth(s.Stage)
	hi := stageMinGrowth(s.Stage + 1)
	if s.PlantGrowth >= hi {
		return 100
	}
	if hi <= lo {
		return 0
	}
	return max(0, (s.PlantGrowth-lo)*100/(hi-lo))
}

// StageIcon returns the emoji for a plant type at a stage.
func StageIcon(plantType constants.PlantType, stage int) string {
	info, ok := constants.PlantTypes[plantType]
	if !ok {
		info = constants.PlantTypes[constants.DefaultPlantType]
	}
	idx := min(max(stage, constants.MinStage), constants.MaxStage) - 1
	return info.Stages[idx]
}

// StageName returns the display name of a stage.
func StageName(stage int) string {
	if name, ok := constants.StageNames[stage]; ok {
		return name
	}
	return constants.StageNames[constants.MinStage]
}
