package garden

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/logger"
	"github.com/julianstephens/habitbloom/internal/models"
	"github.com/julianstephens/habitbloom/internal/storage"
	"github.com/julianstephens/habitbloom/internal/utils"
)

// PlantInfo is a habit's plant as shown in the garden
type PlantInfo struct {
	HabitID        int64               `json:"habit_id"`
	Name           string              `json:"name"`
	Icon           string              `json:"icon"`
	PlantIcon      string              `json:"plant_icon"`
	PlantType      constants.PlantType `json:"plant_type"`
	Category       constants.Category  `json:"category"`
	Stage          int                 `json:"stage"`
	StageName      string              `json:"stage_name"`
	Health         int                 `json:"health"`
	Growth         int                 `json:"growth"`
	NeedsWater     bool                `json:"needs_water"`
	LastWatered    string              `json:"last_watered,omitempty"`
	CurrentStreak  int                 `json:"current_streak"`
	CompletedToday bool                `json:"is_completed_today"`
}

// PlantDetail adds history and progress to PlantInfo
type PlantDetail struct {
	PlantInfo
	TotalCompleted    int       `json:"total_completed"`
	LongestStreak     int       `json:"longest_streak"`
	CreatedAt         time.Time `json:"created_at"`
	AllStages         [5]string `json:"all_stages"`
	NextStageProgress int       `json:"next_stage_progress"`
}

// Overview summarises the whole garden
type Overview struct {
	Plants         []PlantInfo `json:"plants"`
	TotalPlants    int         `json:"total_plants"`
	HealthyPlants  int         `json:"healthy_plants"`
	BloomingPlants int         `json:"blooming_plants"`
	GardenHealth   int         `json:"garden_health"`
}

// Manager applies the plant rules to stored garden state
type Manager struct {
	store storage.Provider
	now   utils.Clock
}

func NewManager(store storage.Provider, now utils.Clock) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{store: store, now: now}
}

func (m *Manager) plantInfo(h models.Habit, s models.GardenState, today time.Time) PlantInfo {
	return PlantInfo{
		HabitID:       h.ID,
		Name:          h.Name,
		Icon:          h.Icon,
		PlantIcon:     StageIcon(h.PlantType, s.Stage),
		PlantType:     h.PlantType,
		Category:      h.Category,
		Stage:         s.Stage,
		StageName:     StageName(s.Stage),
		Health:        s.PlantHealth,
		Growth:        s.PlantGrowth,
		NeedsWater:    NeedsWater(s.LastWatered, today),
		LastWatered:   s.LastWatered,
		CurrentStreak: h.CurrentStreak,
	}
}

// defaultState stands in for a habit whose plant row is missing.
func defaultState(h models.Habit) models.GardenState {
	return models.GardenState{
		UserID:      h.UserID,
		HabitID:     h.ID,
		PlantHealth: constants.InitialPlantHealth,
		Stage:       constants.MinStage,
	}
}

// Overview lists the plants of all active habits with garden-wide counts.
func (m *Manager) Overview(userID int64) (Overview, error) {
	today := m.now()
	habits, err := m.store.GetHabits(userID, true)
	if err != nil {
		return Overview{}, fmt.Errorf("failed to load habits: %w", err)
	}
	states, err := m.store.GetGardenStates(userID)
	if err != nil {
		return Overview{}, fmt.Errorf("failed to load garden: %w", err)
	}
	day := utils.FormatDate(today)
	records, err := m.store.GetRecordsForUser(userID, day, day)
	if err != nil {
		return Overview{}, fmt.Errorf("failed to load today's records: %w", err)
	}

	stateByHabit := make(map[int64]models.GardenState, len(states))
	for _, s := range states {
		stateByHabit[s.HabitID] = s
	}
	doneToday := make(map[int64]bool)
	for _, r := range records {
		if r.Completed {
			doneToday[r.HabitID] = true
		}
	}

	ov := Overview{Plants: make([]PlantInfo, 0, len(habits))}
	for _, h := range habits {
		s, ok := stateByHabit[h.ID]
		if !ok {
			s = defaultState(h)
		}
		p := m.plantInfo(h, s, today)
		p.CompletedToday = doneToday[h.ID]
		ov.Plants = append(ov.Plants, p)

		if p.Health >= constants.HealthyThreshold {
			ov.HealthyPlants++
		}
		if p.Stage >= constants.BloomingStage {
			ov.BloomingPlants++
		}
	}
	ov.TotalPlants = len(ov.Plants)
	if ov.TotalPlants > 0 {
		ov.GardenHealth = int(math.Round(float64(ov.HealthyPlants) * 100 / float64(ov.TotalPlants)))
	}
	return ov, nil
}

// PlantDetail returns one plant with its history and stage progress.
func (m *Manager) PlantDetail(habitID int64) (PlantDetail, error) {
	h, err := m.store.GetHabit(habitID)
	if err != nil {
		return PlantDetail{}, err
	}
	s, err := m.store.GetGardenState(habitID)
	if err != nil {
		s = defaultState(h)
	}

	today := m.now()
	info := m.plantInfo(h, s, today)
	if rec, err := m.store.GetRecord(habitID, utils.FormatDate(today)); err == nil {
		info.CompletedToday = rec.Completed
	}

	plant, ok := constants.PlantTypes[h.PlantType]
	if !ok {
		plant = constants.PlantTypes[constants.DefaultPlantType]
	}
	return PlantDetail{
		PlantInfo:         info,
		TotalCompleted:    h.TotalCompleted,
		LongestStreak:     h.LongestStreak,
		CreatedAt:         h.CreatedAt,
		AllStages:         plant.Stages,
		NextStageProgress: NextStageProgress(s),
	}, nil
}

// WaterPlant applies one watering to the habit's plant.
func (m *Manager) WaterPlant(habitID int64) (PlantInfo, error) {
	h, err := m.store.GetHabit(habitID)
	if err != nil {
		return PlantInfo{}, err
	}

	today := m.now()
	s, err := m.store.UpdateGardenState(habitID, func(s *models.GardenState) bool {
		*s = Water(*s, today)
		return true
	})
	if err != nil {
		return PlantInfo{}, fmt.Errorf("failed to water plant: %w", err)
	}

	logger.Debug("Watered plant", "habit", habitID, "growth", s.PlantGrowth, "health", s.PlantHealth, "stage", s.Stage)
	return m.plantInfo(h, s, today), nil
}

// UpdateAllPlantsHealth decays every plant of the user and returns how many
// lost health.
func (m *Manager) UpdateAllPlantsHealth(userID int64) (int, error) {
	today := m.now()
	states, err := m.store.GetGardenStates(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load garden: %w", err)
	}

	decayed := 0
	for _, st := range states {
		changed := false
		if _, err := m.store.UpdateGardenState(st.HabitID, func(s *models.GardenState) bool {
			*s, changed = Decay(*s, today)
			return changed
		}); err != nil {
			return decayed, fmt.Errorf("failed to decay plant for habit %d: %w", st.HabitID, err)
		}
		if changed {
			decayed++
		}
	}

	logger.Info("Garden health sweep finished", "plants", len(states), "decayed", decayed)
	return decayed, nil
}

// SweepIfDue runs the health decay at most once per calendar day. It reports
// whether a sweep ran.
func (m *Manager) SweepIfDue(userID int64) (bool, int, error) {
	day := utils.FormatDate(m.now())
	last, err := m.store.GetSetting(constants.SettingLastDecaySweep)
	if err == nil && last == day {
		return false, 0, nil
	}

	decayed, err := m.UpdateAllPlantsHealth(userID)
	if err != nil {
		return false, decayed, err
	}
	if err := m.store.SetSetting(constants.SettingLastDecaySweep, day); err != nil {
		return true, decayed, err
	}
	return true, decayed, nil
}

// ByCategory returns the garden's plants in one category.
func (m *Manager) ByCategory(userID int64, category constants.Category) ([]PlantInfo, error) {
	return m.filter(userID, func(p PlantInfo) bool { return p.Category == category })
}

// WiltingPlants returns plants that are unhealthy or thirsty.
func (m *Manager) WiltingPlants(userID int64) ([]PlantInfo, error) {
	return m.filter(userID, func(p PlantInfo) bool {
		return p.Health < constants.HealthyThreshold || p.NeedsWater
	})
}

func (m *Manager) filter(userID int64, keep func(PlantInfo) bool) ([]PlantInfo, error) {
	ov, err := m.Overview(userID)
	if err != nil {
		return nil, err
	}
	var out []PlantInfo
	for _, p := range ov.Plants {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}
