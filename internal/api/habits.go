package api

import (
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/models"
)

type createHabitRequest struct {
	Name            string `json:"name" binding:"required,max=100"`
	Category        string `json:"category"`
	Icon            string `json:"icon"`
	PlantType       string `json:"plant_type"`
	TargetFrequency int    `json:"target_frequency"`
	Difficulty      int    `json:"difficulty"`
}

type updateHabitRequest struct {
	Name            *string `json:"name" binding:"omitempty,max=100"`
	Category        *string `json:"category"`
	Icon            *string `json:"icon"`
	PlantType       *string `json:"plant_type"`
	TargetFrequency *int    `json:"target_frequency"`
	Difficulty      *int    `json:"difficulty"`
	IsActive        *bool   `json:"is_active"`
}

type checkInRequest struct {
	Notes string `json:"notes" binding:"max=500"`
	Date  string `json:"date"`
}

type createHabitResponse struct {
	Habit    models.Habit                `json:"habit"`
	Unlocked []constants.AchievementInfo `json:"unlocked_achievements"`
}

// idParam parses a positive path id, writing a 400 when it is malformed.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// intQuery reads an optional integer query value.
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

// yearMonth reads year and month query values, defaulting to the current
// month.
func (s *Server) yearMonth(c *gin.Context) (int, time.Month, bool) {
	now := s.opts.Now()
	year, ok := intQuery(c, "year", now.Year())
	if !ok {
		return 0, 0, false
	}
	month, ok := intQuery(c, "month", int(now.Month()))
	if !ok {
		return 0, 0, false
	}
	if month < 1 || month > 12 {
		badRequest(c, "month must be between 1 and 12")
		return 0, 0, false
	}
	return year, time.Month(month), true
}

// bindOptionalJSON binds the body when there is one.
func bindOptionalJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return false
	}
	return true
}

func (s *Server) listHabits(c *gin.Context) {
	activeOnly := c.Query("all") != "true"
	habits, err := s.habits.ListHabits(s.opts.UserID, activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, habits)
}

func (s *Server) createHabit(c *gin.Context) {
	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	h, unlocked, err := s.habits.CreateHabit(models.Habit{
		UserID:          s.opts.UserID,
		Name:            req.Name,
		Category:        constants.Category(req.Category),
		Icon:            req.Icon,
		PlantType:       constants.PlantType(req.PlantType),
		TargetFrequency: req.TargetFrequency,
		Difficulty:      req.Difficulty,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	s.metrics.recordUnlocks(unlocked)
	created(c, createHabitResponse{Habit: h, Unlocked: unlocked})
}

func (s *Server) getHabit(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	h, err := s.habits.GetHabit(id)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, h)
}

func (s *Server) updateHabit(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	h, err := s.habits.UpdateHabit(id, models.HabitPatch{
		Name:            req.Name,
		Category:        req.Category,
		Icon:            req.Icon,
		PlantType:       req.PlantType,
		TargetFrequency: req.TargetFrequency,
		Difficulty:      req.Difficulty,
		IsActive:        req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, h)
}

func (s *Server) deleteHabit(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	hard := c.Query("hard") == "true"
	if err := s.habits.DeleteHabit(id, hard); err != nil {
		respondError(c, err)
		return
	}
	success(c, gin.H{"habit_id": id, "deleted": hard, "archived": !hard})
}

func (s *Server) checkIn(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req checkInRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	res, err := s.habits.CheckIn(id, req.Notes, req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	s.metrics.recordCheckIn(res.Unlocked)
	success(c, res)
}

func (s *Server) undoCheckIn(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	h, err := s.habits.UndoCheckIn(id, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, h)
}

func (s *Server) history(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	days, ok := intQuery(c, "days", 30)
	if !ok {
		return
	}
	hist, err := s.habits.History(id, days)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, hist)
}

func (s *Server) habitStats(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	year, month, ok := s.yearMonth(c)
	if !ok {
		return
	}
	ms, err := s.habits.CompletionStats(id, year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, ms)
}

func (s *Server) calendar(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	year, month, ok := s.yearMonth(c)
	if !ok {
		return
	}
	cal, err := s.stats.StreakCalendar(id, year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, cal)
}

func (s *Server) today(c *gin.Context) {
	items, err := s.habits.TodayStatus(s.opts.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, items)
}
