package api

import (
	"github.com/gin-gonic/gin"

	"github.com/julianstephens/habitbloom/internal/backup"
	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/models"
	"github.com/julianstephens/habitbloom/internal/utils"
)

type profileRequest struct {
	Username      *string `json:"username"`
	AvatarColor   *string `json:"avatar_color"`
	DailyGoalTime *string `json:"daily_goal_time"`
}

type settingsRequest struct {
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	Timezone             *string `json:"timezone"`
	Theme                *string `json:"theme"`
}

func (s *Server) getProfile(c *gin.Context) {
	u, err := s.store.GetUser(s.opts.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, u)
}

func (s *Server) updateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	u, err := s.store.GetUser(s.opts.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.AvatarColor != nil {
		u.AvatarColor = *req.AvatarColor
	}
	if req.DailyGoalTime != nil {
		u.DailyGoalTime = *req.DailyGoalTime
	}
	if err := s.store.UpdateUser(u); err != nil {
		respondError(c, err)
		return
	}
	success(c, u)
}

func (s *Server) getSettings(c *gin.Context) {
	settings, err := s.store.GetSettings()
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, settings)
}

func (s *Server) updateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	settings, err := s.store.GetSettings()
	if err != nil {
		respondError(c, err)
		return
	}
	if req.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.Timezone != nil {
		if !utils.ValidateTimezone(*req.Timezone) {
			badRequest(c, "invalid timezone: "+*req.Timezone)
			return
		}
		settings.Timezone = *req.Timezone
	}
	if req.Theme != nil {
		if _, ok := constants.Themes[*req.Theme]; !ok {
			badRequest(c, "unknown theme: "+*req.Theme)
			return
		}
		settings.Theme = *req.Theme
	}
	if err := s.store.SaveSettings(settings); err != nil {
		respondError(c, err)
		return
	}
	success(c, settings)
}

func (s *Server) export(c *gin.Context) {
	data, err := backup.Export(s.store)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, data)
}

func (s *Server) importData(c *gin.Context) {
	var data models.ExportData
	if err := c.ShouldBindJSON(&data); err != nil {
		badRequest(c, "malformed export document: "+err.Error())
		return
	}
	if err := backup.Import(s.store, data); err != nil {
		respondError(c, err)
		return
	}
	success(c, data.Counts())
}
