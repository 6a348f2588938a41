package api

import (
	"github.com/gin-gonic/gin"
)

type reminderRequest struct {
	Time string `json:"time" binding:"required"`
	Days []int  `json:"days" binding:"omitempty,dive,min=1,max=7"`
}

type updateReminderRequest struct {
	Time string `json:"time"`
	Days []int  `json:"days" binding:"omitempty,dive,min=1,max=7"`
}

func (s *Server) listReminders(c *gin.Context) {
	list, err := s.reminders.AllScheduled()
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, list)
}

func (s *Server) listHabitReminders(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if _, err := s.habits.GetHabit(id); err != nil {
		respondError(c, err)
		return
	}
	list, err := s.reminders.List(id)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, list)
}

func (s *Server) createReminder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	r, err := s.reminders.Create(id, req.Time, req.Days)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, r)
}

func (s *Server) getReminder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	r, err := s.reminders.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, r)
}

func (s *Server) updateReminder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Time == "" && len(req.Days) == 0 {
		badRequest(c, "no fields to update")
		return
	}
	r, err := s.reminders.Update(id, req.Time, req.Days)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, r)
}

func (s *Server) toggleReminder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	r, err := s.reminders.Toggle(id)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, r)
}

func (s *Server) deleteReminder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := s.reminders.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	success(c, gin.H{"reminder_id": id, "deleted": true})
}
