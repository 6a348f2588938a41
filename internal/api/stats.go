package api

import (
	"github.com/gin-gonic/gin"

	"github.com/julianstephens/habitbloom/internal/constants"
)

func (s *Server) overview(c *gin.Context) {
	ov, err := s.stats.Overview(s.opts.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, ov)
}

func (s *Server) weekly(c *gin.Context) {
	weeksAgo, ok := intQuery(c, "weeks_ago", 0)
	if !ok {
		return
	}
	ws, err := s.stats.Weekly(s.opts.UserID, weeksAgo)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, ws)
}

func (s *Server) monthly(c *gin.Context) {
	year, month, ok := s.yearMonth(c)
	if !ok {
		return
	}
	ms, err := s.stats.Monthly(s.opts.UserID, year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, ms)
}

func (s *Server) ranking(c *gin.Context) {
	ranks, err := s.stats.Ranking(s.opts.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, ranks)
}

func (s *Server) categories(c *gin.Context) {
	cats, err := s.stats.CategoryStats(s.opts.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, cats)
}

func (s *Server) achievements(c *gin.Context) {
	list, err := s.stats.Achievements(s.opts.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, list)
}

func (s *Server) checkAchievements(c *gin.Context) {
	unlocked, err := s.stats.CheckAndUnlockAchievements(s.opts.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	s.metrics.recordUnlocks(unlocked)
	if unlocked == nil {
		unlocked = []constants.AchievementInfo{}
	}
	success(c, unlocked)
}
