package api

import (
	"github.com/gin-gonic/gin"

	"github.com/julianstephens/habitbloom/internal/garden"
)

func (s *Server) gardenOverview(c *gin.Context) {
	ov, err := s.garden.Overview(s.opts.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, ov)
}

func (s *Server) wilting(c *gin.Context) {
	plants, err := s.garden.WiltingPlants(s.opts.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if plants == nil {
		plants = []garden.PlantInfo{}
	}
	success(c, plants)
}

func (s *Server) plantDetail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := s.garden.PlantDetail(id)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, p)
}

func (s *Server) water(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := s.garden.WaterPlant(id)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, p)
}
