package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/discussions/services"
	"github.com/cppla/discussions/utils"
)

// StatsController provides forum-wide counters.
type StatsController struct {
	discussions *services.DiscussionService
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(discussions *services.DiscussionService) *StatsController {
	return &StatsController{discussions: discussions}
}

// GetStats returns discussion, post and subscription counts over live discussions.
func (s *StatsController) GetStats(ctx *gin.Context) {
	stats, err := s.discussions.Stats(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, stats)
}
