package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/discussions/services"
	"github.com/cppla/discussions/utils"
)

// ConfigController serves the configuration a client needs to render the forum.
type ConfigController struct {
	settings services.Settings
}

func NewConfigController(settings services.Settings) *ConfigController {
	return &ConfigController{settings: settings}
}

// GetCategories returns the configured categories sorted by slug.
func (c *ConfigController) GetCategories(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"items": c.settings.Categories.All()})
}

// GetConfig returns editor and load-more settings.
func (c *ConfigController) GetConfig(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"editor":                   c.settings.Editor.String(),
		"load_more":                c.settings.DiscussionPager.Limit(0),
		"load_more_posts":          c.settings.PostPager.Limit(0),
		"limit_time_between_posts": c.settings.Throttle.Enabled,
		"time_between_posts":       c.settings.Throttle.Cooldown,
	})
}
