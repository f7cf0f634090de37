package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cppla/discussions/config"
	"github.com/cppla/discussions/services"
)

func TestNewSettings(t *testing.T) {
	cfg := config.AppConfig{
		Editor:                  "richeditor",
		LoadMoreDiscussions:     10,
		LoadMorePosts:           5,
		LimitTimeBetweenPosts:   true,
		TimeBetweenPostsMinutes: 5,
		Categories: map[string]config.Category{
			"general": {Title: "General", Icon: "chat"},
			"ideas":   {Title: "Ideas", Icon: "bulb"},
		},
	}

	s := newSettings(cfg)

	assert.Equal(t, services.EditorRich, s.Editor)
	assert.Equal(t, services.Throttle{Enabled: true, Cooldown: 5}, s.Throttle)
	assert.Equal(t, 10, s.DiscussionPager.Limit(0))
	assert.Equal(t, 5, s.PostPager.Limit(0))
	assert.Equal(t, []services.Category{
		{Slug: "general", Title: "General", Icon: "chat"},
		{Slug: "ideas", Title: "Ideas", Icon: "bulb"},
	}, s.Categories.All())
}
