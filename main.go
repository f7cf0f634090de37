package main

import (
	"github.com/cppla/discussions/config"
	"github.com/cppla/discussions/events"
	"github.com/cppla/discussions/routes"
	"github.com/cppla/discussions/services"
	"github.com/cppla/discussions/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase(cfg)

	// Redis is optional: without it lists are not cached and events only reach the log
	var sink events.Sink = events.NewLogSink(utils.Logger)
	if rc := utils.InitRedis(cfg); rc != nil {
		sink = events.NewRedisSink(rc, cfg.EventsChannel)
	}

	settings := newSettings(cfg)
	discussions := services.NewDiscussionService(db, settings, sink)
	posts := services.NewPostService(db, settings, sink)

	r := routes.SetupRouter(cfg, discussions, posts)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}

// newSettings converts the loaded configuration into the services' explicit settings.
func newSettings(cfg config.AppConfig) services.Settings {
	cats := make([]services.Category, 0, len(cfg.Categories))
	for slug, c := range cfg.Categories {
		cats = append(cats, services.Category{Slug: slug, Title: c.Title, Icon: c.Icon})
	}
	return services.Settings{
		Categories: services.NewCategories(cats...),
		Throttle: services.Throttle{
			Enabled:  cfg.LimitTimeBetweenPosts,
			Cooldown: cfg.TimeBetweenPostsMinutes,
		},
		DiscussionPager: services.Pager{Increment: cfg.LoadMoreDiscussions},
		PostPager:       services.Pager{Increment: cfg.LoadMorePosts},
		Editor:          services.ParseEditor(cfg.Editor),
	}
}
