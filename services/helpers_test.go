package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cppla/discussions/config"
	"github.com/cppla/discussions/events"
	"github.com/cppla/discussions/models"
)

const (
	alice uint = 1
	bob   uint = 2
	carol uint = 3
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingSink struct {
	mu     sync.Mutex
	events []events.Event
}

func (s *recordingSink) Publish(_ context.Context, evt events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	return nil
}

func (s *recordingSink) Types() []events.Type {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]events.Type, len(s.events))
	for i, e := range s.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	db          *gorm.DB
	clock       *fakeClock
	sink        *recordingSink
	discussions *DiscussionService
	posts       *PostService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), config.GormConfig("silent"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	require.NoError(t, db.AutoMigrate(&models.User{}))
	require.NoError(t, db.Create([]models.User{
		{ID: alice, Username: "alice"},
		{ID: bob, Username: "bob"},
		{ID: carol, Username: "carol"},
	}).Error)
	return db
}

func testSettings(clock *fakeClock) Settings {
	return Settings{
		Categories: NewCategories(
			Category{Slug: "general", Title: "General", Icon: "chat"},
			Category{Slug: "ideas", Title: "Ideas", Icon: "bulb"},
		),
		DiscussionPager: Pager{Increment: 2},
		PostPager:       Pager{Increment: 2},
		Now:             clock.Now,
	}
}

func newFixture(t *testing.T, tweak ...func(*Settings)) *fixture {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	settings := testSettings(clock)
	for _, fn := range tweak {
		fn(&settings)
	}
	db := newTestDB(t)
	sink := &recordingSink{}
	return &fixture{
		db:          db,
		clock:       clock,
		sink:        sink,
		discussions: NewDiscussionService(db, settings, sink),
		posts:       NewPostService(db, settings, sink),
	}
}

func withThrottle(minutes int) func(*Settings) {
	return func(s *Settings) {
		s.Throttle = Throttle{Enabled: true, Cooldown: minutes}
	}
}

func (f *fixture) createDiscussion(t *testing.T, title, content string, owner uint) *models.Discussion {
	t.Helper()
	d, err := f.discussions.Create(context.Background(), CreateDiscussionInput{Title: title, Content: content}, owner)
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	return d
}

func (f *fixture) createPost(t *testing.T, d *models.Discussion, content string, owner uint) *models.Post {
	t.Helper()
	p, err := f.posts.Create(context.Background(), d.ID, content, owner)
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	return p
}

// rawDiscussion reads the row including soft-deleted state.
func (f *fixture) rawDiscussion(t *testing.T, id uint) models.Discussion {
	t.Helper()
	var d models.Discussion
	require.NoError(t, f.db.Unscoped().First(&d, id).Error)
	return d
}
