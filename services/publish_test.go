package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/discussions/events"
)

func TestCreate_SurvivesFailingSinks(t *testing.T) {
	sinks := map[string]events.Sink{
		"error": events.SinkFunc(func(context.Context, events.Event) error {
			return errors.New("broker down")
		}),
		"panic": events.SinkFunc(func(context.Context, events.Event) error {
			panic("sink exploded")
		}),
	}
	for name, sink := range sinks {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			settings := f.discussions.Settings()
			discussions := NewDiscussionService(f.db, settings, sink)
			posts := NewPostService(f.db, settings, sink)

			d, err := discussions.Create(ctx, CreateDiscussionInput{Title: "Hello World", Content: "First post here"}, alice)
			require.NoError(t, err)
			require.NotNil(t, d)
			assert.Equal(t, "Hello World", f.rawDiscussion(t, d.ID).Title)

			p, err := posts.Create(ctx, d.ID, "a reply that must stick", bob)
			require.NoError(t, err)
			stored, err := posts.FindByID(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, "a reply that must stick", stored.Content)
		})
	}
}

func TestCreate_SinkSeesCommittedRow(t *testing.T) {
	f := newFixture(t)
	var seen int64
	sink := events.SinkFunc(func(ctx context.Context, evt events.Event) error {
		return f.db.WithContext(ctx).Table("discussions").Where("id = ?", evt.DiscussionID).Count(&seen).Error
	})
	discussions := NewDiscussionService(f.db, f.discussions.Settings(), sink)

	_, err := discussions.Create(context.Background(), CreateDiscussionInput{Title: "Hello World", Content: "First post here"}, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seen)
}
