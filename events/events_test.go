package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := New(PostCreated, 7, "hello-world", 9, 3, at)
	b := New(PostCreated, 7, "hello-world", 9, 3, at)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, PostCreated, a.Type)
	assert.Equal(t, uint(7), a.DiscussionID)
	assert.Equal(t, uint(9), a.PostID)
	assert.Equal(t, at, a.OccurredAt)
}

func TestLogSink(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewLogSink(zap.New(core))

	require.NoError(t, sink.Publish(context.Background(), New(DiscussionCreated, 1, "s", 0, 2, time.Now())))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "domain event", entries[0].Message)
	assert.Equal(t, string(DiscussionCreated), entries[0].ContextMap()["type"])
}
