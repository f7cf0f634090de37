// Package events carries domain events out of the discussions module.
// Delivery is best effort: a failed publish never undoes the write that caused it.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type names a domain event.
type Type string

const (
	DiscussionCreated Type = "discussion.created"
	PostCreated       Type = "post.created"
)

// Event is the payload handed to sinks.
type Event struct {
	ID             string    `json:"id"`
	Type           Type      `json:"type"`
	DiscussionID   uint      `json:"discussion_id"`
	DiscussionSlug string    `json:"discussion_slug"`
	PostID         uint      `json:"post_id,omitempty"`
	UserID         uint      `json:"user_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// New stamps an event with a fresh id.
func New(t Type, discussionID uint, slug string, postID, userID uint, at time.Time) Event {
	return Event{
		ID:             uuid.NewString(),
		Type:           t,
		DiscussionID:   discussionID,
		DiscussionSlug: slug,
		PostID:         postID,
		UserID:         userID,
		OccurredAt:     at,
	}
}

// Sink receives published events.
type Sink interface {
	Publish(ctx context.Context, evt Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, evt Event) error

func (f SinkFunc) Publish(ctx context.Context, evt Event) error { return f(ctx, evt) }

// Nop drops every event.
var Nop Sink = SinkFunc(func(context.Context, Event) error { return nil })
