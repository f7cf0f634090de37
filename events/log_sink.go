package events

import (
	"context"

	"go.uber.org/zap"
)

// LogSink writes events to a zap logger. Used when Redis is disabled.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(_ context.Context, evt Event) error {
	s.logger.Info("domain event",
		zap.String("id", evt.ID),
		zap.String("type", string(evt.Type)),
		zap.Uint("discussion_id", evt.DiscussionID),
		zap.Uint("post_id", evt.PostID),
		zap.Uint("user_id", evt.UserID),
	)
	return nil
}
