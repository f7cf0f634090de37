package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cppla/discussions/events"
	"github.com/cppla/discussions/utils"
)

const (
	minTitleLength      = 6
	maxTitleLength      = 255
	minContentLength    = 6
	minPostCreateLength = 6
	minPostUpdateLength = 1
	maxColorLength      = 32
	publishTimeout      = 2 * time.Second
)

// Settings is the explicit configuration shared by the services.
type Settings struct {
	Categories      Categories
	Throttle        Throttle
	DiscussionPager Pager
	PostPager       Pager
	Editor          EditorKind
	// Now defaults to time.Now.
	Now func() time.Time
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// validateText enforces required + rune length bounds on a trimmed value. max 0 means unbounded.
func validateText(field, value string, min, max int) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return newValidationError(field, "%s is required", field)
	}
	n := utf8.RuneCountInString(v)
	if n < min {
		return newValidationError(field, "%s must be at least %d characters", field, min)
	}
	if max > 0 && n > max {
		return newValidationError(field, "%s may not be longer than %d characters", field, max)
	}
	return nil
}

// publish hands evt to sink without letting a slow or failing sink affect the caller.
func publish(ctx context.Context, sink events.Sink, evt events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			utils.Sugar.Errorf("event sink panicked type=%s err=%v", evt.Type, r)
		}
	}()
	if err := sink.Publish(ctx, evt); err != nil {
		utils.Sugar.Warnf("event publish failed type=%s id=%s err=%v", evt.Type, evt.ID, err)
	}
}

func wrapStorage(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
