package services

import (
	"context"

	"github.com/cppla/discussions/models"
)

// ForumStats are module-wide counters over live discussions.
type ForumStats struct {
	Discussions   int64 `json:"discussion_count"`
	Posts         int64 `json:"post_count"`
	Subscriptions int64 `json:"subscription_count"`
}

// DiscussionStats are the counters shown next to a single discussion.
type DiscussionStats struct {
	Replies      int64 `json:"replies"`
	Participants int64 `json:"participants"`
	Subscribers  int64 `json:"subscribers"`
}

// Stats counts live discussions and the posts and subscriptions attached to them.
func (s *DiscussionService) Stats(ctx context.Context) (ForumStats, error) {
	var st ForumStats
	db := s.db.WithContext(ctx)
	live := db.Model(&models.Discussion{}).Select("id")

	if err := db.Model(&models.Discussion{}).Count(&st.Discussions).Error; err != nil {
		return st, wrapStorage("count discussions", err)
	}
	if err := db.Model(&models.Post{}).Where("discussion_id IN (?)", live).Count(&st.Posts).Error; err != nil {
		return st, wrapStorage("count posts", err)
	}
	if err := db.Model(&models.Subscription{}).Where("discussion_id IN (?)", live).Count(&st.Subscriptions).Error; err != nil {
		return st, wrapStorage("count subscriptions", err)
	}
	return st, nil
}

// DiscussionStats counts replies, distinct participants and subscribers of one discussion.
func (s *DiscussionService) DiscussionStats(ctx context.Context, discussionID uint) (DiscussionStats, error) {
	var st DiscussionStats
	participants, err := s.Participants(ctx, discussionID)
	if err != nil {
		return st, err
	}
	st.Participants = int64(len(participants))

	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Post{}).Where("discussion_id = ?", discussionID).Count(&st.Replies).Error; err != nil {
		return st, wrapStorage("count replies", err)
	}
	if err := db.Model(&models.Subscription{}).Where("discussion_id = ?", discussionID).Count(&st.Subscribers).Error; err != nil {
		return st, wrapStorage("count subscribers", err)
	}
	return st, nil
}
