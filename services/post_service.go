package services

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/discussions/events"
	"github.com/cppla/discussions/models"
	"github.com/cppla/discussions/utils"
)

// PostService owns replies inside discussions.
type PostService struct {
	db       *gorm.DB
	settings Settings
	sink     events.Sink
}

// NewPostService wires the service. A nil sink drops events.
func NewPostService(db *gorm.DB, settings Settings, sink events.Sink) *PostService {
	if sink == nil {
		sink = events.Nop
	}
	return &PostService{db: db, settings: settings, sink: sink}
}

// Create answers a live discussion. The author is subscribed to it and the
// discussion's last_reply_at is bumped in the same transaction.
func (s *PostService) Create(ctx context.Context, discussionID uint, content string, actorID uint) (*models.Post, error) {
	if actorID == 0 {
		return nil, ErrUnauthenticated
	}
	if err := validateText("content", content, minPostCreateLength, 0); err != nil {
		return nil, err
	}
	d, err := findDiscussion(ctx, s.db, discussionID)
	if err != nil {
		return nil, err
	}

	now := s.settings.now()
	if err := s.checkThrottle(ctx, actorID, now); err != nil {
		return nil, err
	}

	post := &models.Post{
		DiscussionID: d.ID,
		UserID:       actorID,
		Content:      content,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Discussion{}).Where("id = ?", d.ID).UpdateColumn("last_reply_at", now).Error; err != nil {
			return err
		}
		return subscribe(tx, d.ID, actorID, now)
	})
	if err != nil {
		return nil, wrapStorage("create post", err)
	}

	utils.Sugar.Infof("post created id=%d discussion=%d user=%d", post.ID, d.ID, actorID)
	publish(ctx, s.sink, events.New(events.PostCreated, d.ID, d.Slug, post.ID, actorID, now))
	return post, nil
}

func (s *PostService) checkThrottle(ctx context.Context, actorID uint, now time.Time) error {
	if !s.settings.Throttle.Enabled {
		return nil
	}
	var last models.Post
	err := s.db.WithContext(ctx).
		Select("id", "created_at").
		Where("user_id = ?", actorID).
		Order("created_at DESC").Order("id DESC").
		Limit(1).Find(&last).Error
	if err != nil {
		return wrapStorage("load last post", err)
	}
	if last.ID == 0 {
		return nil
	}
	return s.settings.Throttle.Check(KindPost, &last.CreatedAt, now)
}

// FindByID returns a post whose discussion is still live.
func (s *PostService) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	var p models.Post
	if err := s.db.WithContext(ctx).Preload("User").First(&p, id).Error; err != nil {
		return nil, notFoundOr(err, "load post")
	}
	if _, err := findDiscussion(ctx, s.db, p.DiscussionID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostService) loadOwned(ctx context.Context, id, actorID uint) (*models.Post, error) {
	if actorID == 0 {
		return nil, ErrUnauthenticated
	}
	p, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanModify(actorID, p.UserID) {
		utils.Sugar.Infof("post modify denied id=%d actor=%d owner=%d", id, actorID, p.UserID)
		return nil, ErrForbidden
	}
	return p, nil
}

// Update replaces the post body. Unlike Create it only requires non-empty content.
func (s *PostService) Update(ctx context.Context, id uint, content string, actorID uint) (*models.Post, error) {
	p, err := s.loadOwned(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if err := validateText("content", content, minPostUpdateLength, 0); err != nil {
		return nil, err
	}

	now := s.settings.now()
	err = s.db.WithContext(ctx).Model(p).Omit(clause.Associations).Updates(map[string]any{
		"content":    content,
		"updated_at": now,
	}).Error
	if err != nil {
		return nil, wrapStorage("update post", err)
	}
	p.Content = content
	p.UpdatedAt = now
	return p, nil
}

// Delete removes the post permanently.
func (s *PostService) Delete(ctx context.Context, id uint, actorID uint) error {
	p, err := s.loadOwned(ctx, id, actorID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Post{}, p.ID).Error; err != nil {
		return wrapStorage("delete post", err)
	}
	utils.Sugar.Infof("post deleted id=%d discussion=%d user=%d", p.ID, p.DiscussionID, actorID)
	return nil
}

// List returns the first limit posts of a live discussion, oldest first.
func (s *PostService) List(ctx context.Context, discussionID uint, limit int) (*PostPage, error) {
	if _, err := findDiscussion(ctx, s.db, discussionID); err != nil {
		return nil, err
	}
	pager := s.settings.PostPager
	limit = pager.Limit(limit)

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Where("discussion_id = ?", discussionID).Count(&total).Error; err != nil {
		return nil, wrapStorage("count posts", err)
	}
	items := []models.Post{}
	err := s.db.WithContext(ctx).Preload("User").
		Where("discussion_id = ?", discussionID).
		Order("created_at ASC").Order("id ASC").
		Limit(limit).Find(&items).Error
	if err != nil {
		return nil, wrapStorage("list posts", err)
	}

	page := &PostPage{Items: items, Total: total, Limit: limit}
	if total > int64(limit) {
		page.HasMore = true
		page.NextLimit = pager.Next(limit)
	}
	return page, nil
}
