package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/discussions/events"
	"github.com/cppla/discussions/models"
	"github.com/cppla/discussions/utils"
)

// DiscussionService owns discussions, their subscriptions and the browse query.
type DiscussionService struct {
	db       *gorm.DB
	settings Settings
	sink     events.Sink
}

// NewDiscussionService wires the service. A nil sink drops events.
func NewDiscussionService(db *gorm.DB, settings Settings, sink events.Sink) *DiscussionService {
	if sink == nil {
		sink = events.Nop
	}
	return &DiscussionService{db: db, settings: settings, sink: sink}
}

// Settings exposes the configuration the service was built with.
func (s *DiscussionService) Settings() Settings {
	return s.settings
}

// CreateDiscussionInput is what a user submits for a new thread.
type CreateDiscussionInput struct {
	Title        string
	Content      string
	CategorySlug string
	Color        string
}

// Validate checks lengths and that a non-empty category is configured.
func (in CreateDiscussionInput) Validate(categories Categories) error {
	if err := validateText("title", in.Title, minTitleLength, maxTitleLength); err != nil {
		return err
	}
	if err := validateText("content", in.Content, minContentLength, 0); err != nil {
		return err
	}
	if utf8.RuneCountInString(in.Color) > maxColorLength {
		return newValidationError("color", "color may not be longer than %d characters", maxColorLength)
	}
	return validateCategory(categories, in.CategorySlug)
}

func validateCategory(categories Categories, slug string) error {
	if slug != "" && !categories.Exists(slug) {
		return newValidationError("category_slug", "category %q does not exist", slug)
	}
	return nil
}

// Create stores a new discussion owned by actorID and publishes discussion.created.
func (s *DiscussionService) Create(ctx context.Context, in CreateDiscussionInput, actorID uint) (*models.Discussion, error) {
	if actorID == 0 {
		return nil, ErrUnauthenticated
	}
	if err := in.Validate(s.settings.Categories); err != nil {
		return nil, err
	}

	now := s.settings.now()
	if err := s.checkThrottle(ctx, actorID, now); err != nil {
		return nil, err
	}

	base := Slugify(in.Title)
	slug, err := uniqueSlug(ctx, s.db, base, now)
	if err != nil {
		return nil, wrapStorage("lookup slug", err)
	}

	d := &models.Discussion{
		UserID:    actorID,
		Title:     strings.TrimSpace(in.Title),
		Slug:      slug,
		Content:   in.Content,
		Color:     in.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.CategorySlug != "" {
		category := in.CategorySlug
		d.CategorySlug = &category
	}

	err = s.insert(ctx, d)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// The unique index also covers soft-deleted rows; retry once with a suffix.
		d.ID = 0
		d.Slug = suffixSlug(base, now)
		err = s.insert(ctx, d)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("%w: slug %q is already taken", ErrConflict, d.Slug)
	}
	if err != nil {
		return nil, wrapStorage("create discussion", err)
	}

	utils.Sugar.Infof("discussion created id=%d slug=%s user=%d", d.ID, d.Slug, actorID)
	publish(ctx, s.sink, events.New(events.DiscussionCreated, d.ID, d.Slug, 0, actorID, now))
	return d, nil
}

func (s *DiscussionService) insert(ctx context.Context, d *models.Discussion) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(d).Error
}

func (s *DiscussionService) checkThrottle(ctx context.Context, actorID uint, now time.Time) error {
	if !s.settings.Throttle.Enabled {
		return nil
	}
	var last models.Discussion
	err := s.db.WithContext(ctx).
		Select("id", "created_at").
		Where("user_id = ?", actorID).
		Order("created_at DESC").Order("id DESC").
		Limit(1).Find(&last).Error
	if err != nil {
		return wrapStorage("load last discussion", err)
	}
	if last.ID == 0 {
		return nil
	}
	return s.settings.Throttle.Check(KindDiscussion, &last.CreatedAt, now)
}

// FindBySlug returns a live discussion with its author.
func (s *DiscussionService) FindBySlug(ctx context.Context, slug string) (*models.Discussion, error) {
	var d models.Discussion
	err := s.db.WithContext(ctx).Preload("User").Where("slug = ?", slug).First(&d).Error
	if err != nil {
		return nil, notFoundOr(err, "load discussion")
	}
	return &d, nil
}

// FindByID returns a live discussion.
func (s *DiscussionService) FindByID(ctx context.Context, id uint) (*models.Discussion, error) {
	return findDiscussion(ctx, s.db, id)
}

func findDiscussion(ctx context.Context, db *gorm.DB, id uint) (*models.Discussion, error) {
	var d models.Discussion
	if err := db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, notFoundOr(err, "load discussion")
	}
	return &d, nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return wrapStorage(op, err)
}

// loadOwned fetches a live discussion and applies the moderation guard.
func (s *DiscussionService) loadOwned(ctx context.Context, id, actorID uint) (*models.Discussion, error) {
	if actorID == 0 {
		return nil, ErrUnauthenticated
	}
	d, err := findDiscussion(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !CanModify(actorID, d.UserID) {
		utils.Sugar.Infof("discussion modify denied id=%d actor=%d owner=%d", id, actorID, d.UserID)
		return nil, ErrForbidden
	}
	return d, nil
}

// Update replaces title and content. The slug is kept.
func (s *DiscussionService) Update(ctx context.Context, id uint, title, content string, actorID uint) (*models.Discussion, error) {
	d, err := s.loadOwned(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if err := validateText("title", title, minTitleLength, maxTitleLength); err != nil {
		return nil, err
	}
	if err := validateText("content", content, minContentLength, 0); err != nil {
		return nil, err
	}

	now := s.settings.now()
	err = s.db.WithContext(ctx).Model(d).Omit(clause.Associations).Updates(map[string]any{
		"title":      strings.TrimSpace(title),
		"content":    content,
		"updated_at": now,
	}).Error
	if err != nil {
		return nil, wrapStorage("update discussion", err)
	}
	d.Title = strings.TrimSpace(title)
	d.Content = content
	d.UpdatedAt = now
	return d, nil
}

// SetCategory files the discussion under slug; an empty slug clears the category.
func (s *DiscussionService) SetCategory(ctx context.Context, id uint, slug string, actorID uint) (*models.Discussion, error) {
	d, err := s.loadOwned(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if err := validateCategory(s.settings.Categories, slug); err != nil {
		return nil, err
	}

	var value *string
	if slug != "" {
		value = &slug
	}
	now := s.settings.now()
	err = s.db.WithContext(ctx).Model(d).Omit(clause.Associations).Updates(map[string]any{
		"category_slug": value,
		"updated_at":    now,
	}).Error
	if err != nil {
		return nil, wrapStorage("update discussion category", err)
	}
	d.CategorySlug = value
	d.UpdatedAt = now
	return d, nil
}

// SoftDelete hides the discussion. Its posts stay in storage.
func (s *DiscussionService) SoftDelete(ctx context.Context, id uint, actorID uint) error {
	d, err := s.loadOwned(ctx, id, actorID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(d).Error; err != nil {
		return wrapStorage("delete discussion", err)
	}
	utils.Sugar.Infof("discussion deleted id=%d user=%d", id, actorID)
	return nil
}

// ToggleSubscription detaches the user if subscribed, attaches otherwise,
// and reports the resulting state.
func (s *DiscussionService) ToggleSubscription(ctx context.Context, discussionID, userID uint) (bool, error) {
	if userID == 0 {
		return false, ErrUnauthenticated
	}
	if _, err := findDiscussion(ctx, s.db, discussionID); err != nil {
		return false, err
	}

	var subscribed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("discussion_id = ? AND user_id = ?", discussionID, userID).Delete(&models.Subscription{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			subscribed = false
			return nil
		}
		subscribed = true
		return subscribe(tx, discussionID, userID, s.settings.now())
	})
	if err != nil {
		return false, wrapStorage("toggle subscription", err)
	}
	return subscribed, nil
}

// subscribe attaches the pair unless it already exists.
func subscribe(tx *gorm.DB, discussionID, userID uint, now time.Time) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Subscription{
		DiscussionID: discussionID,
		UserID:       userID,
		CreatedAt:    now,
	}).Error
}

// IsSubscribed reports whether the user receives notifications for the discussion.
func (s *DiscussionService) IsSubscribed(ctx context.Context, discussionID, userID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("discussion_id = ? AND user_id = ?", discussionID, userID).
		Count(&count).Error
	if err != nil {
		return false, wrapStorage("check subscription", err)
	}
	return count > 0, nil
}

// Participants returns the owner followed by every post author, each once,
// in order of first appearance.
func (s *DiscussionService) Participants(ctx context.Context, discussionID uint) ([]uint, error) {
	d, err := findDiscussion(ctx, s.db, discussionID)
	if err != nil {
		return nil, err
	}
	var authors []uint
	err = s.db.WithContext(ctx).Model(&models.Post{}).
		Where("discussion_id = ?", discussionID).
		Order("created_at ASC").Order("id ASC").
		Pluck("user_id", &authors).Error
	if err != nil {
		return nil, wrapStorage("load participants", err)
	}
	return utils.UniqueUint(append([]uint{d.UserID}, authors...)), nil
}

// Users loads host users in the order of ids. Unknown ids are skipped.
func (s *DiscussionService) Users(ctx context.Context, ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, wrapStorage("load users", err)
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	ordered := make([]models.User, 0, len(users))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			ordered = append(ordered, u)
		}
	}
	return ordered, nil
}

// List runs the browse query: search AND category, sorted by created_at, first Limit rows.
func (s *DiscussionService) List(ctx context.Context, q ListQuery) (*DiscussionPage, error) {
	pager := s.settings.DiscussionPager
	limit := pager.Limit(q.Limit)
	order := ParseSort(string(q.Sort), SortDesc)

	filtered := func() *gorm.DB {
		tx := s.db.WithContext(ctx).Model(&models.Discussion{})
		if q.Search != "" {
			pattern := likePattern(q.Search)
			tx = tx.Where("(LOWER(title) LIKE ? ESCAPE '"+likeEscape+"' OR LOWER(content) LIKE ? ESCAPE '"+likeEscape+"')", pattern, pattern)
		}
		if q.Category != "" {
			tx = tx.Where("category_slug = ?", q.Category)
		}
		return tx
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, wrapStorage("count discussions", err)
	}

	items := []models.Discussion{}
	dir := " " + strings.ToUpper(string(order))
	err := filtered().Preload("User").
		Order("created_at" + dir).Order("id" + dir).
		Limit(limit).Find(&items).Error
	if err != nil {
		return nil, wrapStorage("list discussions", err)
	}
	if err := s.fillReplies(ctx, items); err != nil {
		return nil, err
	}

	page := &DiscussionPage{Items: items, Total: total, Limit: limit, Sort: order}
	if total > int64(limit) {
		page.HasMore = true
		page.NextLimit = pager.Next(limit)
	}
	return page, nil
}

func (s *DiscussionService) fillReplies(ctx context.Context, items []models.Discussion) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uint, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	var rows []struct {
		DiscussionID uint
		Total        int64
	}
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Select("discussion_id, COUNT(*) AS total").
		Where("discussion_id IN ?", ids).
		Group("discussion_id").
		Scan(&rows).Error
	if err != nil {
		return wrapStorage("count replies", err)
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.DiscussionID] = r.Total
	}
	for i := range items {
		items[i].Replies = counts[items[i].ID]
	}
	return nil
}
