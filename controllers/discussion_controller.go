package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/discussions/models"
	"github.com/cppla/discussions/services"
	"github.com/cppla/discussions/utils"
)

// DiscussionController serves browsing and owner actions on discussions.
type DiscussionController struct {
	discussions *services.DiscussionService
}

// NewDiscussionController creates a new DiscussionController instance.
func NewDiscussionController(discussions *services.DiscussionService) *DiscussionController {
	return &DiscussionController{discussions: discussions}
}

type discussionView struct {
	models.Discussion
	Category    *services.Category `json:"category"`
	ContentHTML string             `json:"content_html,omitempty"`
}

func (d *DiscussionController) view(disc models.Discussion) discussionView {
	settings := d.discussions.Settings()
	v := discussionView{Discussion: disc, ContentHTML: renderHTML(settings.Editor, disc.Content)}
	if cat, ok := settings.Categories.Lookup(disc.CategorySlug); ok {
		v.Category = &cat
	}
	return v
}

// ListDiscussions returns the browse list with search, category, sort and load-more limit.
func (d *DiscussionController) ListDiscussions(ctx *gin.Context) {
	d.list(ctx, strings.TrimSpace(ctx.Query("category")))
}

// ListByCategory is the browse list restricted to the category in the path.
func (d *DiscussionController) ListByCategory(ctx *gin.Context) {
	category := ctx.Param("category")
	if !d.discussions.Settings().Categories.Exists(category) {
		utils.Error(ctx, http.StatusNotFound, 40402, "category not found")
		return
	}
	d.list(ctx, category)
}

func (d *DiscussionController) list(ctx *gin.Context, category string) {
	q := services.ListQuery{
		Search:   strings.TrimSpace(ctx.Query("search")),
		Category: category,
		Sort:     services.ParseSort(ctx.Query("sort"), services.SortDesc),
		Limit:    parseLimit(ctx.Query("limit")),
	}

	// Cache browse lists only when no search term to avoid cache key explosion
	cacheKey := ""
	if q.Search == "" {
		cacheKey = fmt.Sprintf("%scat=%s:sort=%s:limit=%d", listCachePrefix, q.Category, q.Sort, q.Limit)
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	page, err := d.discussions.List(ctx.Request.Context(), q)
	if err != nil {
		respondError(ctx, err)
		return
	}
	items := make([]discussionView, len(page.Items))
	for i := range page.Items {
		items[i] = d.view(page.Items[i])
	}
	payload := gin.H{
		"items":      items,
		"total":      page.Total,
		"limit":      page.Limit,
		"has_more":   page.HasMore,
		"next_limit": page.NextLimit,
		"sort":       page.Sort,
		"search":     q.Search,
		"category":   q.Category,
	}
	if cacheKey != "" {
		utils.CacheSetJSON(cacheKey, utils.SuccessEnvelope(payload), 10*time.Minute)
	}
	utils.Success(ctx, payload)
}

// GetDiscussion returns one discussion with its category, participants, stats and
// whether the viewer is subscribed.
func (d *DiscussionController) GetDiscussion(ctx *gin.Context) {
	rctx := ctx.Request.Context()
	disc, err := d.discussions.FindBySlug(rctx, ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ids, err := d.discussions.Participants(rctx, disc.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	participants, err := d.discussions.Users(rctx, ids)
	if err != nil {
		respondError(ctx, err)
		return
	}
	stats, err := d.discussions.DiscussionStats(rctx, disc.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	viewer, _ := getUserID(ctx)
	subscribed, err := d.discussions.IsSubscribed(rctx, disc.ID, viewer)
	if err != nil {
		respondError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{
		"discussion":   d.view(*disc),
		"participants": participants,
		"subscribed":   subscribed,
		"stats":        stats,
	})
}

// CreateDiscussion starts a new thread owned by the caller.
func (d *DiscussionController) CreateDiscussion(ctx *gin.Context) {
	var req struct {
		Title        string `json:"title"`
		Content      string `json:"content"`
		CategorySlug string `json:"category_slug"`
		Color        string `json:"color"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	userID, _ := getUserID(ctx)
	disc, err := d.discussions.Create(ctx.Request.Context(), services.CreateDiscussionInput{
		Title:        req.Title,
		Content:      req.Content,
		CategorySlug: strings.TrimSpace(req.CategorySlug),
		Color:        strings.TrimSpace(req.Color),
	}, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(listCachePrefix)
	utils.Respond(ctx, http.StatusCreated, 0, "success", gin.H{"discussion": d.view(*disc)})
}

// UpdateDiscussion lets the owner edit title and content.
func (d *DiscussionController) UpdateDiscussion(ctx *gin.Context) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	rctx := ctx.Request.Context()
	disc, err := d.discussions.FindBySlug(rctx, ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	userID, _ := getUserID(ctx)
	updated, err := d.discussions.Update(rctx, disc.ID, req.Title, req.Content, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(listCachePrefix)
	utils.Success(ctx, gin.H{"discussion": d.view(*updated)})
}

// SetCategory files the discussion under another category, or none.
func (d *DiscussionController) SetCategory(ctx *gin.Context) {
	var req struct {
		CategorySlug string `json:"category_slug"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	rctx := ctx.Request.Context()
	disc, err := d.discussions.FindBySlug(rctx, ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	userID, _ := getUserID(ctx)
	updated, err := d.discussions.SetCategory(rctx, disc.ID, strings.TrimSpace(req.CategorySlug), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(listCachePrefix)
	utils.Success(ctx, gin.H{"discussion": d.view(*updated)})
}

// DeleteDiscussion soft-deletes the caller's discussion.
func (d *DiscussionController) DeleteDiscussion(ctx *gin.Context) {
	rctx := ctx.Request.Context()
	disc, err := d.discussions.FindBySlug(rctx, ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	userID, _ := getUserID(ctx)
	if err := d.discussions.SoftDelete(rctx, disc.ID, userID); err != nil {
		respondError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(listCachePrefix)
	utils.Success(ctx, gin.H{"deleted": true})
}

// ToggleSubscription flips the caller's subscription and reports the new state.
func (d *DiscussionController) ToggleSubscription(ctx *gin.Context) {
	rctx := ctx.Request.Context()
	disc, err := d.discussions.FindBySlug(rctx, ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	userID, _ := getUserID(ctx)
	subscribed, err := d.discussions.ToggleSubscription(rctx, disc.ID, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"subscribed": subscribed})
}
