package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/discussions/models"
	"github.com/cppla/discussions/services"
	"github.com/cppla/discussions/utils"
)

// PostController manages replies inside discussions.
type PostController struct {
	discussions *services.DiscussionService
	posts       *services.PostService
}

// NewPostController creates a new PostController instance.
func NewPostController(discussions *services.DiscussionService, posts *services.PostService) *PostController {
	return &PostController{discussions: discussions, posts: posts}
}

type postView struct {
	models.Post
	ContentHTML string `json:"content_html,omitempty"`
}

func (p *PostController) view(post models.Post) postView {
	return postView{Post: post, ContentHTML: renderHTML(p.discussions.Settings().Editor, post.Content)}
}

// ListPosts returns the first limit replies of a discussion, oldest first.
func (p *PostController) ListPosts(ctx *gin.Context) {
	rctx := ctx.Request.Context()
	disc, err := p.discussions.FindBySlug(rctx, ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	page, err := p.posts.List(rctx, disc.ID, parseLimit(ctx.Query("limit")))
	if err != nil {
		respondError(ctx, err)
		return
	}

	items := make([]postView, len(page.Items))
	for i := range page.Items {
		items[i] = p.view(page.Items[i])
	}
	utils.Success(ctx, gin.H{
		"items":      items,
		"total":      page.Total,
		"limit":      page.Limit,
		"has_more":   page.HasMore,
		"next_limit": page.NextLimit,
	})
}

// CreatePost answers a discussion as the caller.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	rctx := ctx.Request.Context()
	disc, err := p.discussions.FindBySlug(rctx, ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	userID, _ := getUserID(ctx)
	post, err := p.posts.Create(rctx, disc.ID, req.Content, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	// reply counts are part of the cached lists
	utils.InvalidateByPrefix(listCachePrefix)
	utils.Respond(ctx, http.StatusCreated, 0, "success", gin.H{"post": p.view(*post)})
}

// UpdatePost lets the author edit a reply.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40401, "not found")
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	userID, _ := getUserID(ctx)
	post, err := p.posts.Update(ctx.Request.Context(), id, req.Content, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"post": p.view(*post)})
}

// DeletePost removes the caller's reply.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40401, "not found")
		return
	}
	userID, _ := getUserID(ctx)
	if err := p.posts.Delete(ctx.Request.Context(), id, userID); err != nil {
		respondError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(listCachePrefix)
	utils.Success(ctx, gin.H{"deleted": true})
}
