package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cppla/discussions/middleware"
	"github.com/cppla/discussions/services"
	"github.com/cppla/discussions/utils"
)

// listCachePrefix scopes every cached discussion list so writes can drop them together.
const listCachePrefix = "cache:discussions:list:"

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

// parseLimit reads the load-more size; the services clamp it.
func parseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseID(raw string) (uint, bool) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// respondError maps service errors onto the response envelope.
func respondError(ctx *gin.Context, err error) {
	var ve *services.ValidationError
	var rl *services.RateLimitError
	switch {
	case errors.As(err, &ve):
		utils.ErrorWithData(ctx, http.StatusBadRequest, 40001, ve.Message, gin.H{"field": ve.Field})
	case errors.As(err, &rl):
		utils.ErrorWithData(ctx, http.StatusTooManyRequests, 42902, rl.Error(), gin.H{
			"kind":              rl.Kind,
			"remaining_minutes": rl.Remaining,
		})
	case errors.Is(err, services.ErrUnauthenticated):
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
	case errors.Is(err, services.ErrForbidden):
		utils.Error(ctx, http.StatusForbidden, 40301, "forbidden")
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, "not found")
	case errors.Is(err, services.ErrConflict):
		utils.Error(ctx, http.StatusConflict, 40901, "conflict, please retry")
	default:
		utils.Sugar.Errorw("request failed", "path", ctx.FullPath(), "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50001, "internal server error")
	}
}

// renderHTML is the rich-content adapter: only richeditor bodies are HTML and get sanitized.
func renderHTML(editor services.EditorKind, content string) string {
	if !editor.ProducesHTML() {
		return ""
	}
	return utils.Sanitize(content)
}
