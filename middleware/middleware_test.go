package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/discussions/utils"
)

const testSecret = "middleware-secret"

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/whoami", func(ctx *gin.Context) {
		id, _ := ctx.Get(ContextUserIDKey)
		ctx.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return r
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r := newEngine(AuthRequired(testSecret))
	token, err := utils.GenerateToken(7, "gopher", testSecret, time.Hour)
	require.NoError(t, err)
	forged, err := utils.GenerateToken(7, "gopher", "another-secret", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + forged, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
			}
		})
	}
}

func TestAuthRequired_RevokedToken(t *testing.T) {
	utils.SetRedis(nil)
	r := newEngine(AuthRequired(testSecret))
	token, err := utils.GenerateToken(8, "leaver", testSecret, time.Hour)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, get(r, "Bearer "+token).Code)

	utils.RevokeToken(context.Background(), token, time.Now().Add(time.Hour))
	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":40104`)
}

func TestOptionalAuth(t *testing.T) {
	r := newEngine(OptionalAuth(testSecret))
	token, err := utils.GenerateToken(9, "viewer", testSecret, time.Hour)
	require.NoError(t, err)

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":9}`, w.Body.String())

	w = get(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":null}`, w.Body.String())

	w = get(r, "Bearer garbage")
	assert.Equal(t, http.StatusOK, w.Code, "a bad token degrades to anonymous")
	assert.JSONEq(t, `{"user_id":null}`, w.Body.String())
}

func TestOptionalAuth_RevokedTokenIsAnonymous(t *testing.T) {
	utils.SetRedis(nil)
	r := newEngine(OptionalAuth(testSecret))
	token, err := utils.GenerateToken(11, "former", testSecret, time.Hour)
	require.NoError(t, err)
	utils.RevokeToken(context.Background(), token, time.Now().Add(time.Hour))

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":null}`, w.Body.String())
}

func TestRateLimitMiddleware(t *testing.T) {
	// 4 per minute gives a burst of 2
	r := newEngine(RateLimitMiddleware(4))

	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusOK, get(r, "").Code)
	w := get(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"code":42901`)
}
