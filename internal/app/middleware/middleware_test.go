package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/touristique/touristique/internal/app/models"
)

func newGuardedRouter(user *models.AuthUser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(string(UserContextKey), user)
		}
	})
	r.GET("/plan/slab", AuthMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestAuthMiddlewareRedirectsAnonymousPages(t *testing.T) {
	r := newGuardedRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/plan/slab", nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestAuthMiddlewareRejectsAnonymousFragments(t *testing.T) {
	r := newGuardedRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/plan/slab", nil)
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, models.ErrUnauthenticated.Error(), w.Body.String())
}

func TestAuthMiddlewarePassesSignedInUsers(t *testing.T) {
	r := newGuardedRouter(&models.AuthUser{ID: "u1"})

	req := httptest.NewRequest(http.MethodGet, "/plan/slab", nil)
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
