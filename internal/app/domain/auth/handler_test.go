package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/touristique/touristique/internal/app/models"
)

// stubService drives the handlers without a real session store.
type stubService struct {
	user      *models.AuthUser
	signInErr error
	signedOut bool
}

func (s *stubService) SignIn(ctx context.Context, credential string) (*models.AuthUser, error) {
	return s.user, s.signInErr
}
func (s *stubService) SignOut(ctx context.Context) error {
	s.signedOut = true
	return nil
}
func (s *stubService) Current(ctx context.Context) *models.AuthUser { return s.user }
func (s *stubService) Provider() Provider                           { return &fakeProvider{} }

func newCallbackRouter(service Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandlers(service, nil)
	r.POST("/auth/google/callback", h.GoogleCallback)
	r.POST("/auth/logout", h.Logout)
	return r
}

func postCallback(t *testing.T, r *gin.Engine, credential string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"credential": {credential}}
	req := httptest.NewRequest(http.MethodPost, "/auth/google/callback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGoogleCallbackRedirectsHomeOnSuccess(t *testing.T) {
	// Every successful sign-in lands on the dashboard, whether or not the
	// user has saved preferences yet.
	service := &stubService{user: &models.AuthUser{ID: "u1", Email: "u1@example.com"}}
	w := postCallback(t, newCallbackRouter(service), "token")

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestGoogleCallbackBouncesToLoginOnFailure(t *testing.T) {
	service := &stubService{signInErr: models.ErrUnauthenticated}
	w := postCallback(t, newCallbackRouter(service), "bad-token")

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestLogoutSignsOutAndRedirects(t *testing.T) {
	service := &stubService{user: &models.AuthUser{ID: "u1"}}
	r := newCallbackRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.True(t, service.signedOut)
}
