package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/touristique/touristique/internal/app/middleware"
	"github.com/touristique/touristique/internal/app/models"
	"github.com/touristique/touristique/internal/observability/metrics"
)

// AuthHandlers serves the sign-in pages and the provider callback.
type AuthHandlers struct {
	logger  *zap.Logger
	service Service
}

func NewAuthHandlers(service Service, logger *zap.Logger) *AuthHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandlers{logger: logger, service: service}
}

// ShowLoginPage renders the sign-in view with the provider button.
func (h *AuthHandlers) ShowLoginPage(c *gin.Context) {
	h.renderAuthPage(c, "login", "Sign In - Touristique")
}

// ShowSignupPage renders the sign-up view. Both views ride the same
// provider flow; only the copy differs.
func (h *AuthHandlers) ShowSignupPage(c *gin.Context) {
	h.renderAuthPage(c, "signup", "Sign Up - Touristique")
}

func (h *AuthHandlers) renderAuthPage(c *gin.Context, mode, title string) {
	if middleware.GetUserFromContext(c) != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	provider := h.service.Provider()
	c.HTML(http.StatusOK, "login.html", models.AuthPage{
		Page: models.Page{
			Title: title,
			Nav:   models.PublicNav(),
		},
		Mode:             mode,
		ProviderReady:    provider.ClientID() != "",
		ProviderScript:   provider.ScriptSrc(),
		ProviderClient:   provider.ClientID(),
		ProviderUseFedCM: provider.UseFedCM(),
	})
}

// GoogleCallback receives the credential the provider button posts back.
// A sign-in that yields no user bounces back to the login page; a
// successful one always lands on the home dashboard.
func (h *AuthHandlers) GoogleCallback(c *gin.Context) {
	credential := c.PostForm("credential")

	user, err := h.service.SignIn(c.Request.Context(), credential)
	metrics.Get().RecordAuthRequest(c.Request.Context(), "signin")
	if err != nil {
		h.logger.Error("Sign-in failed", zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	if user == nil {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Logout clears the session and returns to the login page.
func (h *AuthHandlers) Logout(c *gin.Context) {
	if err := h.service.SignOut(c.Request.Context()); err != nil {
		h.logger.Error("Sign-out failed", zap.Error(err))
	}
	metrics.Get().RecordAuthRequest(c.Request.Context(), "signout")
	c.Redirect(http.StatusSeeOther, "/login")
}
