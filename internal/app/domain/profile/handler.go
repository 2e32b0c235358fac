package profile

import (
	"encoding/json"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/touristique/touristique/internal/app/middleware"
	"github.com/touristique/touristique/internal/app/models"
)

// ProfileHandlers serves the preferences form and the profile view.
type ProfileHandlers struct {
	logger  *zap.Logger
	service Service
}

func NewProfileHandlers(service Service, logger *zap.Logger) *ProfileHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileHandlers{logger: logger, service: service}
}

// ShowSetupPage renders the preferences form prefilled with the stored
// profile, defaults included.
func (h *ProfileHandlers) ShowSetupPage(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	prof := h.service.Read(c.Request.Context(), user.ID)

	session := sessions.Default(c)
	saved := len(session.Flashes("profileSaved")) > 0
	if saved {
		if err := session.Save(); err != nil {
			h.logger.Warn("Failed to clear flash", zap.Error(err))
		}
	}

	c.HTML(http.StatusOK, "profile_setup.html", models.ProfileSetupPage{
		Page: models.Page{
			Title:     "Trip Preferences - Touristique",
			ActiveNav: "Profile",
			Nav:       models.DefaultNav(),
			User:      user,
		},
		Profile:   prof,
		Interests: models.InterestOptions(),
		Saved:     saved,
	})
}

// SaveSetup persists the submitted preferences field by field. The first
// rejected field re-renders the form with the validation message; saved
// fields before it stay saved.
func (h *ProfileHandlers) SaveSetup(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	ctx := c.Request.Context()

	interests, err := json.Marshal(c.PostFormArray("interests"))
	if err != nil {
		h.renderSetupError(c, "Could not read interests")
		return
	}

	fields := []struct {
		name  string
		value string
	}{
		{FieldInterests, string(interests)},
		{FieldDurationDays, c.PostForm("durationDays")},
		{FieldBudget, c.PostForm("budget")},
		{FieldTravelers, c.PostForm("travelers")},
		{FieldStartCity, c.PostForm("start_city")},
	}

	for _, f := range fields {
		if err := h.service.Write(ctx, user.ID, f.name, f.value); err != nil {
			h.logger.Warn("Rejected profile field",
				zap.String("userID", user.ID), zap.String("field", f.name), zap.Error(err))
			h.renderSetupError(c, "Please check the "+f.name+" field and try again.")
			return
		}
	}

	session := sessions.Default(c)
	session.AddFlash("1", "profileSaved")
	if err := session.Save(); err != nil {
		h.logger.Warn("Failed to set flash", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/profile-setup")
}

// ShowProfilePage renders the identity card with the saved preferences.
func (h *ProfileHandlers) ShowProfilePage(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	prof := h.service.Read(c.Request.Context(), user.ID)

	c.HTML(http.StatusOK, "profile.html", models.ProfilePage{
		Page: models.Page{
			Title:     "Profile - Touristique",
			ActiveNav: "Profile",
			Nav:       models.DefaultNav(),
			User:      user,
		},
		Profile: prof,
	})
}

func (h *ProfileHandlers) renderSetupError(c *gin.Context, msg string) {
	user := middleware.GetUserFromContext(c)
	prof := h.service.Read(c.Request.Context(), user.ID)

	c.HTML(http.StatusBadRequest, "profile_setup.html", models.ProfileSetupPage{
		Page: models.Page{
			Title:     "Trip Preferences - Touristique",
			ActiveNav: "Profile",
			Nav:       models.DefaultNav(),
			User:      user,
		},
		Profile:   prof,
		Interests: models.InterestOptions(),
		Error:     msg,
	})
}
