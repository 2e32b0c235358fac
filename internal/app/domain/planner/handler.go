package planner

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/touristique/touristique/internal/app/domain/profile"
	"github.com/touristique/touristique/internal/app/middleware"
	"github.com/touristique/touristique/internal/app/models"
)

// PlannerHandlers serves the dashboard, the itinerary fragments and the
// map and insights pages.
type PlannerHandlers struct {
	logger   *zap.Logger
	service  Service
	profiles profile.Service
}

func NewPlannerHandlers(service Service, profiles profile.Service, logger *zap.Logger) *PlannerHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlannerHandlers{logger: logger, service: service, profiles: profiles}
}

// ShowHomePage renders the public landing page for visitors and the
// itinerary dashboard for signed-in users. When no plan set is displayed
// yet the slab renders a loading state that fetches itself.
func (h *PlannerHandlers) ShowHomePage(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.HTML(http.StatusOK, "home.html", models.HomePage{
			Page: models.Page{
				Title: "Touristique - Plan Your Trip",
				Nav:   models.PublicNav(),
			},
		})
		return
	}

	prof := h.profiles.Read(c.Request.Context(), user.ID)
	set, ok := h.service.Current(user.ID)

	c.HTML(http.StatusOK, "home.html", models.HomePage{
		Page: models.Page{
			Title:     "Home - Touristique",
			ActiveNav: "Home",
			Nav:       models.DefaultNav(),
			User:      user,
		},
		Profile: prof,
		PlanSet: set,
		Loading: !ok,
	})
}

// SlabFragment returns the itinerary slab. A missing plan set refreshes
// synchronously so the loading state resolves in one round trip.
func (h *PlannerHandlers) SlabFragment(c *gin.Context) {
	user := middleware.GetUserFromContext(c)

	set, ok := h.service.Current(user.ID)
	if !ok {
		set = h.service.Refresh(c.Request.Context(), user.ID)
	}

	c.HTML(http.StatusOK, "itinerary_slab", models.HomePage{PlanSet: set})
}

// SelectPlan switches the displayed candidate plan.
func (h *PlannerHandlers) SelectPlan(c *gin.Context) {
	user := middleware.GetUserFromContext(c)

	idx, err := strconv.Atoi(c.PostForm("index"))
	if err != nil {
		idx = -1
	}
	set, _ := h.service.Select(user.ID, idx)

	if c.GetHeader("HX-Request") != "" {
		c.HTML(http.StatusOK, "itinerary_slab", models.HomePage{PlanSet: set})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Ask answers a free-form trip question. An unavailable backend renders
// the fallback copy instead of an error page.
func (h *PlannerHandlers) Ask(c *gin.Context) {
	user := middleware.GetUserFromContext(c)

	question := c.PostForm("question")
	answer := h.service.Ask(c.Request.Context(), user.ID, question)

	c.HTML(http.StatusOK, "ask_answer", models.HomePage{Answer: answer})
}

// ShowMapPage renders the selected plan's route.
func (h *PlannerHandlers) ShowMapPage(c *gin.Context) {
	user := middleware.GetUserFromContext(c)

	page := models.MapPage{
		Page: models.Page{
			Title:     "Map - Touristique",
			ActiveNav: "Map",
			Nav:       models.DefaultNav(),
			User:      user,
		},
	}
	if set, ok := h.service.Current(user.ID); ok {
		if plan, found := set.Current(); found {
			page.Plan = plan
			page.HasPlan = true
		}
	}

	c.HTML(http.StatusOK, "map.html", page)
}

// ShowInsightsPage renders the recommendations and curated trips feeds.
func (h *PlannerHandlers) ShowInsightsPage(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	ctx := c.Request.Context()

	c.HTML(http.StatusOK, "insights.html", models.InsightsPage{
		Page: models.Page{
			Title:     "Insights - Touristique",
			ActiveNav: "Insights",
			Nav:       models.DefaultNav(),
			User:      user,
		},
		Recommendations: h.service.Recommendations(ctx, user.ID),
		Trips:           h.service.Trips(ctx, user.ID),
	})
}
