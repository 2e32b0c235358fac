package routes

import (
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/touristique/touristique/internal/app/domain/auth"
	"github.com/touristique/touristique/internal/app/domain/planner"
	"github.com/touristique/touristique/internal/app/domain/profile"
	"github.com/touristique/touristique/internal/app/middleware"
	"github.com/touristique/touristique/internal/app/models"
	"github.com/touristique/touristique/internal/pkg/config"
	"github.com/touristique/touristique/internal/pkg/events"
	"github.com/touristique/touristique/internal/pkg/store"
)

// AppHandlers bundles every route handler the router mounts.
type AppHandlers struct {
	Auth    *auth.AuthHandlers
	Profile *profile.ProfileHandlers
	Planner *planner.PlannerHandlers

	authService auth.Service
}

// Setup wires services and handlers onto the router.
func Setup(r *gin.Engine, cfg *config.Config, kv store.KV, log *zap.Logger) {
	handlers := setupDependencies(cfg, kv, log)
	setupRouter(r, handlers, log)
}

func setupDependencies(cfg *config.Config, kv store.KV, log *zap.Logger) *AppHandlers {
	bus := events.NewInProcessBus(log)

	provider := auth.NewGoogleProvider(cfg.Google, log)
	authService := auth.NewService(kv, bus, provider, log)
	profileService := profile.NewService(kv, bus, log)

	httpClient := planner.NewHTTPClient(cfg.Planner.BaseURL, log)
	plannerClient := planner.NewCachedClient(httpClient, 5*time.Minute, log)
	plannerService := planner.NewService(plannerClient, profileService, bus, log)

	return &AppHandlers{
		Auth:    auth.NewAuthHandlers(authService, log),
		Profile: profile.NewProfileHandlers(profileService, log),
		Planner: planner.NewPlannerHandlers(plannerService, profileService, log),

		authService: authService,
	}
}

func setupRouter(r *gin.Engine, h *AppHandlers, log *zap.Logger) {
	// Pprof debugging routes
	debugGroup := r.Group("/debug/pprof")
	{
		debugGroup.GET("/", gin.WrapH(http.HandlerFunc(pprof.Index)))
		debugGroup.GET("/cmdline", gin.WrapH(http.HandlerFunc(pprof.Cmdline)))
		debugGroup.GET("/profile", gin.WrapH(http.HandlerFunc(pprof.Profile)))
		debugGroup.GET("/symbol", gin.WrapH(http.HandlerFunc(pprof.Symbol)))
		debugGroup.GET("/trace", gin.WrapH(http.HandlerFunc(pprof.Trace)))
		debugGroup.GET("/heap", gin.WrapH(pprof.Handler("heap")))
		debugGroup.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	}

	r.Use(middleware.LoadUserMiddleware(h.authService))

	public := r.Group("/")
	{
		public.GET("/", h.Planner.ShowHomePage)
		public.GET("/login", h.Auth.ShowLoginPage)
		public.GET("/signup", h.Auth.ShowSignupPage)
	}

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/google/callback", h.Auth.GoogleCallback)
		authGroup.POST("/logout", h.Auth.Logout)
	}

	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/profile-setup", h.Profile.ShowSetupPage)
		protected.POST("/profile-setup", h.Profile.SaveSetup)
		protected.GET("/profile", h.Profile.ShowProfilePage)

		protected.GET("/map", h.Planner.ShowMapPage)
		protected.GET("/insights", h.Planner.ShowInsightsPage)

		protected.GET("/plan/slab", h.Planner.SlabFragment)
		protected.POST("/plan/select", h.Planner.SelectPlan)
		protected.POST("/ask", h.Planner.Ask)
	}

	// 404 handler - must be last
	r.NoRoute(func(c *gin.Context) {
		log.Info("404 - Page not found",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.String("ip", c.ClientIP()),
		)

		user := middleware.GetUserFromContext(c)
		nav := models.PublicNav()
		if user != nil {
			nav = models.DefaultNav()
		}
		c.HTML(http.StatusNotFound, "notfound.html", models.Page{
			Title: "Page Not Found - Touristique",
			Nav:   nav,
			User:  user,
		})
	})
}
