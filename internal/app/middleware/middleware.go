package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/touristique/touristique/internal/app/models"
)

// SessionReader is the slice of the auth service the middleware needs.
type SessionReader interface {
	Current(ctx context.Context) *models.AuthUser
}

type contextKey string

const UserContextKey contextKey = "user"

// CORSMiddleware handles CORS headers
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, HX-Request, HX-Target, HX-Current-URL")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// RequestIDMiddleware tags every request with an id, honoring one supplied
// by an upstream proxy.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-Id", requestID)
		c.Next()
	}
}

// SecurityMiddleware sets baseline security headers.
func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "SAMEORIGIN")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// OTELGinMiddleware wraps the otelgin middleware for request tracing.
func OTELGinMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// LoadUserMiddleware resolves the active session and attaches it to the
// request context. Anonymous requests pass through with no user set.
func LoadUserMiddleware(sessions SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := sessions.Current(c.Request.Context()); user != nil {
			c.Set(string(UserContextKey), user)
		}
		c.Next()
	}
}

// AuthMiddleware rejects anonymous requests. Pages redirect to the login
// view; fragment and API requests get a plain 401.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserFromContext(c) != nil {
			c.Next()
			return
		}
		if wantsHTMLPage(c) {
			c.Redirect(http.StatusSeeOther, "/login")
		} else {
			c.String(http.StatusUnauthorized, models.ErrUnauthenticated.Error())
		}
		c.Abort()
	}
}

// GetUserFromContext returns the session user attached by
// LoadUserMiddleware, or nil.
func GetUserFromContext(c *gin.Context) *models.AuthUser {
	value, ok := c.Get(string(UserContextKey))
	if !ok {
		return nil
	}
	user, ok := value.(*models.AuthUser)
	if !ok {
		return nil
	}
	return user
}

// GetUserIDFromContext returns the session user's id, or "" for anonymous.
func GetUserIDFromContext(c *gin.Context) string {
	if user := GetUserFromContext(c); user != nil {
		return user.ID
	}
	return ""
}

func wantsHTMLPage(c *gin.Context) bool {
	if c.GetHeader("HX-Request") != "" {
		return false
	}
	accept := c.GetHeader("Accept")
	return accept == "" || strings.Contains(accept, "text/html")
}
