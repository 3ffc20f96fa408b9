package api

import (
	"net/http"
	"strings"

	"image-store/internal/auth"
	"image-store/internal/models"

	"github.com/gin-gonic/gin"
)

// Context keys set by the route gate for downstream handlers.
const (
	ctxUserIDKey = "auth.user_id"
	ctxRoleKey   = "auth.role"
)

// policy classifies what a route requires of the caller.
type policy int

const (
	// policyPublic passes every request through.
	policyPublic policy = iota
	// policyUser requires a valid session token of any role.
	policyUser
	// policyAdmin requires a valid session token with the admin role.
	policyAdmin
)

// routeRule pairs a path matcher with the required capability.
type routeRule struct {
	method string // empty matches any method
	path   string
	exact  bool
	policy policy
}

// routeRules is evaluated top-down; the first matching rule wins and
// unmatched paths fall through to policyUser.
var routeRules = []routeRule{
	{path: "/health", exact: true, policy: policyPublic},
	{path: "/ready", exact: true, policy: policyPublic},
	{path: "/metrics", exact: true, policy: policyPublic},

	// The gateway authenticates webhook deliveries by signature, not by
	// session.
	{path: "/webhook", policy: policyPublic},

	{path: "/auth", policy: policyPublic},
	{path: "/login", exact: true, policy: policyPublic},
	{path: "/register", exact: true, policy: policyPublic},

	{path: "/", exact: true, policy: policyPublic},
	{method: http.MethodGet, path: "/products", policy: policyPublic},
	{method: http.MethodPost, path: "/products", policy: policyAdmin},

	{path: "/admin", policy: policyAdmin},
}

// classifyRoute returns the capability a request needs.
func classifyRoute(method, path string) policy {
	for _, r := range routeRules {
		if r.method != "" && r.method != method {
			continue
		}
		if r.exact {
			if path == r.path {
				return r.policy
			}
			continue
		}
		if strings.HasPrefix(path, r.path) {
			return r.policy
		}
	}
	return policyUser
}

// routeGate enforces the route policy table ahead of every handler and
// exposes the session claims to downstream handlers.
func routeGate(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		pol := classifyRoute(c.Request.Method, c.Request.URL.Path)
		if pol == policyPublic {
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := auth.ValidateToken(jwtSecret, token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		if pol == policyAdmin && claims.Role != models.RoleAdmin {
			abortUnauthorized(c)
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxRoleKey, claims.Role)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": "You are not authorized to access this route",
	})
}
