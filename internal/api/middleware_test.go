package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"image-store/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRoute(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   policy
	}{
		{http.MethodPost, "/webhook/payment", policyPublic},
		{http.MethodPost, "/auth/register", policyPublic},
		{http.MethodPost, "/auth/login", policyPublic},
		{http.MethodGet, "/login", policyPublic},
		{http.MethodGet, "/register", policyPublic},
		{http.MethodGet, "/", policyPublic},
		{http.MethodGet, "/products", policyPublic},
		{http.MethodGet, "/products/42", policyPublic},
		{http.MethodPost, "/products", policyAdmin},
		{http.MethodGet, "/admin/dashboard", policyAdmin},
		{http.MethodGet, "/health", policyPublic},
		{http.MethodGet, "/metrics", policyPublic},

		// Everything unmatched requires a session of any role.
		{http.MethodPost, "/orders", policyUser},
		{http.MethodGet, "/orders/user", policyUser},
		{http.MethodGet, "/media-auth", policyUser},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyRoute(tt.method, tt.path))
		})
	}
}

const testSecret = "middleware-test-secret"

func gatedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(routeGate(testSecret))

	ok := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
	router.GET("/products", ok)
	router.GET("/admin/dashboard", ok)
	router.POST("/products", ok)
	router.GET("/orders/user", ok)
	return router
}

func doRequest(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouteGateAdminPaths(t *testing.T) {
	router := gatedRouter(t)

	userToken, err := auth.GenerateToken(testSecret, 1, "user")
	require.NoError(t, err)
	adminToken, err := auth.GenerateToken(testSecret, 2, "admin")
	require.NoError(t, err)

	// Unauthenticated and user-role requests are denied.
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, http.MethodGet, "/admin/dashboard", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, http.MethodGet, "/admin/dashboard", userToken).Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/admin/dashboard", adminToken).Code)

	// Product creation is admin-only while catalog reads stay public.
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, http.MethodPost, "/products", userToken).Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodPost, "/products", adminToken).Code)
}

func TestRouteGatePublicCatalog(t *testing.T) {
	router := gatedRouter(t)

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/products", "").Code)
}

func TestRouteGateFallthroughRequiresSession(t *testing.T) {
	router := gatedRouter(t)

	assert.Equal(t, http.StatusUnauthorized, doRequest(router, http.MethodGet, "/orders/user", "").Code)

	userToken, err := auth.GenerateToken(testSecret, 1, "user")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/orders/user", userToken).Code)
}

func TestRouteGateRejectsTamperedToken(t *testing.T) {
	router := gatedRouter(t)

	otherToken, err := auth.GenerateToken("some-other-secret", 1, "admin")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doRequest(router, http.MethodGet, "/orders/user", otherToken).Code)
}
