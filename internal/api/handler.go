package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"image-store/internal/media"
	"image-store/internal/models"
	"image-store/internal/service"
	"image-store/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	authService    *service.AuthService
	catalogService *service.CatalogService
	orderService   *service.OrderService
	webhookService *service.WebhookService
	media          *media.Client
	jwtSecret      string
}

// NewHandler creates a new HTTP handler
func NewHandler(
	authService *service.AuthService,
	catalogService *service.CatalogService,
	orderService *service.OrderService,
	webhookService *service.WebhookService,
	mediaClient *media.Client,
	jwtSecret string,
) *Handler {
	return &Handler{
		authService:    authService,
		catalogService: catalogService,
		orderService:   orderService,
		webhookService: webhookService,
		media:          mediaClient,
		jwtSecret:      jwtSecret,
	}
}

// SetupRoutes sets up HTTP routes. The route gate runs ahead of every
// handler and enforces the policy table in middleware.go.
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())
	router.Use(routeGate(h.jwtSecret))

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/auth/register", h.register)
	router.POST("/auth/login", h.login)

	router.GET("/products", h.listProducts)
	router.GET("/products/:id", h.getProduct)
	router.POST("/products", h.createProduct)

	router.POST("/orders", h.checkout)
	router.GET("/orders/user", h.listUserOrders)

	router.POST("/webhook/payment", h.paymentWebhook)

	router.GET("/media-auth", h.mediaAuth)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// register handles account registration
func (h *Handler) register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid email or password")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondTaxonomy(c, err)
		return
	}

	respond(c, http.StatusCreated, "User registered successfully", user)
}

// login handles credential verification and session issuance
func (h *Handler) login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid email or password")
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondTaxonomy(c, err)
		return
	}

	respond(c, http.StatusOK, "Login successful", resp)
}

// listProducts handles catalog listing
func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalogService.ListProducts(c.Request.Context())
	if err != nil {
		respondTaxonomy(c, err)
		return
	}

	respond(c, http.StatusOK, "Products fetched successfully", products)
}

// getProduct handles product detail
func (h *Handler) getProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondTaxonomy(c, err)
		return
	}

	respond(c, http.StatusOK, "Product fetched successfully", product)
}

// createProduct handles admin product creation. The route gate has already
// required the admin role.
func (h *Handler) createProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "All fields are required")
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondTaxonomy(c, err)
		return
	}

	respond(c, http.StatusCreated, "Product created successfully", product)
}

// checkout handles order creation for the authenticated user
func (h *Handler) checkout(c *gin.Context) {
	userID := c.GetInt64(ctxUserIDKey)
	if userID == 0 {
		respondError(c, http.StatusUnauthorized, "You are not authorized to access this route")
		return
	}

	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid product ID or variant")
		return
	}

	resp, err := h.orderService.Checkout(c.Request.Context(), userID, &req)
	if err != nil {
		respondTaxonomy(c, err)
		return
	}

	respond(c, http.StatusOK, "Order created successfully", resp)
}

// listUserOrders handles the authenticated user's order history
func (h *Handler) listUserOrders(c *gin.Context) {
	userID := c.GetInt64(ctxUserIDKey)
	if userID == 0 {
		respondError(c, http.StatusUnauthorized, "You are not authorized to access this route")
		return
	}

	orders, err := h.orderService.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		respondTaxonomy(c, err)
		return
	}

	respond(c, http.StatusOK, "Orders fetched successfully", orders)
}

// paymentWebhook handles gateway payment notifications. Consumed by the
// payment gateway, not by end users.
func (h *Handler) paymentWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Cannot read request body")
		return
	}

	signature := c.GetHeader("x-signature")
	if err := h.webhookService.HandleEvent(c.Request.Context(), body, signature); err != nil {
		respondTaxonomy(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Payment verified successfully",
		"received": true,
	})
}

// mediaAuth hands the browser upload widget its signed upload parameters
func (h *Handler) mediaAuth(c *gin.Context) {
	respond(c, http.StatusOK, "Authentication parameters fetched successfully", h.media.UploadAuthParams())
}

// respond writes the success envelope.
func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// respondError writes the failure envelope.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// respondTaxonomy maps a service error onto its HTTP status. Internal
// failures are logged with context and never leak details to the client.
func respondTaxonomy(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrConflict):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	default:
		util.GetLogger().Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Something went wrong, please try again later")
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
