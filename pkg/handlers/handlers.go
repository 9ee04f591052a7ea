package handlers

import (
	"errors"
	"net/http"

	"restaurant-picker/pkg/auth"
	"restaurant-picker/pkg/middleware"
	"restaurant-picker/pkg/models"
	"restaurant-picker/pkg/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	logs  *zap.SugaredLogger
	store *store.Store
	auth  *auth.Auth
}

// New creates a new Handlers instance
func New(logger *zap.SugaredLogger, store *store.Store, auth *auth.Auth) *Handlers {
	return &Handlers{
		logs:  logger,
		store: store,
		auth:  auth,
	}
}

// Routes registers the API on r. Everything except register and login
// requires a token.
func (h *Handlers) Routes(r gin.IRouter) {
	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)

	restaurants := api.Group("/restaurants", h.auth.Middleware())
	restaurants.GET("", h.ListRestaurants)
	restaurants.POST("", h.CreateRestaurant)
	restaurants.PUT("/:id", h.UpdateRestaurant)
	restaurants.DELETE("/:id", h.DeleteRestaurant)
}

// Health reports the process is serving
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ============== Auth Handlers ==============

// Register creates an account and returns its token
func (h *Handlers) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	token, err := h.auth.GenerateToken(req.Username)
	if err != nil {
		h.fail(c, "Register", "failed to generate token", err)
		return
	}

	if err := h.store.Register(req.Username, req.Password, token); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
			return
		}
		h.fail(c, "Register", "failed to save user", err)
		return
	}

	h.logs.Infow("user registered",
		"username", req.Username,
		"handler", "Register",
		"request_id", middleware.GetRequestID(c))

	c.JSON(http.StatusCreated, models.TokenResponse{Token: token})
}

// Login handles user login
func (h *Handlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, err := h.auth.ValidateCredentials(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{Token: token})
}

// ============== Restaurant Handlers ==============

// ListRestaurants returns the caller's restaurants
func (h *Handlers) ListRestaurants(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Restaurants(auth.Username(c)))
}

// CreateRestaurant adds a restaurant to the caller's list
func (h *Handlers) CreateRestaurant(c *gin.Context) {
	var body models.Restaurant
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := body.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name required"})
		return
	}

	record, err := h.store.AddRestaurant(auth.Username(c), body)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Duplicate"})
			return
		}
		h.fail(c, "CreateRestaurant", "failed to save restaurant", err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// UpdateRestaurant merges the request body into an existing restaurant
func (h *Handlers) UpdateRestaurant(c *gin.Context) {
	id := c.Param("id")

	var body models.Restaurant
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := body.ValidateUpdate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name required"})
		return
	}

	record, err := h.store.UpdateRestaurant(auth.Username(c), id, body)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrRestaurantNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		case errors.Is(err, store.ErrDuplicateName):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Duplicate"})
		default:
			h.fail(c, "UpdateRestaurant", "failed to save restaurant", err)
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

// DeleteRestaurant removes a restaurant; unknown ids are ignored
func (h *Handlers) DeleteRestaurant(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.DeleteRestaurant(auth.Username(c), id); err != nil {
		h.fail(c, "DeleteRestaurant", "failed to delete restaurant", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

func (h *Handlers) fail(c *gin.Context, handler, msg string, err error) {
	h.logs.Errorw(msg,
		"error", err,
		"handler", handler,
		"request_id", middleware.GetRequestID(c))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
