package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"driver-portal/internal/shared/server/middleware"
	"driver-portal/internal/shared/server/respond"
)

// Handler exposes login and session introspection.
type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

// RegisterRoutes attaches auth routes to the router group. The login route
// is public; /auth/me requires a valid token.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.login)
	rg.GET("/auth/me", h.me)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "username and password are required", nil)
		return
	}
	if req.Username == "" || req.Password == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "username and password are required", nil)
		return
	}

	result, err := h.Service.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue session token", nil)
		return
	}
	respond.OK(c, result)
}

func (h *Handler) me(c *gin.Context) {
	username := middleware.UsernameFromContext(c)
	if username == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	respond.OK(c, gin.H{"username": username})
}
