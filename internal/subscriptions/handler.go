package subscriptions

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"driver-portal/internal/shared/server/middleware"
	"driver-portal/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the subscription store.
type Handler struct {
	Repo           Repo
	PushConfigured bool
	VAPIDPublicKey string
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo, pushConfigured bool, vapidPublicKey string) *Handler {
	return &Handler{Repo: repo, PushConfigured: pushConfigured, VAPIDPublicKey: vapidPublicKey}
}

// RegisterRoutes attaches subscription routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/push/public-key", h.publicKey)
	rg.POST("/push/subscribe", h.subscribe)
	rg.POST("/push/unsubscribe", h.unsubscribe)
}

func (h *Handler) publicKey(c *gin.Context) {
	if !h.PushConfigured {
		respond.Error(c, http.StatusServiceUnavailable, "push_not_configured", "push not configured", nil)
		return
	}
	respond.OK(c, gin.H{"publicKey": h.VAPIDPublicKey})
}

func (h *Handler) subscribe(c *gin.Context) {
	username := middleware.UsernameFromContext(c)

	if !h.PushConfigured {
		respond.Error(c, http.StatusServiceUnavailable, "push_not_configured", "push not configured", nil)
		return
	}

	var sub Subscription
	if err := c.ShouldBindJSON(&sub); err != nil || sub.Endpoint == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid subscription", nil)
		return
	}

	if err := h.Repo.Add(c.Request.Context(), username, sub); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store subscription", nil)
		return
	}
	respond.OK(c, gin.H{"ok": true})
}

func (h *Handler) unsubscribe(c *gin.Context) {
	username := middleware.UsernameFromContext(c)

	var body struct {
		Endpoint string `json:"endpoint"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if body.Endpoint != "" {
		if err := h.Repo.Remove(c.Request.Context(), username, body.Endpoint); err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to remove subscription", nil)
			return
		}
	}
	respond.OK(c, gin.H{"ok": true})
}
