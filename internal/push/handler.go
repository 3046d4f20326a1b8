package push

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"driver-portal/internal/shared/server/middleware"
	"driver-portal/internal/shared/server/respond"
)

// Handler exposes one-shot test delivery, bypassing reminder evaluation and
// dedup entirely.
type Handler struct {
	Dispatcher *Dispatcher
	AppName    string
}

// NewHandler constructs a Handler.
func NewHandler(dispatcher *Dispatcher, appName string) *Handler {
	return &Handler{Dispatcher: dispatcher, AppName: appName}
}

// RegisterRoutes attaches push routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/push/test", h.test)
}

type testRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Link  string `json:"link"`
}

func (h *Handler) test(c *gin.Context) {
	username := middleware.UsernameFromContext(c)

	var req testRequest
	// Body is optional; defaults mirror the dispatch test ping.
	_ = c.ShouldBindJSON(&req)
	if req.Title == "" {
		req.Title = h.AppName
	}
	if req.Body == "" {
		req.Body = "Test notification from dispatch"
	}
	if req.Link == "" {
		req.Link = "/portal"
	}

	result, err := h.Dispatcher.Dispatch(c.Request.Context(), username, Payload{
		Title: req.Title,
		Body:  req.Body,
		Data:  PayloadData{URL: req.Link},
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to dispatch test push", nil)
		return
	}
	respond.OK(c, result)
}
