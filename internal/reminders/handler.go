package reminders

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"driver-portal/internal/shared/server/middleware"
	"driver-portal/internal/shared/server/respond"
)

// Handler exposes the manual run endpoint and the token-guarded daily cron
// sweep.
type Handler struct {
	Engine    *Engine
	CronToken string
}

func NewHandler(engine *Engine, cronToken string) *Handler {
	return &Handler{Engine: engine, CronToken: cronToken}
}

// RegisterRoutes attaches reminder routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reminders/run", h.run)
	rg.POST("/cron/daily", h.cronDaily)
}

func (h *Handler) run(c *gin.Context) {
	username := middleware.UsernameFromContext(c)

	summary, err := h.Engine.RunForUser(c.Request.Context(), username)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "reminder run failed", nil)
		return
	}
	respond.OK(c, summary)
}

func (h *Handler) cronDaily(c *gin.Context) {
	token := c.GetHeader("X-Cron-Token")
	if token == "" {
		token = c.Query("token")
	}
	// An unset server token disables the endpoint outright.
	if h.CronToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.CronToken)) != 1 {
		respond.Error(c, http.StatusForbidden, "forbidden", "invalid cron token", nil)
		return
	}

	result, err := h.Engine.RunAll(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "storage_error", "reminder sweep failed", nil)
		return
	}
	respond.OK(c, result)
}
