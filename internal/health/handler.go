package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tailor-backend/internal/shared/server/respond"
)

// Handler serves the liveness and readiness endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the probe endpoints directly on the engine;
// they sit outside the identity-scoped API group.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.healthz)
	r.GET("/readyz", h.readyz)
}

func (h *Handler) healthz(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) readyz(c *gin.Context) {
	ready, checks := h.Svc.Readiness(c.Request.Context())
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	respond.JSON(c, status, gin.H{
		"ready":  ready,
		"checks": checks,
	})
}
