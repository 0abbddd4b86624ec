package notification

import (
	"github.com/gin-gonic/gin"

	"github.com/odonto/admin-api/internal/service/notification"
	"github.com/odonto/admin-api/pkg/httputil"
)

type Handler struct {
	service notification.Service
}

func NewHandler(service notification.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/notifications")
	{
		g.GET("", h.ListNotifications)
		g.GET("/count", h.CountPending)
		g.POST("/:id/confirm", h.ConfirmPayment)
	}
}

// ListNotifications recomputes the panel, as opening it does.
func (h *Handler) ListNotifications(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, list)
}

func (h *Handler) CountPending(c *gin.Context) {
	n, err := h.service.PendingCount(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"count": n})
}

func (h *Handler) ConfirmPayment(c *gin.Context) {
	res, err := h.service.ConfirmPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithNotice(c, res.Message, res.Transaction)
}
