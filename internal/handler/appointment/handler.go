package appointment

import (
	"github.com/gin-gonic/gin"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/internal/service/appointment"
	"github.com/odonto/admin-api/pkg/httputil"
)

type Handler struct {
	service appointment.Service
}

func NewHandler(service appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("/today", h.ListToday)
		appointments.GET("/dentists", h.ListDentists)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PATCH("/:id/status", h.UpdateStatus)
		appointments.POST("/:id/cancel", h.CancelAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	a, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, appointment.CreatedMessage, a)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	a, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, a)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	a, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithNotice(c, appointment.StatusMessage(a.Status), a)
}

// CancelAppointment runs after the operator confirmed the dialog.
func (h *Handler) CancelAppointment(c *gin.Context) {
	a, err := h.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithNotice(c, appointment.StatusMessage(a.Status), a)
}

func (h *Handler) ListToday(c *gin.Context) {
	list, err := h.service.Today(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, list)
}

func (h *Handler) ListDentists(c *gin.Context) {
	httputil.RespondWithSuccess(c, h.service.Dentists())
}
