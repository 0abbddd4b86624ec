package agenda

import (
	"github.com/gin-gonic/gin"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/internal/service/agenda"
	"github.com/odonto/admin-api/pkg/httputil"
)

type Handler struct {
	service agenda.Service
}

func NewHandler(service agenda.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/agenda")
	{
		g.GET("/week", h.GetWeek)
		g.POST("/move", h.MoveAppointment)
		g.GET("/cell", h.ClickCell)
		g.GET("/now", h.GetIndicator)
		g.GET("/calendar", h.GetCalendar)
	}
}

type weekResponse struct {
	*agenda.Week
	Cells     [][]agenda.Cell   `json:"cells"`
	Indicator *agenda.Indicator `json:"indicator,omitempty"`
}

// GetWeek serves ?start=YYYY-MM-DD (any day of the wanted week) and an
// optional nav=prev|next|today.
func (h *Handler) GetWeek(c *gin.Context) {
	week, err := h.service.WeekView(c.Request.Context(), c.Query("start"), agenda.Navigation(c.Query("nav")))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	resp := weekResponse{Week: week, Cells: week.Cells()}
	if ind, ok := h.service.Indicator(week.Start); ok {
		resp.Indicator = &ind
	}
	httputil.RespondWithSuccess(c, resp)
}

func (h *Handler) MoveAppointment(c *gin.Context) {
	var req model.MoveAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	res, err := h.service.Move(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithNotice(c, res.Message, res)
}

func (h *Handler) ClickCell(c *gin.Context) {
	action, err := h.service.Cell(c.Request.Context(), c.Query("date"), c.Query("time"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, action)
}

type indicatorResponse struct {
	Visible   bool              `json:"visible"`
	Indicator *agenda.Indicator `json:"indicator,omitempty"`
}

func (h *Handler) GetIndicator(c *gin.Context) {
	week, err := h.service.WeekView(c.Request.Context(), c.Query("start"), agenda.NavNone)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var resp indicatorResponse
	if ind, ok := h.service.Indicator(week.Start); ok {
		resp = indicatorResponse{Visible: true, Indicator: &ind}
	}
	httputil.RespondWithSuccess(c, resp)
}

func (h *Handler) GetCalendar(c *gin.Context) {
	month, err := h.service.Month(c.Request.Context(), c.Query("month"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, month)
}
