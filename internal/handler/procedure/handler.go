package procedure

import (
	"github.com/gin-gonic/gin"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/internal/service/procedure"
	"github.com/odonto/admin-api/pkg/httputil"
)

type Handler struct {
	service procedure.Service
}

func NewHandler(service procedure.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/procedures")
	{
		g.GET("", h.ListProcedures)
		g.POST("", h.CreateProcedure)
		g.GET("/:id", h.GetProcedure)
		g.PUT("/:id", h.UpdateProcedure)
		g.DELETE("/:id", h.DeleteProcedure)
	}
}

func (h *Handler) ListProcedures(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, list)
}

func (h *Handler) GetProcedure(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) CreateProcedure(c *gin.Context) {
	var req model.ProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}
	p, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, procedure.SavedMessage(true), p)
}

func (h *Handler) UpdateProcedure(c *gin.Context) {
	var req model.ProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}
	p, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithNotice(c, procedure.SavedMessage(false), p)
}

func (h *Handler) DeleteProcedure(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithNotice(c, procedure.DeletedMessage, nil)
}
