package finance

import (
	"github.com/gin-gonic/gin"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/internal/service/finance"
	"github.com/odonto/admin-api/pkg/httputil"
)

type Handler struct {
	service finance.Service
}

func NewHandler(service finance.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/transactions")
	{
		g.GET("", h.GetSummary)
		g.GET("/options", h.GetOptions)
		g.POST("", h.CreateTransaction)
		g.DELETE("/:id", h.DeleteTransaction)
	}
}

// GetSummary serves ?period=semana|mes|ano&filter=todos|receita|despesa.
func (h *Handler) GetSummary(c *gin.Context) {
	sum, err := h.service.Summary(c.Request.Context(),
		model.Period(c.Query("period")),
		model.TransactionFilter(c.Query("filter")))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, sum)
}

func (h *Handler) GetOptions(c *gin.Context) {
	httputil.RespondWithSuccess(c, gin.H{
		"methods":    model.PaymentMethods,
		"categories": model.TransactionCategories,
	})
}

func (h *Handler) CreateTransaction(c *gin.Context) {
	var req model.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}
	tx, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, finance.CreatedMessage, tx)
}

func (h *Handler) DeleteTransaction(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithNotice(c, finance.DeletedMessage, nil)
}
