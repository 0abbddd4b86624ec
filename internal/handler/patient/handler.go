package patient

import (
	"github.com/gin-gonic/gin"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/internal/service/patient"
	"github.com/odonto/admin-api/pkg/httputil"
)

type Handler struct {
	service patient.PatientService
}

func NewHandler(service patient.PatientService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.POST("", h.CreatePatient)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)
	}
}

func (h *Handler) ListPatients(c *gin.Context) {
	list, err := h.service.ListPatients(c.Request.Context(), c.Query("search"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, list)
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	p, err := h.service.CreatePatient(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, patient.SavedMessage(true), p)
}

// GetPatient returns the side panel: info, prontuario and consultas.
func (h *Handler) GetPatient(c *gin.Context) {
	detail, err := h.service.GetPatientDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, detail)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	var req model.PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	p, err := h.service.UpdatePatient(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithNotice(c, patient.SavedMessage(false), p)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	p, err := h.service.DeletePatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithNotice(c, patient.DeletedMessage(p.Name), nil)
}
