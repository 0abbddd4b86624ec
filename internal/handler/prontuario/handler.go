package prontuario

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/internal/service/prontuario"
	"github.com/odonto/admin-api/pkg/httputil"
)

const maxUploadMemory = 32 << 20

type Handler struct {
	service prontuario.Service
	logger  zerolog.Logger
}

func NewHandler(service prontuario.Service, logger zerolog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/patients/:id/prontuario")
	{
		g.GET("", h.ListEntries)
		g.POST("", h.AddEntry)
	}
}

func (h *Handler) ListEntries(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, entries)
}

// AddEntry accepts multipart/form-data with the entry fields and any number
// of "files" parts, or plain JSON without files.
func (h *Handler) AddEntry(c *gin.Context) {
	var req model.ProntuarioRequest
	if err := c.ShouldBind(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	var uploads []prontuario.Upload
	if form, err := c.MultipartForm(); err == nil {
		for _, fh := range form.File["files"] {
			up, closeFn, err := open(fh)
			if err != nil {
				h.logger.Warn().Err(err).Str("file", fh.Filename).Msg("unreadable upload skipped")
				continue
			}
			defer closeFn()
			uploads = append(uploads, up)
		}
	} else if err != http.ErrNotMultipart {
		h.logger.Debug().Err(err).Msg("no multipart form")
	}

	entry, err := h.service.AddEntry(c.Request.Context(), c.Param("id"), &req, uploads)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, prontuario.CreatedMessage, entry)
}

func open(fh *multipart.FileHeader) (prontuario.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return prontuario.Upload{}, nil, err
	}
	return prontuario.Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}, func() { _ = f.Close() }, nil
}
