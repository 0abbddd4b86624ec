package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/odonto/admin-api/pkg/errors"
	"github.com/odonto/admin-api/pkg/format"
)

// Response wraps all API responses
type Response struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Notice  *format.Notice `json:"notice,omitempty"`
	Data    interface{}    `json:"data,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   data,
	})
}

// RespondWithCreated sends a 201 with an operator notice.
func RespondWithCreated(c *gin.Context, message string, data interface{}) {
	n := format.Success(message)
	c.JSON(http.StatusCreated, Response{
		Status:  "success",
		Message: message,
		Notice:  &n,
		Data:    data,
	})
}

// RespondWithNotice sends a 200 carrying a success toast.
func RespondWithNotice(c *gin.Context, message string, data interface{}) {
	n := format.Success(message)
	c.JSON(http.StatusOK, Response{
		Status:  "success",
		Message: message,
		Notice:  &n,
		Data:    data,
	})
}

// RespondWithError sends an error response. AppErrors keep their message,
// anything else is reported as an internal error and attached to the context
// for the error middleware to log.
func RespondWithError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	message := "Erro interno do servidor"

	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		statusCode = appErr.StatusCode()
		message = appErr.Message
	}
	if statusCode >= http.StatusInternalServerError {
		_ = c.Error(err)
	}

	n := format.Failure(message)
	c.AbortWithStatusJSON(statusCode, Response{
		Status:  "error",
		Message: message,
		Notice:  &n,
	})
}

// RespondWithBadRequest is used for malformed input that never reaches a service.
func RespondWithBadRequest(c *gin.Context, message string) {
	RespondWithError(c, errors.Validation(message))
}

// FieldError is one failed binding rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var fieldMessages = map[string]string{
	"required": "campo obrigatório",
	"email":    "e-mail inválido",
	"datetime": "formato inválido",
	"oneof":    "valor não permitido",
	"gte":      "valor não pode ser negativo",
	"max":      "texto muito longo",
}

// RespondWithBindError renders a request that failed to bind or validate.
func RespondWithBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		RespondWithBadRequest(c, "Requisição inválida.")
		return
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		msg := fieldMessages[e.Tag()]
		if msg == "" {
			msg = e.Error()
		}
		fields = append(fields, FieldError{Field: e.Field(), Message: msg})
	}
	n := format.Failure("Dados inválidos.")
	c.AbortWithStatusJSON(http.StatusBadRequest, Response{
		Status:  "error",
		Message: "Dados inválidos.",
		Notice:  &n,
		Data:    fields,
	})
}
