package httperr

import (
	"net/http"

	"salon-scheduler/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// TokenNotFoundMessage is the single answer for every management token failure.
const TokenNotFoundMessage = "Appointment not found or link expired"

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		err = errs.New(msg)
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// StatusOf maps the usecase error taxonomy onto HTTP status codes.
func StatusOf(err error) int {
	switch {
	case errs.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errs.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errs.Is(err, errs.ErrInvalidInput):
		return http.StatusBadRequest
	case errs.Is(err, errs.ErrInvalidStatus):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithUsecaseError answers staff callers with the specific kind.
// Internal failures never leak their cause.
func AbortWithUsecaseError(c *gin.Context, err error) {
	status := StatusOf(err)
	var msg string
	switch status {
	case http.StatusNotFound:
		msg = "Appointment not found"
	case http.StatusConflict:
		msg = "Time slot unavailable"
	case http.StatusBadRequest:
		msg = "Invalid request"
	case http.StatusUnprocessableEntity:
		msg = "Status transition not allowed"
	default:
		msg = "Internal server error"
	}
	var detail any
	if status == http.StatusBadRequest || status == http.StatusUnprocessableEntity {
		detail = gin.H{"reason": rootMessage(err)}
	}
	AbortWithError(c, status, err, msg, detail)
}

// AbortWithPublicError answers anonymous callers without internal detail.
// Token failures always collapse to one 404 message.
func AbortWithPublicError(c *gin.Context, err error) {
	status := StatusOf(err)
	switch status {
	case http.StatusNotFound:
		AbortWithError(c, status, err, TokenNotFoundMessage, nil)
	case http.StatusConflict:
		AbortWithError(c, status, err, "Time slot unavailable", nil)
	case http.StatusBadRequest:
		AbortWithError(c, status, err, "Invalid request", gin.H{"reason": rootMessage(err)})
	case http.StatusUnprocessableEntity:
		AbortWithError(c, status, err, "Appointment can no longer be changed", nil)
	default:
		AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func rootMessage(err error) string {
	return errs.UnwrapAll(err).Error()
}
