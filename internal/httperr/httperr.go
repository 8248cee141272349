package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// statusByCode maps business codes to HTTP statuses. Unknown codes are
// treated as validation failures.
var statusByCode = map[string]int{
	"booking_not_found":      http.StatusNotFound,
	"counsellor_not_found":   http.StatusNotFound,
	"notification_not_found": http.StatusNotFound,
	"invalid_credentials":    http.StatusUnauthorized,
	"forbidden":              http.StatusForbidden,
	"time_conflict":          http.StatusConflict,
	"slot_unavailable":       http.StatusConflict,
	"invalid_transition":     http.StatusConflict,
	"too_early":              http.StatusConflict,
	"counsellor_unavailable": http.StatusConflict,
	"email_taken":            http.StatusConflict,
}

// FromError writes the response for a usecase error. Business errors keep
// their code; anything else becomes a 500 with the given fallback code.
func FromError(c *gin.Context, err error, fallbackCode string) {
	code := CodeOf(err)
	if code == "" {
		Internal(c, fallbackCode, "Unexpected error.")
		return
	}

	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusBadRequest
	}
	Write(c, status, code, err.Error())
}
