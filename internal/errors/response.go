package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error envelope returned to the SPA.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable code (codes.go)
	Message string `json:"message"` // user-facing message (Bahasa Indonesia)
}

// RespondWithError writes the standard error envelope
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Shortcut helpers for the common cases

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Silakan login terlebih dahulu"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Anda tidak memiliki akses"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Terjadi kesalahan pada server. Silakan coba lagi"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

func BadGateway(c *gin.Context, message string) {
	if message == "" {
		message = "Layanan toko sedang tidak tersedia. Silakan coba lagi"
	}
	RespondWithError(c, http.StatusBadGateway, UpstreamUnavailable, message)
}
