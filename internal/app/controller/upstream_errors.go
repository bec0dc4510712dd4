package controller

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"github.com/alienstore/storefront-gateway/internal/errors"
	"github.com/alienstore/storefront-gateway/internal/middleware"
	"github.com/alienstore/storefront-gateway/pkg/storeapi"
)

// respondUpstreamError translates upstream client failures into the standard
// error envelope. Upstream refusals carry user-facing copy already, so their
// message and status pass through verbatim.
func respondUpstreamError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	var apiErr *storeapi.APIError
	switch {
	case stderrors.Is(err, storeapi.ErrUnauthorized):
		errors.Unauthorized(c, "")
	case stderrors.Is(err, storeapi.ErrNotFound):
		errors.NotFound(c, errors.CartItemNotFound, "Data tidak ditemukan")
	case stderrors.As(err, &apiErr):
		errors.RespondWithError(c, apiErr.StatusCode, errors.CheckoutUpstreamError, apiErr.Message)
	case stderrors.Is(err, storeapi.ErrNetworkError):
		errors.BadGateway(c, "")
	default:
		log.Error("Unexpected upstream failure", err, map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		errors.BadGateway(c, "")
	}
}
