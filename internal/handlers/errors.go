package handlers

import (
	"errors"
	"net/http"

	"go-barcode-generator/internal/lotid"
	"go-barcode-generator/internal/scan"
	"go-barcode-generator/internal/services"
	"go-barcode-generator/internal/symbology"

	"github.com/gin-gonic/gin"
)

// respondError maps a domain error to a JSON error body.
func respondError(c *gin.Context, err error) {
	status, code := classify(err)
	c.JSON(status, gin.H{
		"error":   code,
		"message": err.Error(),
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, lotid.ErrInvalidSymbol), errors.Is(err, lotid.ErrInvalidLength):
		return http.StatusBadRequest, "INVALID_TOKEN"
	case errors.Is(err, services.ErrInvalidIndex), errors.Is(err, services.ErrInvalidSize):
		return http.StatusBadRequest, "INVALID_OPTION"
	case errors.Is(err, scan.ErrNotVerifiable):
		return http.StatusBadRequest, "UNSUPPORTED_FORMAT"
	case errors.Is(err, symbology.ErrEmptyContent),
		errors.Is(err, symbology.ErrInvalidOption),
		errors.Is(err, symbology.ErrUnsupportedFormat),
		errors.Is(err, services.ErrRenderFailed):
		return http.StatusUnprocessableEntity, "RENDER_FAILED"
	case errors.Is(err, scan.ErrNoCodeFound):
		return http.StatusUnprocessableEntity, "NO_CODE_FOUND"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   code,
		"message": message,
	})
}
