package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/juicepos/internal/domain/models"
)

// statusFor maps the error taxonomy to HTTP codes. Validation wins over not-found: a sale
// naming an unknown product is a bad request, not a missing route.
func statusFor(err error) int {
	switch {
	case models.IsValidation(err):
		return http.StatusBadRequest
	case models.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, models.ErrStorage):
		return http.StatusServiceUnavailable
	case errors.Is(err, models.ErrExternalChannel):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, zap.Error(err), zap.Int("status", status))
	} else {
		logger.Warn(msg, zap.Error(err), zap.Int("status", status))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, logger *zap.Logger, msg string, err error) {
	logger.Warn(msg, zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

// queryLimit reads ?limit=, defaulting to 0 (no limit).
func queryLimit(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, models.Validationf("limit must be a non-negative integer")
	}
	return n, nil
}
