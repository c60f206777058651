package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/juicepos/internal/domain/models"
)

// MessagingService describes the operations the HTTP layer can perform on the outbound channel.
type MessagingService interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) (models.NotificationLogEntry, error)
	ListLogs(ctx context.Context, limit int) ([]models.NotificationLogEntry, error)
}

// MessagingHandler handles outbound WhatsApp HTTP requests.
type MessagingHandler struct {
	svc    MessagingService
	logger *zap.Logger
}

// NewMessagingHandler constructs the HTTP handler adapter.
func NewMessagingHandler(svc MessagingService, logger *zap.Logger) *MessagingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessagingHandler{svc: svc, logger: logger}
}

// SendMessage allows sending manual messages to staff or customers.
func (h *MessagingHandler) SendMessage(c *gin.Context) {
	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid outbound payload", err)
		return
	}

	entry, err := h.svc.SendOutbound(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, "failed sending outbound", err)
		return
	}

	c.JSON(http.StatusAccepted, entry)
}

// ListNotifications returns the outbound message log, newest first.
func (h *MessagingHandler) ListNotifications(c *gin.Context) {
	limit, err := queryLimit(c)
	if err != nil {
		writeError(c, h.logger, "invalid notifications query", err)
		return
	}
	logs, err := h.svc.ListLogs(c.Request.Context(), limit)
	if err != nil {
		writeError(c, h.logger, "failed listing notifications", err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
