package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/juicepos/internal/domain/models"
	"github.com/mamadbah2/juicepos/internal/service/sales"
)

// SalesService describes the checkout operations.
type SalesService interface {
	RecordSale(ctx context.Context, req models.SaleRequest) (sales.Receipt, error)
	ListSales(ctx context.Context, limit int) ([]models.Sale, error)
}

// SalesHandler serves the POS checkout.
type SalesHandler struct {
	svc    SalesService
	logger *zap.Logger
}

// NewSalesHandler constructs the HTTP handler adapter.
func NewSalesHandler(svc SalesService, logger *zap.Logger) *SalesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesHandler{svc: svc, logger: logger}
}

type billStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type saleResponse struct {
	Sale models.Sale `json:"sale"`
	Bill billStatus  `json:"bill"`
}

// RecordSale commits a checkout. A bill that could not be delivered does not fail the
// request; it is reported in the bill field.
func (h *SalesHandler) RecordSale(c *gin.Context) {
	var req models.SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid sale payload", err)
		return
	}

	receipt, err := h.svc.RecordSale(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, "failed recording sale", err)
		return
	}

	bill := billStatus{Status: "skipped"}
	switch {
	case receipt.NotificationErr != nil:
		bill = billStatus{Status: string(models.NotificationFailed), Error: receipt.NotificationErr.Error()}
	case receipt.Sale.Customer != nil:
		bill.Status = string(models.NotificationSent)
	}

	c.JSON(http.StatusCreated, saleResponse{Sale: receipt.Sale, Bill: bill})
}

func (h *SalesHandler) ListSales(c *gin.Context) {
	limit, err := queryLimit(c)
	if err != nil {
		writeError(c, h.logger, "invalid sales query", err)
		return
	}
	list, err := h.svc.ListSales(c.Request.Context(), limit)
	if err != nil {
		writeError(c, h.logger, "failed listing sales", err)
		return
	}
	c.JSON(http.StatusOK, list)
}
