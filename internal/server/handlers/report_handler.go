package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/juicepos/internal/domain/models"
)

// ReportingService describes the dashboard operations.
type ReportingService interface {
	DailySummary(ctx context.Context, day time.Time) (models.DailySummary, error)
	AddPrediction(ctx context.Context, p models.Prediction) (models.Prediction, error)
	ListPredictions(ctx context.Context) ([]models.Prediction, error)
}

// ReportHandler serves the dashboard and forecast records.
type ReportHandler struct {
	svc    ReportingService
	loc    *time.Location
	logger *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter. Dates in queries are read in loc.
func NewReportHandler(svc ReportingService, loc *time.Location, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{svc: svc, loc: loc, logger: logger}
}

// Daily returns the summary of ?date=YYYY-MM-DD, today by default.
func (h *ReportHandler) Daily(c *gin.Context) {
	day := time.Now().In(h.loc)
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.loc)
		if err != nil {
			writeError(c, h.logger, "invalid report date", models.Validationf("date must be YYYY-MM-DD"))
			return
		}
		day = parsed
	}

	summary, err := h.svc.DailySummary(c.Request.Context(), day)
	if err != nil {
		writeError(c, h.logger, "failed building daily summary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ReportHandler) AddPrediction(c *gin.Context) {
	var p models.Prediction
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, h.logger, "invalid prediction payload", err)
		return
	}
	stored, err := h.svc.AddPrediction(c.Request.Context(), p)
	if err != nil {
		writeError(c, h.logger, "failed storing prediction", err)
		return
	}
	c.JSON(http.StatusCreated, stored)
}

func (h *ReportHandler) ListPredictions(c *gin.Context) {
	preds, err := h.svc.ListPredictions(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "failed listing predictions", err)
		return
	}
	c.JSON(http.StatusOK, preds)
}
