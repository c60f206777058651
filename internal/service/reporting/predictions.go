package reporting

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/juicepos/internal/domain/models"
	"github.com/mamadbah2/juicepos/internal/repository/records"
)

// AddPrediction stores an externally supplied forecast. When only the product id is given,
// the product name is filled from the catalog.
func (s *Service) AddPrediction(ctx context.Context, p models.Prediction) (models.Prediction, error) {
	if p.Date.IsZero() {
		return models.Prediction{}, models.Validationf("prediction date is required")
	}
	if p.PredictedUnits < 0 {
		return models.Prediction{}, models.Validationf("predictedUnits must not be negative")
	}
	if p.Confidence != nil && (*p.Confidence < 0 || *p.Confidence > 1) {
		return models.Prediction{}, models.Validationf("confidence must be between 0 and 1")
	}
	p.ProductID = strings.TrimSpace(p.ProductID)
	p.ProductName = strings.TrimSpace(p.ProductName)
	if p.ProductID == "" && p.ProductName == "" {
		return models.Prediction{}, models.Validationf("productId or productName is required")
	}

	err := s.db.Update(ctx, func(r records.Repos) error {
		if p.ProductID != "" && p.ProductName == "" {
			prod, err := r.Products.Get(p.ProductID)
			if err != nil {
				if models.IsNotFound(err) {
					return fmt.Errorf("%w: %w", models.ErrValidation, err)
				}
				return err
			}
			p.ProductName = prod.Name
		}
		p.ID = 0
		return r.Predictions.Append(&p)
	})
	if err != nil {
		return models.Prediction{}, err
	}

	s.logger.Info("prediction stored", zap.Int64("id", p.ID), zap.String("product", p.ProductName))
	return p, nil
}

// ListPredictions returns every stored forecast in insertion order.
func (s *Service) ListPredictions(ctx context.Context) ([]models.Prediction, error) {
	var out []models.Prediction
	err := s.db.View(ctx, func(r records.Repos) error {
		var err error
		out, err = r.Predictions.GetAll()
		return err
	})
	return out, err
}
