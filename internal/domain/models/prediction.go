package models

import "time"

// DefaultConfidence is shown for predictions supplied without one.
const DefaultConfidence = 0.8

// Prediction is an externally supplied demand forecast. It is stored and displayed only.
type Prediction struct {
	ID             int64     `json:"id"`
	Date           time.Time `json:"date" binding:"required"`
	ProductID      string    `json:"productId"`
	ProductName    string    `json:"productName"`
	PredictedUnits int64     `json:"predictedUnits"`
	Confidence     *float64  `json:"confidence,omitempty"`
}

// ConfidenceOrDefault returns the supplied confidence or DefaultConfidence.
func (p Prediction) ConfidenceOrDefault() float64 {
	if p.Confidence == nil {
		return DefaultConfidence
	}
	return *p.Confidence
}
