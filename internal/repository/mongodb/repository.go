package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/juicepos/internal/domain/models"
)

// MongoDBRepository archives daily summaries, one document per business day.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "daily_summaries",
	}, nil
}

type lowStockDocument struct {
	ItemID string               `bson:"item_id"`
	Name   string               `bson:"name"`
	Qty    primitive.Decimal128 `bson:"qty"`
	Unit   string               `bson:"unit"`
}

type topProductDocument struct {
	Name  string `bson:"name"`
	Units int64  `bson:"units"`
}

type predictionDocument struct {
	Date           time.Time `bson:"date"`
	ProductID      string    `bson:"product_id,omitempty"`
	ProductName    string    `bson:"product_name"`
	PredictedUnits int64     `bson:"predicted_units"`
	Confidence     float64   `bson:"confidence"`
}

type dailySummaryDocument struct {
	Day         string               `bson:"day"`
	Date        time.Time            `bson:"date"`
	SalesTotal  primitive.Decimal128 `bson:"sales_total"`
	SalesCount  int                  `bson:"sales_count"`
	LowStock    []lowStockDocument   `bson:"low_stock"`
	TopProduct  *topProductDocument  `bson:"top_product,omitempty"`
	Predictions []predictionDocument `bson:"predictions"`
	CreatedAt   time.Time            `bson:"created_at"`
}

func toDocument(s models.DailySummary) (dailySummaryDocument, error) {
	total, err := primitive.ParseDecimal128(s.SalesTotal.String())
	if err != nil {
		return dailySummaryDocument{}, fmt.Errorf("convert sales total: %w", err)
	}

	doc := dailySummaryDocument{
		Day:         s.Date.Format("2006-01-02"),
		Date:        s.Date,
		SalesTotal:  total,
		SalesCount:  s.SalesCount,
		LowStock:    make([]lowStockDocument, 0, len(s.LowStock)),
		Predictions: make([]predictionDocument, 0, len(s.Predictions)),
		CreatedAt:   s.CreatedAt,
	}
	for _, l := range s.LowStock {
		qty, err := primitive.ParseDecimal128(l.Qty.String())
		if err != nil {
			return dailySummaryDocument{}, fmt.Errorf("convert qty of %s: %w", l.ID, err)
		}
		doc.LowStock = append(doc.LowStock, lowStockDocument{ItemID: l.ID, Name: l.Name, Qty: qty, Unit: l.Unit})
	}
	if s.TopProduct != nil {
		doc.TopProduct = &topProductDocument{Name: s.TopProduct.Name, Units: s.TopProduct.Units}
	}
	for _, p := range s.Predictions {
		doc.Predictions = append(doc.Predictions, predictionDocument{
			Date:           p.Date,
			ProductID:      p.ProductID,
			ProductName:    p.ProductName,
			PredictedUnits: p.PredictedUnits,
			Confidence:     p.ConfidenceOrDefault(),
		})
	}
	return doc, nil
}

// SaveDailySummary upserts the summary of its day; a later run for the same day replaces it.
func (r *MongoDBRepository) SaveDailySummary(ctx context.Context, summary models.DailySummary) error {
	doc, err := toDocument(summary)
	if err != nil {
		return err
	}

	collection := r.client.Database(r.dbName).Collection(r.collName)
	_, err = collection.ReplaceOne(ctx, bson.M{"day": doc.Day}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert daily summary: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
