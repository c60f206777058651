package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/mamadbah2/juicepos/internal/domain/models"
)

// kafkaMessageWriter abstracts kafka.Writer for testability.
type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher streams SaleRecorded events to a topic, keyed by sale id.
type KafkaPublisher struct {
	writer kafkaMessageWriter
	logger *zap.Logger
}

// NewKafkaPublisher creates a publisher. brokers is a comma-separated list of host:port.
func NewKafkaPublisher(brokers, topic string, logger *zap.Logger) *KafkaPublisher {
	var addrs []string
	for _, a := range strings.Split(brokers, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	return newKafkaPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(addrs...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchSize:              1,
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}, logger)
}

func newKafkaPublisher(w kafkaMessageWriter, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaPublisher{writer: w, logger: logger}
}

func (k *KafkaPublisher) Name() string { return "kafka" }

// HandleSaleRecorded writes evt as one JSON message.
func (k *KafkaPublisher) HandleSaleRecorded(ctx context.Context, evt models.SaleRecorded) error {
	b, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal sale event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(evt.Sale.ID, 10)),
		Value: b,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte("SaleRecorded")},
			{Key: "event-id", Value: []byte(evt.EventID)},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish sale %d: %w", evt.Sale.ID, err)
	}
	k.logger.Debug("sale event published", zap.Int64("sale_id", evt.Sale.ID))
	return nil
}

// Close flushes pending writes.
func (k *KafkaPublisher) Close() error { return k.writer.Close() }
