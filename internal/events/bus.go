// Package events dispatches domain events to the integrations that react to them once a
// transaction has committed.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/juicepos/internal/domain/models"
	"github.com/mamadbah2/juicepos/internal/metrics"
)

// ErrHandlerPanicked wraps the panic value of a handler that panicked.
var ErrHandlerPanicked = errors.New("event handler panicked")

// Handler reacts to a committed sale. Errors are reported back to the publisher but never
// undo the sale.
type Handler interface {
	Name() string
	HandleSaleRecorded(ctx context.Context, evt models.SaleRecorded) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc struct {
	HandlerName string
	Fn          func(ctx context.Context, evt models.SaleRecorded) error
}

func (h HandlerFunc) Name() string { return h.HandlerName }

func (h HandlerFunc) HandleSaleRecorded(ctx context.Context, evt models.SaleRecorded) error {
	return h.Fn(ctx, evt)
}

// Result is the outcome of one handler for one event.
type Result struct {
	Handler string
	Err     error
}

// Results is the ordered list of handler outcomes.
type Results []Result

// Err joins every handler error, or nil.
func (rs Results) Err() error {
	var errs []error
	for _, r := range rs {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}

// First returns the first error matching target, or nil.
func (rs Results) First(target error) error {
	for _, r := range rs {
		if r.Err != nil && errors.Is(r.Err, target) {
			return r.Err
		}
	}
	return nil
}

// Bus runs handlers synchronously, in subscription order.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	timeout  time.Duration
	metrics  *metrics.Registry
	logger   *zap.Logger
}

// NewBus builds a bus. A zero timeout leaves the caller's context as is.
func NewBus(timeout time.Duration, m *metrics.Registry, logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{timeout: timeout, metrics: m, logger: logger}
}

// Subscribe registers h for every following event.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
	b.logger.Info("event handler subscribed", zap.String("handler", h.Name()))
}

// PublishSaleRecorded hands evt to every handler. A failing handler does not stop the
// others.
func (b *Bus) PublishSaleRecorded(ctx context.Context, evt models.SaleRecorded) Results {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers...)
	b.mu.RUnlock()

	results := make(Results, 0, len(handlers))
	for _, h := range handlers {
		err := b.run(ctx, h, evt)
		results = append(results, Result{Handler: h.Name(), Err: err})

		if err != nil {
			b.logger.Warn("event handler failed",
				zap.String("handler", h.Name()),
				zap.String("event_id", evt.EventID),
				zap.Int64("sale_id", evt.Sale.ID),
				zap.Error(err),
			)
			if b.metrics != nil {
				b.metrics.EventHandlerErrors.WithLabelValues(h.Name()).Inc()
			}
			continue
		}
		if b.metrics != nil {
			b.metrics.EventsPublished.WithLabelValues(h.Name()).Inc()
		}
	}
	return results
}

func (b *Bus) run(ctx context.Context, h Handler, evt models.SaleRecorded) (err error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", zap.String("handler", h.Name()), zap.Any("panic", r))
			err = fmt.Errorf("%w: %s: %v", ErrHandlerPanicked, h.Name(), r)
		}
	}()
	return h.HandleSaleRecorded(ctx, evt)
}
