// Package notifications sends customer bills and operator messages over WhatsApp and keeps
// the outbound message log.
package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/juicepos/internal/domain/models"
	"github.com/mamadbah2/juicepos/internal/metrics"
	"github.com/mamadbah2/juicepos/internal/repository/records"
	client "github.com/mamadbah2/juicepos/pkg/clients/whatsapp"
)

// Options tune message rendering and delivery.
type Options struct {
	DefaultCountryCode string
	CurrencySymbol     string
	SendTimeout        time.Duration
}

const logWriteTimeout = 5 * time.Second

// Service delivers messages and records every attempt.
type Service struct {
	db      *records.DB
	client  client.Client
	opts    Options
	metrics *metrics.Registry
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a new notification service instance. m may be nil.
func NewService(db *records.DB, c client.Client, opts Options, m *metrics.Registry, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "₹"
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 4 * time.Second
	}
	return &Service{db: db, client: c, opts: opts, metrics: m, logger: logger, now: time.Now}
}

// Name identifies the service as an event handler.
func (s *Service) Name() string { return "bill" }

// HandleSaleRecorded sends the bill of a committed sale to its customer, if one was given.
func (s *Service) HandleSaleRecorded(ctx context.Context, evt models.SaleRecorded) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("bill handler panicked", zap.Int64("sale_id", evt.Sale.ID), zap.Any("panic", r))
			err = fmt.Errorf("%w: bill for sale %d: %v", models.ErrExternalChannel, evt.Sale.ID, r)
		}
	}()
	if evt.Sale.Customer == nil || strings.TrimSpace(evt.Sale.Customer.Phone) == "" {
		return nil
	}
	_, err = s.deliver(ctx, evt.Sale.Customer.Phone, FormatBill(evt.Sale, s.opts.CurrencySymbol), models.ContextCustomerBill, false)
	return err
}

// SendOutbound lets operators push a message through the same channel. The attempt is
// logged with the Manual context unless the request names one.
func (s *Service) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) (models.NotificationLogEntry, error) {
	if strings.TrimSpace(req.To) == "" {
		return models.NotificationLogEntry{}, models.Validationf("recipient is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		return models.NotificationLogEntry{}, models.Validationf("message is required")
	}
	msgContext := req.Context
	if msgContext == "" {
		msgContext = models.ContextManual
	}
	return s.deliver(ctx, req.To, req.Message, msgContext, req.PreviewURL)
}

// deliver submits one message and appends the outcome to the log. The returned entry is
// valid whenever the log write succeeded, even if the channel failed.
func (s *Service) deliver(ctx context.Context, rawTo, message, msgContext string, preview bool) (models.NotificationLogEntry, error) {
	entry := models.NotificationLogEntry{
		To:      NormalizePhone(rawTo, s.opts.DefaultCountryCode),
		Message: message,
		Context: msgContext,
		Date:    s.now().UTC(),
		Status:  models.NotificationSent,
	}

	var sendErr error
	if entry.To == "" {
		entry.To = strings.TrimSpace(rawTo)
		sendErr = fmt.Errorf("%w: phone %q has no digits", models.ErrExternalChannel, rawTo)
	} else {
		resp, err := s.send(ctx, client.SendTextMessageRequest{
			To:         entry.To,
			Body:       message,
			PreviewURL: preview,
		})
		if err != nil {
			sendErr = fmt.Errorf("%w: %w", models.ErrExternalChannel, err)
		} else if resp != nil {
			entry.MessageID = resp.MessageID()
			entry.Link = resp.Link
		}
	}

	if sendErr != nil {
		entry.Status = models.NotificationFailed
		entry.Error = sendErr.Error()
	}

	// The send may have used up the caller's deadline; the outcome is still recorded.
	logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logWriteTimeout)
	defer cancel()
	logErr := s.db.Update(logCtx, func(r records.Repos) error {
		return r.Notifications.Append(&entry)
	})

	s.observe(entry, sendErr)
	if logErr != nil {
		s.logger.Error("failed to log notification", zap.String("context", msgContext), zap.Error(logErr))
		if sendErr != nil {
			return entry, sendErr
		}
		return entry, fmt.Errorf("log notification: %w", logErr)
	}
	return entry, sendErr
}

// send calls the channel under the send timeout. A panicking client counts as a failed send.
func (s *Service) send(ctx context.Context, req client.SendTextMessageRequest) (resp *client.SendTextMessageResponse, err error) {
	sendCtx, cancel := context.WithTimeout(ctx, s.opts.SendTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, fmt.Errorf("client panicked: %v", r)
		}
	}()
	return s.client.SendTextMessage(sendCtx, req)
}

func (s *Service) observe(entry models.NotificationLogEntry, err error) {
	if err != nil {
		s.logger.Warn("notification failed",
			zap.String("to", entry.To),
			zap.String("context", entry.Context),
			zap.Error(err),
		)
		if s.metrics != nil {
			s.metrics.NotificationsFailed.Inc()
		}
		return
	}
	s.logger.Info("notification sent", zap.String("to", entry.To), zap.String("context", entry.Context))
	if s.metrics != nil {
		s.metrics.NotificationsSent.Inc()
	}
}

// ListLogs returns the message log newest first. A non-positive limit returns everything.
func (s *Service) ListLogs(ctx context.Context, limit int) ([]models.NotificationLogEntry, error) {
	var out []models.NotificationLogEntry
	err := s.db.View(ctx, func(r records.Repos) error {
		all, err := r.Notifications.GetAll()
		if err != nil {
			return err
		}
		out = make([]models.NotificationLogEntry, 0, len(all))
		for i := len(all) - 1; i >= 0; i-- {
			if limit > 0 && len(out) == limit {
				break
			}
			out = append(out, all[i])
		}
		return nil
	})
	return out, err
}
