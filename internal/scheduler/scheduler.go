package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/juicepos/internal/domain/models"
	"github.com/mamadbah2/juicepos/internal/service/reporting"
)

// SummaryBuilder produces (and archives) the daily summary.
type SummaryBuilder interface {
	ArchiveDailySummary(ctx context.Context, day time.Time) (models.DailySummary, error)
}

// Sender pushes the rendered summary to the owner.
type Sender interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) (models.NotificationLogEntry, error)
}

// Options configure the daily summary job.
type Options struct {
	Schedule       string
	Location       *time.Location
	OwnerPhone     string
	CurrencySymbol string
	Timeout        time.Duration
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron    *cron.Cron
	reports SummaryBuilder
	sender  Sender
	opts    Options
	logger  *zap.Logger
	now     func() time.Time
}

// NewScheduler creates a new scheduler instance. sender may be nil when no owner phone is
// configured; the summary is then only archived.
func NewScheduler(opts Options, reports SummaryBuilder, sender Sender, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}

	// robfig/cron/v3 default parser is standard cron (5 fields: min, hour, dom, month, dow).
	c := cron.New(cron.WithLocation(opts.Location))

	return &Scheduler{
		cron:    c,
		reports: reports,
		sender:  sender,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

// Start registers the daily summary job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.opts.Schedule))

	if _, err := s.cron.AddFunc(s.opts.Schedule, s.runScheduled); err != nil {
		return fmt.Errorf("schedule daily summary %q: %w", s.opts.Schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.Timeout)
	defer cancel()

	if err := s.RunDailySummary(ctx); err != nil {
		s.logger.Error("daily summary job failed", zap.Error(err))
	}
}

// RunDailySummary builds today's summary, archives it and sends it to the owner.
func (s *Scheduler) RunDailySummary(ctx context.Context) error {
	s.logger.Info("generating daily summary")

	summary, err := s.reports.ArchiveDailySummary(ctx, s.now().In(s.opts.Location))
	var archiveErr error
	if err != nil {
		if summary.Date.IsZero() {
			return fmt.Errorf("generate daily summary: %w", err)
		}
		// Built but not archived: still worth sending.
		archiveErr = err
	}

	if s.sender == nil || s.opts.OwnerPhone == "" {
		return archiveErr
	}

	req := models.OutboundMessageRequest{
		To:      s.opts.OwnerPhone,
		Message: reporting.FormatSummary(summary, s.opts.CurrencySymbol),
		Context: models.ContextDailySummary,
	}
	if _, err := s.sender.SendOutbound(ctx, req); err != nil {
		return errors.Join(archiveErr, fmt.Errorf("send daily summary: %w", err))
	}

	s.logger.Info("daily summary sent successfully")
	return archiveErr
}
