package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	appbilling "github.com/homelease/backend/internal/application/billing"
)

// BillingRunner executes one billing run across all organizations.
type BillingRunner interface {
	Run(ctx context.Context) (*appbilling.BillingRunReport, error)
}

// Config holds scheduling settings for the billing cron.
type Config struct {
	Enabled bool

	// CronSchedule is a standard 5-field cron expression evaluated in UTC.
	CronSchedule string

	// RunTimeout bounds a single billing run.
	RunTimeout time.Duration
}

// DefaultConfig returns the default billing cron configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		CronSchedule: "0 2 * * *",
		RunTimeout:   10 * time.Minute,
	}
}

// BillingCron fires the recurring billing run on a cron schedule.
type BillingCron struct {
	config Config
	runner BillingRunner
	logger *zap.Logger

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewBillingCron creates a billing cron trigger.
func NewBillingCron(config Config, runner BillingRunner, logger *zap.Logger) *BillingCron {
	return &BillingCron{
		config: config,
		runner: runner,
		logger: logger,
		cron:   cron.New(cron.WithLocation(time.UTC)),
	}
}

// Start registers the billing job and starts the cron loop.
func (b *BillingCron) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.isRunning {
		return nil
	}
	if !b.config.Enabled {
		b.logger.Info("Billing cron disabled")
		return nil
	}

	if _, err := b.cron.AddFunc(b.config.CronSchedule, b.runOnce); err != nil {
		return err
	}

	b.cron.Start()
	b.isRunning = true

	b.logger.Info("Billing cron started",
		zap.String("schedule", b.config.CronSchedule),
		zap.Duration("run_timeout", b.config.RunTimeout),
	)
	return nil
}

// Stop stops the cron loop and waits for an in-flight run to finish.
func (b *BillingCron) Stop(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.isRunning {
		return nil
	}
	b.isRunning = false

	done := b.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	b.logger.Info("Billing cron stopped")
	return nil
}

// TriggerNow runs the billing job immediately, outside the schedule.
func (b *BillingCron) TriggerNow(ctx context.Context) (*appbilling.BillingRunReport, error) {
	ctx, cancel := context.WithTimeout(ctx, b.config.RunTimeout)
	defer cancel()
	return b.runner.Run(ctx)
}

func (b *BillingCron) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), b.config.RunTimeout)
	defer cancel()

	report, err := b.runner.Run(ctx)
	if err != nil {
		b.logger.Error("Scheduled billing run failed", zap.Error(err))
		return
	}

	b.logger.Info("Scheduled billing run finished",
		zap.Int("leases_examined", report.LeasesExamined),
		zap.Int("invoices_created", report.InvoicesCreated),
		zap.Int("periods_skipped", report.PeriodsSkipped),
		zap.Int("overdue_detected", report.OverdueDetected),
		zap.Int("lease_errors", len(report.Errors)),
	)
}
