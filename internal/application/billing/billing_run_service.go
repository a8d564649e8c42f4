package billing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/homelease/backend/internal/domain/billing"
	"github.com/homelease/backend/internal/domain/leasing"
	"github.com/homelease/backend/internal/domain/shared"
)

// LeaseRunError records one lease the billing run could not bill. The run
// keeps going; a misconfigured lease never blocks the others.
type LeaseRunError struct {
	LeaseID     uuid.UUID `json:"lease_id"`
	LeaseNumber string    `json:"lease_number"`
	Error       string    `json:"error"`
}

// BillingRunReport summarizes one billing run.
type BillingRunReport struct {
	StartedAt       time.Time       `json:"started_at"`
	FinishedAt      time.Time       `json:"finished_at"`
	LeasesExamined  int             `json:"leases_examined"`
	InvoicesCreated int             `json:"invoices_created"`
	PeriodsSkipped  int             `json:"periods_skipped"`
	OverdueDetected int             `json:"overdue_detected"`
	Errors          []LeaseRunError `json:"errors,omitempty"`
}

// BillingRunService materializes invoices for every billing period that has
// begun. Runs are idempotent: re-running over already-billed periods only
// bumps the skipped counter.
type BillingRunService struct {
	leaseRepo   leasing.LeaseRepository
	invoiceRepo billing.InvoiceRepository
	eventBus    shared.EventBus
	clock       shared.Clock
	logger      *zap.Logger
	policy      billing.BuilderPolicy
	workerCount int
}

// BillingRunOption is a functional option for configuring BillingRunService
type BillingRunOption func(*BillingRunService)

// WithClock injects a clock, letting tests pin the run to a fixed instant
func WithClock(clock shared.Clock) BillingRunOption {
	return func(s *BillingRunService) {
		s.clock = clock
	}
}

// WithWorkerCount sets how many leases are billed concurrently
func WithWorkerCount(n int) BillingRunOption {
	return func(s *BillingRunService) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithBuilderPolicy sets the invoice construction policy
func WithBuilderPolicy(policy billing.BuilderPolicy) BillingRunOption {
	return func(s *BillingRunService) {
		s.policy = policy
	}
}

// NewBillingRunService creates a new BillingRunService
func NewBillingRunService(
	leaseRepo leasing.LeaseRepository,
	invoiceRepo billing.InvoiceRepository,
	eventBus shared.EventBus,
	logger *zap.Logger,
	opts ...BillingRunOption,
) *BillingRunService {
	s := &BillingRunService{
		leaseRepo:   leaseRepo,
		invoiceRepo: invoiceRepo,
		eventBus:    eventBus,
		clock:       shared.SystemClock{},
		logger:      logger,
		policy:      billing.BuilderPolicy{},
		workerCount: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run bills every active lease across all organizations. The scheduler
// invokes this on its cron cadence.
func (s *BillingRunService) Run(ctx context.Context) (*BillingRunReport, error) {
	leases, err := s.leaseRepo.FindBillable(ctx)
	if err != nil {
		return nil, err
	}
	report := s.billLeases(ctx, leases)

	overdue, err := s.invoiceRepo.FindIssuedDueBefore(ctx, s.clock.Now())
	if err != nil {
		return nil, err
	}
	s.sweepOverdue(ctx, overdue, report)

	report.FinishedAt = s.clock.Now()
	s.logRun(report)
	return report, nil
}

// RunForOrg bills the active leases of a single organization.
func (s *BillingRunService) RunForOrg(ctx context.Context, organizationID uuid.UUID) (*BillingRunReport, error) {
	leases, err := s.leaseRepo.FindBillableForOrg(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	report := s.billLeases(ctx, leases)

	overdue, err := s.invoiceRepo.FindIssuedDueBeforeForOrg(ctx, organizationID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	s.sweepOverdue(ctx, overdue, report)

	report.FinishedAt = s.clock.Now()
	s.logRun(report)
	return report, nil
}

// billLeases fans the lease set out over a bounded worker pool and merges
// the per-lease results into one report.
func (s *BillingRunService) billLeases(ctx context.Context, leases []leasing.Lease) *BillingRunReport {
	report := &BillingRunReport{
		StartedAt:      s.clock.Now(),
		LeasesExamined: len(leases),
	}

	workers := s.workerCount
	if workers > len(leases) {
		workers = len(leases)
	}
	if workers < 1 {
		return report
	}

	jobs := make(chan *leasing.Lease)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for lease := range jobs {
				created, skipped, err := s.billLease(ctx, lease)
				mu.Lock()
				report.InvoicesCreated += created
				report.PeriodsSkipped += skipped
				if err != nil {
					report.Errors = append(report.Errors, LeaseRunError{
						LeaseID:     lease.ID,
						LeaseNumber: lease.LeaseNumber,
						Error:       err.Error(),
					})
				}
				mu.Unlock()
			}
		}()
	}

	for i := range leases {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return report
		case jobs <- &leases[i]:
		}
	}
	close(jobs)
	wg.Wait()

	return report
}

// billLease materializes every period of one lease that has begun and still
// fits before the lease end date. Duplicate periods count as skipped.
func (s *BillingRunService) billLease(ctx context.Context, lease *leasing.Lease) (created, skipped int, err error) {
	asOf := s.clock.Now()

	lastEnd, err := s.invoiceRepo.LastPeriodEnd(ctx, lease.ID)
	if err != nil {
		return 0, 0, err
	}
	next := lease.StartDate
	if lastEnd.After(next) {
		next = lastEnd
	}

	for !next.After(asOf) {
		index, idxErr := lease.PeriodIndexOf(next)
		if idxErr != nil {
			return created, skipped, idxErr
		}
		period := lease.PeriodAt(index)
		if period.End.After(lease.EndDate) {
			break
		}

		baselines, blErr := s.invoiceRepo.LastMeterReadings(ctx, lease.ID)
		if blErr != nil {
			return created, skipped, blErr
		}

		inv, buildErr := billing.BuildInvoice(lease, period.Start, baselines, s.policy)
		if buildErr != nil {
			return created, skipped, buildErr
		}

		createErr := s.invoiceRepo.Create(ctx, inv)
		switch {
		case createErr == nil:
			created++
			s.publishEvents(ctx, inv)
			s.logger.Info("Invoice created",
				zap.String("lease_number", lease.LeaseNumber),
				zap.String("invoice_number", inv.InvoiceNumber),
				zap.String("period", inv.Period().String()),
			)
		case billing.IsDuplicatePeriod(createErr):
			skipped++
		default:
			return created, skipped, createErr
		}

		next = period.End
	}

	return created, skipped, nil
}

// sweepOverdue emits an InvoiceOverdue event for every issued invoice past
// its due date. The stored status is never touched; overdue is derived.
func (s *BillingRunService) sweepOverdue(ctx context.Context, invoices []*billing.Invoice, report *BillingRunReport) {
	now := s.clock.Now()
	for _, inv := range invoices {
		if !inv.IsOverdue(now) {
			continue
		}
		report.OverdueDetected++
		if s.eventBus != nil {
			_ = s.eventBus.Publish(ctx, billing.NewInvoiceOverdueEvent(inv, now))
		}
	}
}

// publishEvents publishes domain events from the aggregate
func (s *BillingRunService) publishEvents(ctx context.Context, inv *billing.Invoice) {
	if s.eventBus == nil {
		return
	}
	for _, event := range inv.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	inv.ClearDomainEvents()
}

// logRun logs the run summary at a level matching its outcome
func (s *BillingRunService) logRun(report *BillingRunReport) {
	fields := []zap.Field{
		zap.Int("leases_examined", report.LeasesExamined),
		zap.Int("invoices_created", report.InvoicesCreated),
		zap.Int("periods_skipped", report.PeriodsSkipped),
		zap.Int("overdue_detected", report.OverdueDetected),
		zap.Int("errors", len(report.Errors)),
		zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)),
	}
	if len(report.Errors) > 0 {
		s.logger.Warn("Billing run finished with errors", fields...)
		return
	}
	s.logger.Info("Billing run finished", fields...)
}
