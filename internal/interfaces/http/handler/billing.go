package handler

import (
	"github.com/gin-gonic/gin"

	billingapp "github.com/homelease/backend/internal/application/billing"
	"github.com/homelease/backend/internal/interfaces/http/middleware"
)

// BillingHandler exposes the billing run over HTTP.
// The scheduled run covers all organizations; this endpoint lets an
// operator bill their own organization on demand.
type BillingHandler struct {
	BaseHandler
	runService *billingapp.BillingRunService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(runService *billingapp.BillingRunService) *BillingHandler {
	return &BillingHandler{runService: runService}
}

// RegisterRoutes registers billing run routes
func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	manage := middleware.RequirePermission(middleware.PermissionBillingManage)

	billing := rg.Group("/billing")
	{
		billing.POST("/run", manage, h.Run)
	}
}

// BillingRunResponse summarizes one billing run
type BillingRunResponse struct {
	StartedAt       string                    `json:"started_at"`
	FinishedAt      string                    `json:"finished_at"`
	LeasesExamined  int                       `json:"leases_examined"`
	InvoicesCreated int                       `json:"invoices_created"`
	PeriodsSkipped  int                       `json:"periods_skipped"`
	OverdueDetected int                       `json:"overdue_detected"`
	Errors          []BillingRunErrorResponse `json:"errors"`
}

// BillingRunErrorResponse reports one failed lease within a run
type BillingRunErrorResponse struct {
	LeaseID     string `json:"lease_id"`
	LeaseNumber string `json:"lease_number"`
	Message     string `json:"message"`
}

// Run executes the billing run for the caller's organization.
// Re-running for an already billed period is a no-op, so the endpoint is
// safe to call repeatedly.
func (h *BillingHandler) Run(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	report, err := h.runService.RunForOrg(c.Request.Context(), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toBillingRunResponse(report))
}

func toBillingRunResponse(report *billingapp.BillingRunReport) BillingRunResponse {
	errs := make([]BillingRunErrorResponse, len(report.Errors))
	for i, e := range report.Errors {
		errs[i] = BillingRunErrorResponse{
			LeaseID:     e.LeaseID.String(),
			LeaseNumber: e.LeaseNumber,
			Message:     e.Error,
		}
	}
	return BillingRunResponse{
		StartedAt:       report.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		FinishedAt:      report.FinishedAt.Format("2006-01-02T15:04:05Z07:00"),
		LeasesExamined:  report.LeasesExamined,
		InvoicesCreated: report.InvoicesCreated,
		PeriodsSkipped:  report.PeriodsSkipped,
		OverdueDetected: report.OverdueDetected,
		Errors:          errs,
	}
}
