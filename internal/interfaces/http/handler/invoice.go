package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/homelease/backend/internal/application/billing"
	"github.com/homelease/backend/internal/interfaces/http/middleware"
)

// InvoiceHandler handles invoice API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// RegisterRoutes registers invoice routes
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	read := middleware.RequireAnyPermission(middleware.PermissionBillingRead, middleware.PermissionBillingManage)
	manage := middleware.RequirePermission(middleware.PermissionBillingManage)

	invoices := rg.Group("/invoices")
	{
		invoices.GET("", read, h.List)
		invoices.GET("/overdue-summary", read, h.OverdueSummary)
		invoices.GET("/:id", read, h.GetByID)
		invoices.POST("/:id/issue", manage, h.Issue)
		invoices.POST("/:id/pay", manage, h.MarkPaid)
		invoices.POST("/:id/void", manage, h.Void)
		invoices.POST("/items/:itemId/reading", manage, h.ConfirmReading)
	}

	leases := rg.Group("/leases")
	{
		leases.GET("/:id/invoices", read, h.ListByLease)
	}
}

// List lists invoices with filtering and pagination.
// The status filter accepts OVERDUE in addition to the stored statuses.
func (h *InvoiceHandler) List(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var filter billingapp.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// GetByID retrieves an invoice by ID
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), orgID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// ListByLease lists every invoice of one lease
func (h *InvoiceHandler) ListByLease(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	leaseID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid lease ID format")
		return
	}

	invoices, err := h.invoiceService.ListByLease(c.Request.Context(), orgID, leaseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// ConfirmReading records the meter reading for one pending invoice item
func (h *InvoiceHandler) ConfirmReading(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req billingapp.ConfirmReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.ConfirmReading(c.Request.Context(), orgID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Issue moves a DRAFT invoice to ISSUED
func (h *InvoiceHandler) Issue(c *gin.Context) {
	h.transition(c, h.invoiceService.Issue)
}

// MarkPaid settles an ISSUED invoice
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	h.transition(c, h.invoiceService.MarkPaid)
}

// Void cancels a DRAFT or ISSUED invoice with a mandatory reason
func (h *InvoiceHandler) Void(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req billingapp.VoidInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.Void(c.Request.Context(), orgID, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// OverdueSummary returns the count and total of overdue invoices
func (h *InvoiceHandler) OverdueSummary(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	summary, err := h.invoiceService.OverdueSummary(c.Request.Context(), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

func (h *InvoiceHandler) transition(c *gin.Context, apply func(ctx context.Context, organizationID, invoiceID uuid.UUID) (*billingapp.InvoiceResponse, error)) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := apply(c.Request.Context(), orgID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}
