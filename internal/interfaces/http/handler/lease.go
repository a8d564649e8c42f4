package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	leasingapp "github.com/homelease/backend/internal/application/leasing"
	"github.com/homelease/backend/internal/interfaces/http/middleware"
)

// LeaseHandler handles lease API endpoints
type LeaseHandler struct {
	BaseHandler
	leaseService *leasingapp.LeaseService
}

// NewLeaseHandler creates a new LeaseHandler
func NewLeaseHandler(leaseService *leasingapp.LeaseService) *LeaseHandler {
	return &LeaseHandler{leaseService: leaseService}
}

// RegisterRoutes registers lease routes
func (h *LeaseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	read := middleware.RequireAnyPermission(middleware.PermissionLeasingRead, middleware.PermissionLeasingManage)
	manage := middleware.RequirePermission(middleware.PermissionLeasingManage)

	leases := rg.Group("/leases")
	{
		leases.GET("", read, h.List)
		leases.POST("", manage, h.Create)
		leases.GET("/:id", read, h.GetByID)
		leases.POST("/:id/activate", manage, h.Activate)
		leases.POST("/:id/end", manage, h.End)
		leases.POST("/:id/terminate", manage, h.Terminate)
		leases.POST("/:id/charges", manage, h.AddCharge)
		leases.DELETE("/:id/charges/:chargeId", manage, h.DeactivateCharge)
	}
}

// Create creates a new lease in DRAFT status
func (h *LeaseHandler) Create(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req leasingapp.CreateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lease, err := h.leaseService.Create(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, lease)
}

// GetByID retrieves a lease by ID
func (h *LeaseHandler) GetByID(c *gin.Context) {
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

	lease, err := h.leaseService.GetByID(c.Request.Context(), orgID, leaseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lease)
}

// List lists leases with filtering and pagination
func (h *LeaseHandler) List(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var filter leasingapp.LeaseListFilter
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

	leases, total, err := h.leaseService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, leases, total, filter.Page, filter.PageSize)
}

// Activate moves a DRAFT lease to ACTIVE
func (h *LeaseHandler) Activate(c *gin.Context) {
	h.transition(c, h.leaseService.Activate)
}

// End closes an ACTIVE lease at its natural end date
func (h *LeaseHandler) End(c *gin.Context) {
	h.transition(c, h.leaseService.End)
}

// Terminate cuts an ACTIVE lease short
func (h *LeaseHandler) Terminate(c *gin.Context) {
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

	var req leasingapp.TerminateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lease, err := h.leaseService.Terminate(c.Request.Context(), orgID, leaseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lease)
}

// AddCharge adds a recurring charge to a lease
func (h *LeaseHandler) AddCharge(c *gin.Context) {
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

	var req leasingapp.CreateChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lease, err := h.leaseService.AddCharge(c.Request.Context(), orgID, leaseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lease)
}

// DeactivateCharge stops billing a recurring charge
func (h *LeaseHandler) DeactivateCharge(c *gin.Context) {
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
	chargeID, err := parseIDParam(c, "chargeId")
	if err != nil {
		h.BadRequest(c, "Invalid charge ID format")
		return
	}

	lease, err := h.leaseService.DeactivateCharge(c.Request.Context(), orgID, leaseID, chargeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lease)
}

func (h *LeaseHandler) transition(c *gin.Context, apply func(ctx context.Context, organizationID, id uuid.UUID) (*leasingapp.LeaseResponse, error)) {
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

	lease, err := apply(c.Request.Context(), orgID, leaseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lease)
}
