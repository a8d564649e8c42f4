package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	leasingapp "github.com/homelease/backend/internal/application/leasing"
	"github.com/homelease/backend/internal/domain/shared"
	"github.com/homelease/backend/internal/interfaces/http/dto"
	"github.com/homelease/backend/internal/interfaces/http/middleware"
)

// PropertyHandler handles apartment, room and tenant API endpoints
type PropertyHandler struct {
	BaseHandler
	propertyService *leasingapp.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(propertyService *leasingapp.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// RegisterRoutes registers property routes
func (h *PropertyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	read := middleware.RequireAnyPermission(middleware.PermissionLeasingRead, middleware.PermissionLeasingManage)
	manage := middleware.RequirePermission(middleware.PermissionLeasingManage)

	apartments := rg.Group("/apartments")
	{
		apartments.GET("", read, h.ListApartments)
		apartments.POST("", manage, h.CreateApartment)
		apartments.GET("/:id", read, h.GetApartment)
		apartments.DELETE("/:id", manage, h.DeleteApartment)
		apartments.GET("/:id/rooms", read, h.ListRooms)
	}

	rooms := rg.Group("/rooms")
	{
		rooms.POST("", manage, h.CreateRoom)
		rooms.GET("/:id", read, h.GetRoom)
		rooms.DELETE("/:id", manage, h.DeleteRoom)
	}

	tenants := rg.Group("/tenants")
	{
		tenants.GET("", read, h.ListTenants)
		tenants.POST("", manage, h.CreateTenant)
		tenants.GET("/:id", read, h.GetTenant)
		tenants.DELETE("/:id", manage, h.DeleteTenant)
	}
}

// CreateApartment creates an apartment
func (h *PropertyHandler) CreateApartment(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req leasingapp.CreateApartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	apartment, err := h.propertyService.CreateApartment(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, apartment)
}

// GetApartment retrieves an apartment by ID
func (h *PropertyHandler) GetApartment(c *gin.Context) {
	h.get(c, func(orgID, id uuid.UUID) (any, error) {
		return h.propertyService.GetApartment(c.Request.Context(), orgID, id)
	})
}

// ListApartments lists apartments with pagination
func (h *PropertyHandler) ListApartments(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	apartments, total, err := h.propertyService.ListApartments(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, apartments, total, filter.Page, filter.PageSize)
}

// DeleteApartment deletes an apartment
func (h *PropertyHandler) DeleteApartment(c *gin.Context) {
	h.delete(c, h.propertyService.DeleteApartment)
}

// CreateRoom creates a room within an apartment
func (h *PropertyHandler) CreateRoom(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req leasingapp.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	room, err := h.propertyService.CreateRoom(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, room)
}

// GetRoom retrieves a room by ID
func (h *PropertyHandler) GetRoom(c *gin.Context) {
	h.get(c, func(orgID, id uuid.UUID) (any, error) {
		return h.propertyService.GetRoom(c.Request.Context(), orgID, id)
	})
}

// ListRooms lists the rooms of an apartment
func (h *PropertyHandler) ListRooms(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	apartmentID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid apartment ID format")
		return
	}

	rooms, err := h.propertyService.ListRooms(c.Request.Context(), orgID, apartmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rooms)
}

// DeleteRoom deletes a room
func (h *PropertyHandler) DeleteRoom(c *gin.Context) {
	h.delete(c, h.propertyService.DeleteRoom)
}

// CreateTenant creates a tenant
func (h *PropertyHandler) CreateTenant(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req leasingapp.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tenant, err := h.propertyService.CreateTenant(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tenant)
}

// GetTenant retrieves a tenant by ID
func (h *PropertyHandler) GetTenant(c *gin.Context) {
	h.get(c, func(orgID, id uuid.UUID) (any, error) {
		return h.propertyService.GetTenant(c.Request.Context(), orgID, id)
	})
}

// ListTenants lists tenants with pagination
func (h *PropertyHandler) ListTenants(c *gin.Context) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	tenants, total, err := h.propertyService.ListTenants(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, tenants, total, filter.Page, filter.PageSize)
}

// DeleteTenant deletes a tenant
func (h *PropertyHandler) DeleteTenant(c *gin.Context) {
	h.delete(c, h.propertyService.DeleteTenant)
}

func (h *PropertyHandler) bindListFilter(c *gin.Context) (shared.Filter, bool) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return shared.Filter{}, false
	}
	req.Normalize()
	return shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}, true
}

func (h *PropertyHandler) get(c *gin.Context, find func(orgID, id uuid.UUID) (any, error)) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid ID format")
		return
	}

	result, err := find(orgID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *PropertyHandler) delete(c *gin.Context, remove func(ctx context.Context, organizationID, id uuid.UUID) error) {
	orgID, err := getOrganizationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid ID format")
		return
	}

	if err := remove(c.Request.Context(), orgID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
