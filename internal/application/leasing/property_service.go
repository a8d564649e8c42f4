package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/homelease/backend/internal/domain/leasing"
	"github.com/homelease/backend/internal/domain/shared"
)

// ApartmentResponse represents an apartment in API responses
type ApartmentResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomResponse represents a room in API responses
type RoomResponse struct {
	ID          uuid.UUID `json:"id"`
	ApartmentID uuid.UUID `json:"apartment_id"`
	Name        string    `json:"name"`
	SquareM     int       `json:"square_m"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateApartmentRequest represents a request to create an apartment
type CreateApartmentRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// CreateRoomRequest represents a request to create a room
type CreateRoomRequest struct {
	ApartmentID uuid.UUID `json:"apartment_id" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	SquareM     int       `json:"square_m" binding:"min=0"`
}

// CreateTenantRequest represents a request to register a tenant
type CreateTenantRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}

// PropertyService provides application-level property management operations
type PropertyService struct {
	apartmentRepo leasing.ApartmentRepository
	roomRepo      leasing.RoomRepository
	tenantRepo    leasing.TenantRepository
}

// NewPropertyService creates a new PropertyService
func NewPropertyService(
	apartmentRepo leasing.ApartmentRepository,
	roomRepo leasing.RoomRepository,
	tenantRepo leasing.TenantRepository,
) *PropertyService {
	return &PropertyService{
		apartmentRepo: apartmentRepo,
		roomRepo:      roomRepo,
		tenantRepo:    tenantRepo,
	}
}

// CreateApartment creates a new apartment
func (s *PropertyService) CreateApartment(ctx context.Context, organizationID uuid.UUID, req CreateApartmentRequest) (*ApartmentResponse, error) {
	apartment, err := leasing.NewApartment(organizationID, req.Name, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.apartmentRepo.Save(ctx, apartment); err != nil {
		return nil, err
	}
	return toApartmentResponse(apartment), nil
}

// GetApartment retrieves an apartment by ID
func (s *PropertyService) GetApartment(ctx context.Context, organizationID, id uuid.UUID) (*ApartmentResponse, error) {
	apartment, err := s.apartmentRepo.FindByIDForOrg(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return toApartmentResponse(apartment), nil
}

// ListApartments retrieves a paginated apartment list
func (s *PropertyService) ListApartments(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]ApartmentResponse, int64, error) {
	apartments, err := s.apartmentRepo.FindAllForOrg(ctx, organizationID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.apartmentRepo.CountForOrg(ctx, organizationID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ApartmentResponse, 0, len(apartments))
	for i := range apartments {
		responses = append(responses, *toApartmentResponse(&apartments[i]))
	}
	return responses, total, nil
}

// DeleteApartment removes an apartment
func (s *PropertyService) DeleteApartment(ctx context.Context, organizationID, id uuid.UUID) error {
	return s.apartmentRepo.DeleteForOrg(ctx, organizationID, id)
}

// CreateRoom creates a new room inside an apartment
func (s *PropertyService) CreateRoom(ctx context.Context, organizationID uuid.UUID, req CreateRoomRequest) (*RoomResponse, error) {
	if _, err := s.apartmentRepo.FindByIDForOrg(ctx, organizationID, req.ApartmentID); err != nil {
		return nil, err
	}

	room, err := leasing.NewRoom(organizationID, req.ApartmentID, req.Name, req.SquareM)
	if err != nil {
		return nil, err
	}
	if err := s.roomRepo.Save(ctx, room); err != nil {
		return nil, err
	}
	return toRoomResponse(room), nil
}

// GetRoom retrieves a room by ID
func (s *PropertyService) GetRoom(ctx context.Context, organizationID, id uuid.UUID) (*RoomResponse, error) {
	room, err := s.roomRepo.FindByIDForOrg(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return toRoomResponse(room), nil
}

// ListRooms retrieves the rooms of one apartment
func (s *PropertyService) ListRooms(ctx context.Context, organizationID, apartmentID uuid.UUID) ([]RoomResponse, error) {
	rooms, err := s.roomRepo.FindByApartment(ctx, organizationID, apartmentID)
	if err != nil {
		return nil, err
	}
	responses := make([]RoomResponse, 0, len(rooms))
	for i := range rooms {
		responses = append(responses, *toRoomResponse(&rooms[i]))
	}
	return responses, nil
}

// DeleteRoom removes a room
func (s *PropertyService) DeleteRoom(ctx context.Context, organizationID, id uuid.UUID) error {
	return s.roomRepo.DeleteForOrg(ctx, organizationID, id)
}

// CreateTenant registers a new tenant
func (s *PropertyService) CreateTenant(ctx context.Context, organizationID uuid.UUID, req CreateTenantRequest) (*TenantResponse, error) {
	tenant, err := leasing.NewTenant(organizationID, req.Name, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	return toTenantResponse(tenant), nil
}

// GetTenant retrieves a tenant by ID
func (s *PropertyService) GetTenant(ctx context.Context, organizationID, id uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByIDForOrg(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return toTenantResponse(tenant), nil
}

// ListTenants retrieves a paginated tenant list
func (s *PropertyService) ListTenants(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]TenantResponse, int64, error) {
	tenants, err := s.tenantRepo.FindAllForOrg(ctx, organizationID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.tenantRepo.CountForOrg(ctx, organizationID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TenantResponse, 0, len(tenants))
	for i := range tenants {
		responses = append(responses, *toTenantResponse(&tenants[i]))
	}
	return responses, total, nil
}

// DeleteTenant removes a tenant
func (s *PropertyService) DeleteTenant(ctx context.Context, organizationID, id uuid.UUID) error {
	return s.tenantRepo.DeleteForOrg(ctx, organizationID, id)
}

func toApartmentResponse(a *leasing.Apartment) *ApartmentResponse {
	return &ApartmentResponse{
		ID:        a.ID,
		Name:      a.Name,
		Address:   a.Address,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toRoomResponse(r *leasing.Room) *RoomResponse {
	return &RoomResponse{
		ID:          r.ID,
		ApartmentID: r.ApartmentID,
		Name:        r.Name,
		SquareM:     r.SquareM,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toTenantResponse(t *leasing.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Email:     t.Email,
		Phone:     t.Phone,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
