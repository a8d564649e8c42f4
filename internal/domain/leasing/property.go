package leasing

import (
	"github.com/google/uuid"

	"github.com/homelease/backend/internal/domain/shared"
)

// Apartment is a building or unit grouping rooms. Plain data entry;
// the billing core only references rooms through leases.
type Apartment struct {
	shared.OrgAggregateRoot
	Name    string `json:"name"`
	Address string `json:"address"`
}

// NewApartment creates a new apartment
func NewApartment(organizationID uuid.UUID, name, address string) (*Apartment, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_APARTMENT", "Apartment name cannot be empty")
	}
	return &Apartment{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		Name:             name,
		Address:          address,
	}, nil
}

// Room is a rentable unit within an apartment
type Room struct {
	shared.OrgAggregateRoot
	ApartmentID uuid.UUID `json:"apartment_id"`
	Name        string    `json:"name"`
	SquareM     int       `json:"square_m"`
}

// NewRoom creates a new room in an apartment
func NewRoom(organizationID, apartmentID uuid.UUID, name string, squareM int) (*Room, error) {
	if apartmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ROOM", "Apartment ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ROOM", "Room name cannot be empty")
	}
	if squareM < 0 {
		return nil, shared.NewDomainError("INVALID_ROOM", "Room size cannot be negative")
	}
	return &Room{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		ApartmentID:      apartmentID,
		Name:             name,
		SquareM:          squareM,
	}, nil
}

// Tenant is a person renting a room
type Tenant struct {
	shared.OrgAggregateRoot
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// NewTenant creates a new tenant
func NewTenant(organizationID uuid.UUID, name, email, phone string) (*Tenant, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant name cannot be empty")
	}
	return &Tenant{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		Name:             name,
		Email:            email,
		Phone:            phone,
	}, nil
}
