package ports

import (
	"context"

	"github.com/entregadores67/dispatch/internal/core/domain"
)

// RegisterCourierInput carries the self-registration form. HasLicense is a
// pointer so that an explicit false is distinguishable from a missing field.
type RegisterCourierInput struct {
	Name          string
	TaxID         string
	Phone         string
	VehicleKind   string
	Address       string
	City          string
	State         string
	PostalCode    string
	Availability  string
	HasLicense    *bool
	LicenseNumber string
	Actor         domain.Actor
}

// CourierService is the courier registry.
type CourierService interface {
	RegisterCourier(ctx context.Context, in RegisterCourierInput) (*domain.CourierProfile, error)
	ListCouriers(ctx context.Context, actor domain.Actor) ([]*domain.CourierProfile, error)
	SetApproval(ctx context.Context, courierID string, approved bool, actor domain.Actor) error
}
