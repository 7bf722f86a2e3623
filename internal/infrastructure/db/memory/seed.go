package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/entregadores67/dispatch/internal/core/domain"
)

const (
	DemoAdminID     = "admin-exemplo"
	DemoAdminEmail  = "admin@entregadores67.com"
	DemoCourierID   = "entregador-exemplo"
	DemoCourierMail = "entregador@exemplo.com"
)

// SeedDemo fills an empty store with one admin, one approved courier, one
// pending order and one accepted order. Both demo users log in with password.
func (s *Store) SeedDemo(ctx context.Context, password string, now time.Time) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed: hash password: %w", err)
	}

	users := []*domain.User{
		{
			ID: DemoAdminID, Email: DemoAdminEmail, Name: "Administrador",
			PasswordHash: string(hash), Role: domain.RoleAdmin, ProfileCompleted: true,
			CreatedAt: now, UpdatedAt: now, LastLogin: now,
		},
		{
			ID: DemoCourierID, Email: DemoCourierMail, Name: "João Silva",
			PasswordHash: string(hash), Role: domain.RoleCourier, ProfileCompleted: true,
			CreatedAt: now, UpdatedAt: now, LastLogin: now,
		},
	}
	for _, u := range users {
		if err := s.Users.Create(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}

	approvedAt := now
	courier := &domain.CourierProfile{
		ID:            uuid.NewString(),
		UserID:        DemoCourierID,
		UserEmail:     DemoCourierMail,
		Name:          "João Silva",
		TaxID:         "12345678909",
		Phone:         "67999999999",
		VehicleKind:   "moto",
		Address:       "Rua Exemplo, 123",
		City:          "Ivinhema",
		State:         "MS",
		PostalCode:    "79740000",
		Availability:  "flexivel",
		HasLicense:    true,
		LicenseNumber: "123456789",
		Status:        domain.CourierApproved,
		Verified:      true,
		Active:        true,
		RegisteredAt:  now,
		ApprovedAt:    &approvedAt,
	}
	if err := s.Couriers.Create(ctx, courier); err != nil {
		return fmt.Errorf("seed courier: %w", err)
	}

	acceptedAt := now.Add(-30 * time.Minute)
	orders := []*domain.Order{
		{
			ID:            uuid.NewString(),
			Description:   "2x Pizza Calabresa + 1x Coca-Cola 2L",
			Quantity:      1,
			Status:        domain.StatusPending,
			CreatedBy:     DemoAdminID,
			CreatedByName: "Administrador",
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:             uuid.NewString(),
			Description:    "Entrega de documentos - Cartório para Prefeitura",
			Quantity:       1,
			Status:         domain.StatusAccepted,
			CreatedBy:      DemoAdminID,
			CreatedByName:  "Administrador",
			AcceptedBy:     DemoCourierID,
			AcceptedByName: "João Silva",
			AcceptedAt:     &acceptedAt,
			CreatedAt:      now.Add(-time.Hour),
			UpdatedAt:      acceptedAt,
		},
	}
	for _, o := range orders {
		if err := s.Orders.Create(ctx, o); err != nil {
			return fmt.Errorf("seed order: %w", err)
		}
	}
	return nil
}
