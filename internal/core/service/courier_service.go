package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/entregadores67/dispatch/internal/api/metrics"
	"github.com/entregadores67/dispatch/internal/core/domain"
	"github.com/entregadores67/dispatch/internal/core/ports"
)

// CourierService is the courier registry: one profile per user, unique tax
// id, and the admin approval workflow.
type CourierService struct {
	couriers ports.CourierRepository
	users    ports.UserRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewCourierService(couriers ports.CourierRepository, users ports.UserRepository, logger zerolog.Logger) *CourierService {
	return &CourierService{
		couriers: couriers,
		users:    users,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RegisterCourier creates the caller's courier profile in pending state and
// marks the caller's user profile as completed.
func (s *CourierService) RegisterCourier(ctx context.Context, in ports.RegisterCourierInput) (*domain.CourierProfile, error) {
	if !in.Actor.IsCourier() {
		return nil, fmt.Errorf("register courier: %w: only courier accounts can register a profile", domain.ErrForbidden)
	}
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	taxID := domain.DigitsOnly(in.TaxID)

	if _, err := s.couriers.FindByUserID(ctx, in.Actor.ID); err == nil {
		return nil, fmt.Errorf("%w: courier profile already registered for this user", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrCourierNotFound) {
		return nil, fmt.Errorf("register courier: %w", err)
	}

	exists, err := s.couriers.ExistsByTaxID(ctx, taxID)
	if err != nil {
		return nil, fmt.Errorf("register courier: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: tax id already registered", domain.ErrConflict)
	}

	now := s.now()
	profile := &domain.CourierProfile{
		ID:            uuid.NewString(),
		UserID:        in.Actor.ID,
		UserEmail:     in.Actor.Email,
		Name:          strings.TrimSpace(in.Name),
		TaxID:         taxID,
		Phone:         domain.DigitsOnly(in.Phone),
		VehicleKind:   in.VehicleKind,
		Address:       in.Address,
		City:          in.City,
		State:         in.State,
		PostalCode:    domain.DigitsOnly(in.PostalCode),
		Availability:  in.Availability,
		HasLicense:    *in.HasLicense,
		LicenseNumber: in.LicenseNumber,
		Status:        domain.CourierPending,
		Verified:      false,
		Active:        true,
		RegisteredAt:  now,
	}

	// The repository re-checks both uniqueness rules atomically; the lookups
	// above only produce friendlier messages.
	if err := s.couriers.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("register courier: %w", err)
	}

	if err := s.users.MarkProfileCompleted(ctx, in.Actor.ID, now); err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("register courier: mark profile completed: %w", err)
		}
		s.logger.Warn().Str("user_id", in.Actor.ID).Msg("courier registered for unknown user")
	}

	metrics.CouriersRegisteredTotal.Inc()
	s.logger.Info().Str("courier_id", profile.ID).Str("user_id", profile.UserID).Msg("courier registered")
	return profile, nil
}

// ListCouriers returns every courier profile. Admin only.
func (s *CourierService) ListCouriers(ctx context.Context, actor domain.Actor) ([]*domain.CourierProfile, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("list couriers: %w", domain.ErrForbidden)
	}
	list, err := s.couriers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list couriers: %w", err)
	}
	return list, nil
}

// SetApproval records an admin decision on a courier profile.
func (s *CourierService) SetApproval(ctx context.Context, courierID string, approved bool, actor domain.Actor) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("set approval: %w", domain.ErrForbidden)
	}
	status, approvedAt := domain.Approval(approved, s.now())
	if err := s.couriers.SetApproval(ctx, courierID, status, approved, approvedAt); err != nil {
		return fmt.Errorf("set approval %s: %w", courierID, err)
	}

	metrics.CourierApprovalsTotal.WithLabelValues(string(status)).Inc()
	s.logger.Info().Str("courier_id", courierID).Str("status", string(status)).Str("actor", actor.ID).Msg("courier approval updated")
	return nil
}

func validateRegistration(in ports.RegisterCourierInput) error {
	required := []struct {
		field string
		value string
	}{
		{"nome", in.Name},
		{"cpf", in.TaxID},
		{"telefone", in.Phone},
		{"veiculo", in.VehicleKind},
		{"endereco", in.Address},
		{"cidade", in.City},
		{"estado", in.State},
		{"cep", in.PostalCode},
		{"disponibilidade", in.Availability},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.field)
		}
	}
	if in.HasLicense == nil {
		missing = append(missing, "possuiCnh")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", domain.ErrValidation, strings.Join(missing, ", "))
	}

	if !domain.ValidTaxID(in.TaxID) {
		return fmt.Errorf("%w: invalid cpf", domain.ErrValidation)
	}
	if !domain.ValidPhone(in.Phone) {
		return fmt.Errorf("%w: telefone must have 10 or 11 digits", domain.ErrValidation)
	}
	if !domain.ValidPostalCode(in.PostalCode) {
		return fmt.Errorf("%w: cep must have 8 digits", domain.ErrValidation)
	}
	return nil
}
