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

// OrderService gates every mutation of an order: creation, claim, status
// changes and deletion.
type OrderService struct {
	repo   ports.OrderRepository
	events ports.OrderEventRepository
	pub    ports.EventPublisher
	logger zerolog.Logger
	now    func() time.Time
}

func NewOrderService(
	repo ports.OrderRepository,
	events ports.OrderEventRepository,
	pub ports.EventPublisher,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		repo:   repo,
		events: events,
		pub:    pub,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrder stores a new pending order on behalf of an admin.
func (s *OrderService) CreateOrder(ctx context.Context, in ports.CreateOrderInput) (*domain.Order, error) {
	if !in.Actor.IsAdmin() {
		return nil, fmt.Errorf("create order: %w", domain.ErrForbidden)
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than 0", domain.ErrValidation)
	}

	createdByName := in.Actor.Name
	if createdByName == "" {
		createdByName = "Administrador"
	}

	now := s.now()
	order := &domain.Order{
		ID:            uuid.NewString(),
		Description:   desc,
		Quantity:      in.Quantity,
		Status:        domain.StatusPending,
		CreatedBy:     in.Actor.ID,
		CreatedByName: createdByName,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, fmt.Errorf("create order: %w", err)
	}

	metrics.OrdersCreatedTotal.WithLabelValues("admin").Inc()
	s.record(order.ID, domain.EventOrderCreated, order.Status, in.Actor, now)
	s.logger.Info().Str("order_id", order.ID).Str("created_by", in.Actor.ID).Msg("order created")
	return order, nil
}

// ClaimOrder hands a pending order to the calling courier. The repository
// performs the pending check and the write as one operation, so concurrent
// claims produce exactly one winner.
func (s *OrderService) ClaimOrder(ctx context.Context, in ports.ClaimOrderInput) (*domain.Order, error) {
	if !in.Actor.IsCourier() {
		return nil, fmt.Errorf("claim order: %w: only couriers can claim orders", domain.ErrForbidden)
	}

	name := in.Actor.Name
	if name == "" {
		name = "Entregador"
	}
	claim := domain.Claim{CourierID: in.Actor.ID, CourierName: name, At: s.now()}

	order, err := s.repo.Claim(ctx, in.OrderID, claim)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			metrics.OrderClaimsTotal.WithLabelValues("conflict").Inc()
		case errors.Is(err, domain.ErrOrderNotFound):
			metrics.OrderClaimsTotal.WithLabelValues("not_found").Inc()
		default:
			metrics.OrderClaimsTotal.WithLabelValues("error").Inc()
		}
		return nil, fmt.Errorf("claim order %s: %w", in.OrderID, err)
	}

	metrics.OrderClaimsTotal.WithLabelValues("won").Inc()
	s.record(order.ID, domain.EventOrderClaimed, order.Status, in.Actor, claim.At)
	s.logger.Info().Str("order_id", order.ID).Str("courier_id", in.Actor.ID).Msg("order claimed")
	return order, nil
}

// AdvanceStatus moves an order along the status machine. Couriers may only
// touch orders they hold; admins may touch any.
func (s *OrderService) AdvanceStatus(ctx context.Context, in ports.AdvanceStatusInput) (*domain.Order, error) {
	next, err := domain.ParseOrderStatus(in.Status)
	if err != nil {
		return nil, err
	}
	if !in.Actor.IsAdmin() && !in.Actor.IsCourier() {
		return nil, fmt.Errorf("advance status: %w", domain.ErrForbidden)
	}

	current, err := s.repo.FindByID(ctx, in.OrderID)
	if err != nil {
		return nil, fmt.Errorf("advance status: %w", err)
	}
	if in.Actor.IsCourier() && current.AcceptedBy != in.Actor.ID {
		return nil, fmt.Errorf("advance status: %w: order is held by another courier", domain.ErrForbidden)
	}
	if current.Status.IsTerminal() {
		return nil, fmt.Errorf("advance status: %w: order is already %s", domain.ErrInvalidTransition, current.Status)
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("advance status: %w (from %s to %s)", domain.ErrInvalidTransition, current.Status, next)
	}

	// AcceptedBy never changes once the order has left pending, so
	// conditioning the write on the observed status also pins the owner.
	at := s.now()
	updated, err := s.repo.UpdateStatus(ctx, in.OrderID, current.Status, next, at)
	if err != nil {
		return nil, fmt.Errorf("advance status: %w", err)
	}

	metrics.OrderStatusChangesTotal.WithLabelValues(string(next)).Inc()
	s.record(updated.ID, domain.EventStatusChanged, next, in.Actor, at)
	s.logger.Info().
		Str("order_id", updated.ID).
		Str("from", string(current.Status)).
		Str("status", string(next)).
		Str("actor", in.Actor.ID).
		Msg("order status changed")
	return updated, nil
}

// ListOrders returns a newest-first snapshot scoped to the caller's role.
func (s *OrderService) ListOrders(ctx context.Context, in ports.ListOrdersInput) ([]*domain.Order, error) {
	var filter ports.OrderFilter
	if in.Status != "" {
		st, err := domain.ParseOrderStatus(in.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}

	switch {
	case in.Actor.IsAdmin():
	case in.Actor.IsCourier():
		filter.VisibleTo = in.Actor.ID
	default:
		return nil, fmt.Errorf("list orders: %w", domain.ErrForbidden)
	}

	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns one order. Couriers get ErrOrderNotFound for orders they
// are not allowed to see.
func (s *OrderService) GetOrder(ctx context.Context, orderID string, actor domain.Actor) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if actor.IsAdmin() {
		return order, nil
	}
	if actor.IsCourier() && order.VisibleTo(actor.ID) {
		return order, nil
	}
	return nil, fmt.Errorf("get order: %w", domain.ErrOrderNotFound)
}

// DeleteOrder removes an order that nobody has claimed yet.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID string, actor domain.Actor) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("delete order: %w", domain.ErrForbidden)
	}
	if err := s.repo.DeletePending(ctx, orderID); err != nil {
		return fmt.Errorf("delete order %s: %w", orderID, err)
	}

	s.record(orderID, domain.EventOrderDeleted, "", actor, s.now())
	s.logger.Info().Str("order_id", orderID).Str("actor", actor.ID).Msg("order deleted")
	return nil
}

// OrderEvents returns the audit trail of an order, oldest first.
func (s *OrderService) OrderEvents(ctx context.Context, orderID string, actor domain.Actor) ([]*domain.OrderEvent, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("order events: %w", domain.ErrForbidden)
	}
	evs, err := s.events.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order events: %w", err)
	}
	return evs, nil
}

func (s *OrderService) record(orderID string, typ domain.OrderEventType, status domain.OrderStatus, actor domain.Actor, at time.Time) {
	if s.pub == nil {
		return
	}
	s.pub.Publish(domain.OrderEvent{
		OrderID:   orderID,
		Type:      typ,
		Status:    status,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		At:        at,
	})
}
