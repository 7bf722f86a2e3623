package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entregadores67/dispatch/internal/core/domain"
	"github.com/entregadores67/dispatch/internal/core/ports"
)

var (
	adminActor = domain.Actor{ID: "admin-1", Name: "Admin", Role: domain.RoleAdmin}
	courierA   = domain.Actor{ID: "courier-a", Name: "Ana", Role: domain.RoleCourier}
	courierB   = domain.Actor{ID: "courier-b", Name: "Bruno", Role: domain.RoleCourier}
)

func newTestOrderService() (*OrderService, *stubOrderRepo, *recordingPublisher) {
	repo := newStubOrderRepo()
	pub := &recordingPublisher{}
	return NewOrderService(repo, &stubEventRepo{}, pub, zerolog.Nop()), repo, pub
}

func mustCreate(t *testing.T, svc *OrderService, desc string, qty int) *domain.Order {
	t.Helper()
	o, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{Description: desc, Quantity: qty, Actor: adminActor})
	require.NoError(t, err)
	return o
}

// ---------------------------------------------------------------------------
// CreateOrder
// ---------------------------------------------------------------------------

func TestOrderService_CreateOrder_Success(t *testing.T) {
	svc, _, pub := newTestOrderService()

	o := mustCreate(t, svc, "Pizza grande", 2)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, domain.StatusPending, o.Status)
	assert.Equal(t, adminActor.ID, o.CreatedBy)
	assert.Equal(t, "Admin", o.CreatedByName)
	assert.Empty(t, o.AcceptedBy)
	assert.Equal(t, []domain.OrderEventType{domain.EventOrderCreated}, pub.types())
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, ports.CreateOrderInput{Description: "Pizza", Quantity: 0, Actor: adminActor})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateOrder(ctx, ports.CreateOrderInput{Description: "   ", Quantity: 1, Actor: adminActor})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestOrderService_CreateOrder_CourierForbidden(t *testing.T) {
	svc, _, _ := newTestOrderService()

	_, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{Description: "Pizza", Quantity: 1, Actor: courierA})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestOrderService_CreateOrder_DefaultCreatorName(t *testing.T) {
	svc, _, _ := newTestOrderService()

	o, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		Description: "Pizza", Quantity: 1, Actor: domain.Actor{ID: "a2", Role: domain.RoleAdmin},
	})
	require.NoError(t, err)
	assert.Equal(t, "Administrador", o.CreatedByName)
}

// ---------------------------------------------------------------------------
// ClaimOrder
// ---------------------------------------------------------------------------

func TestOrderService_ClaimOrder_Success(t *testing.T) {
	svc, _, _ := newTestOrderService()
	o := mustCreate(t, svc, "Pizza", 1)

	claimed, err := svc.ClaimOrder(context.Background(), ports.ClaimOrderInput{OrderID: o.ID, Actor: courierA})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAccepted, claimed.Status)
	assert.Equal(t, courierA.ID, claimed.AcceptedBy)
	assert.Equal(t, "Ana", claimed.AcceptedByName)
	require.NotNil(t, claimed.AcceptedAt)
}

func TestOrderService_ClaimOrder_SecondClaimConflicts(t *testing.T) {
	svc, repo, _ := newTestOrderService()
	ctx := context.Background()
	o := mustCreate(t, svc, "Pizza", 1)

	_, err := svc.ClaimOrder(ctx, ports.ClaimOrderInput{OrderID: o.ID, Actor: courierA})
	require.NoError(t, err)

	_, err = svc.ClaimOrder(ctx, ports.ClaimOrderInput{OrderID: o.ID, Actor: courierB})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, courierA.ID, stored.AcceptedBy)
}

func TestOrderService_ClaimOrder_ConcurrentSingleWinner(t *testing.T) {
	svc, repo, _ := newTestOrderService()
	ctx := context.Background()
	o := mustCreate(t, svc, "Pizza", 1)

	const n = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
		losers  int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor := domain.Actor{ID: fmt.Sprintf("courier-%d", i), Role: domain.RoleCourier}
			_, err := svc.ClaimOrder(ctx, ports.ClaimOrderInput{OrderID: o.ID, Actor: actor})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners = append(winners, actor.ID)
				return
			}
			if errors.Is(err, domain.ErrConflict) {
				losers++
			}
		}(i)
	}
	wg.Wait()

	require.Len(t, winners, 1)
	assert.Equal(t, n-1, losers)

	stored, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, winners[0], stored.AcceptedBy)
}

func TestOrderService_ClaimOrder_AdminForbidden(t *testing.T) {
	svc, _, _ := newTestOrderService()
	o := mustCreate(t, svc, "Pizza", 1)

	_, err := svc.ClaimOrder(context.Background(), ports.ClaimOrderInput{OrderID: o.ID, Actor: adminActor})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestOrderService_ClaimOrder_NotFound(t *testing.T) {
	svc, _, _ := newTestOrderService()

	_, err := svc.ClaimOrder(context.Background(), ports.ClaimOrderInput{OrderID: "missing", Actor: courierA})
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderService_ClaimOrder_DefaultCourierName(t *testing.T) {
	svc, _, _ := newTestOrderService()
	o := mustCreate(t, svc, "Pizza", 1)

	claimed, err := svc.ClaimOrder(context.Background(), ports.ClaimOrderInput{
		OrderID: o.ID, Actor: domain.Actor{ID: "c9", Role: domain.RoleCourier},
	})
	require.NoError(t, err)
	assert.Equal(t, "Entregador", claimed.AcceptedByName)
}

// ---------------------------------------------------------------------------
// AdvanceStatus
// ---------------------------------------------------------------------------

func TestOrderService_AdvanceStatus_HappyPath(t *testing.T) {
	svc, _, pub := newTestOrderService()
	ctx := context.Background()
	o := mustCreate(t, svc, "Pizza", 1)

	_, err := svc.ClaimOrder(ctx, ports.ClaimOrderInput{OrderID: o.ID, Actor: courierA})
	require.NoError(t, err)

	updated, err := svc.AdvanceStatus(ctx, ports.AdvanceStatusInput{OrderID: o.ID, Status: "em_rota", Actor: courierA})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusEnRoute, updated.Status)

	updated, err = svc.AdvanceStatus(ctx, ports.AdvanceStatusInput{OrderID: o.ID, Status: "delivered", Actor: courierA})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, updated.Status)
	assert.Equal(t, courierA.ID, updated.AcceptedBy)

	assert.Equal(t, []domain.OrderEventType{
		domain.EventOrderCreated,
		domain.EventOrderClaimed,
		domain.EventStatusChanged,
		domain.EventStatusChanged,
	}, pub.types())
}

func TestOrderService_AdvanceStatus_OtherCourierForbidden(t *testing.T) {
	svc, repo, _ := newTestOrderService()
	ctx := context.Background()
	o := mustCreate(t, svc, "Pizza", 1)
	_, err := svc.ClaimOrder(ctx, ports.ClaimOrderInput{OrderID: o.ID, Actor: courierA})
	require.NoError(t, err)

	_, err = svc.AdvanceStatus(ctx, ports.AdvanceStatusInput{OrderID: o.ID, Status: "entregue", Actor: courierB})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, _ := repo.FindByID(ctx, o.ID)
	assert.Equal(t, domain.StatusAccepted, stored.Status)
}

func TestOrderService_AdvanceStatus_TerminalRejected(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()
	o := mustCreate(t, svc, "Pizza", 1)

	_, err := svc.AdvanceStatus(ctx, ports.AdvanceStatusInput{OrderID: o.ID, Status: "cancelado", Actor: adminActor})
	require.NoError(t, err)

	for _, next := range []string{"pendente", "aceito", "em_rota", "entregue", "cancelado"} {
		_, err = svc.AdvanceStatus(ctx, ports.AdvanceStatusInput{OrderID: o.ID, Status: next, Actor: adminActor})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "to %s", next)
	}
}

func TestOrderService_AdvanceStatus_PendingToAcceptedOnlyViaClaim(t *testing.T) {
	svc, _, _ := newTestOrderService()
	o := mustCreate(t, svc, "Pizza", 1)

	_, err := svc.AdvanceStatus(context.Background(), ports.AdvanceStatusInput{OrderID: o.ID, Status: "aceito", Actor: adminActor})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestOrderService_AdvanceStatus_UnknownStatus(t *testing.T) {
	svc, _, _ := newTestOrderService()
	o := mustCreate(t, svc, "Pizza", 1)

	_, err := svc.AdvanceStatus(context.Background(), ports.AdvanceStatusInput{OrderID: o.ID, Status: "lost", Actor: adminActor})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestOrderService_AdvanceStatus_CourierOnPendingForbidden(t *testing.T) {
	svc, _, _ := newTestOrderService()
	o := mustCreate(t, svc, "Pizza", 1)

	_, err := svc.AdvanceStatus(context.Background(), ports.AdvanceStatusInput{OrderID: o.ID, Status: "cancelado", Actor: courierA})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ---------------------------------------------------------------------------
// ListOrders / GetOrder
// ---------------------------------------------------------------------------

func TestOrderService_ListOrders_Visibility(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()

	o1 := mustCreate(t, svc, "Pizza", 1)
	o2 := mustCreate(t, svc, "Sushi", 1)
	o3 := mustCreate(t, svc, "Burger", 1)

	_, err := svc.ClaimOrder(ctx, ports.ClaimOrderInput{OrderID: o1.ID, Actor: courierA})
	require.NoError(t, err)
	_, err = svc.ClaimOrder(ctx, ports.ClaimOrderInput{OrderID: o2.ID, Actor: courierB})
	require.NoError(t, err)

	all, err := svc.ListOrders(ctx, ports.ListOrdersInput{Actor: adminActor})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	forA, err := svc.ListOrders(ctx, ports.ListOrdersInput{Actor: courierA})
	require.NoError(t, err)
	ids := make([]string, len(forA))
	for i, o := range forA {
		ids[i] = o.ID
	}
	assert.ElementsMatch(t, []string{o1.ID, o3.ID}, ids)

	pending, err := svc.ListOrders(ctx, ports.ListOrdersInput{Actor: adminActor, Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, o3.ID, pending[0].ID)
}

func TestOrderService_ListOrders_UnknownRoleForbidden(t *testing.T) {
	svc, _, _ := newTestOrderService()

	_, err := svc.ListOrders(context.Background(), ports.ListOrdersInput{Actor: domain.Actor{ID: "x", Role: "guest"}})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestOrderService_GetOrder_HiddenFromOtherCourier(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()
	o := mustCreate(t, svc, "Pizza", 1)
	_, err := svc.ClaimOrder(ctx, ports.ClaimOrderInput{OrderID: o.ID, Actor: courierA})
	require.NoError(t, err)

	_, err = svc.GetOrder(ctx, o.ID, courierB)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	got, err := svc.GetOrder(ctx, o.ID, courierA)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
}

// ---------------------------------------------------------------------------
// DeleteOrder / OrderEvents
// ---------------------------------------------------------------------------

func TestOrderService_DeleteOrder(t *testing.T) {
	svc, repo, _ := newTestOrderService()
	ctx := context.Background()

	pending := mustCreate(t, svc, "Pizza", 1)
	claimed := mustCreate(t, svc, "Sushi", 1)
	_, err := svc.ClaimOrder(ctx, ports.ClaimOrderInput{OrderID: claimed.ID, Actor: courierA})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteOrder(ctx, pending.ID, courierA), domain.ErrForbidden)
	assert.ErrorIs(t, svc.DeleteOrder(ctx, claimed.ID, adminActor), domain.ErrInvalidTransition)
	require.NoError(t, svc.DeleteOrder(ctx, pending.ID, adminActor))

	_, err = repo.FindByID(ctx, pending.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderService_OrderEvents_AdminOnly(t *testing.T) {
	events := &stubEventRepo{}
	svc := NewOrderService(newStubOrderRepo(), events, nil, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, events.Insert(ctx, &domain.OrderEvent{OrderID: "o1", Type: domain.EventOrderCreated}))
	require.NoError(t, events.Insert(ctx, &domain.OrderEvent{OrderID: "o2", Type: domain.EventOrderCreated}))

	_, err := svc.OrderEvents(ctx, "o1", courierA)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	evs, err := svc.OrderEvents(ctx, "o1", adminActor)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, "o1", evs[0].OrderID)
}
