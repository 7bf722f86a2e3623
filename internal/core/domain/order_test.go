package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entregadores67/dispatch/internal/core/domain"
)

func TestParseOrderStatus(t *testing.T) {
	t.Run("canonical values", func(t *testing.T) {
		for _, s := range []string{"pendente", "aceito", "em_rota", "entregue", "cancelado"} {
			st, err := domain.ParseOrderStatus(s)
			require.NoError(t, err)
			assert.Equal(t, domain.OrderStatus(s), st)
		}
	})

	t.Run("english aliases", func(t *testing.T) {
		st, err := domain.ParseOrderStatus(" Delivered ")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDelivered, st)

		st, err = domain.ParseOrderStatus("en_route")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusEnRoute, st)
	})

	t.Run("unknown value", func(t *testing.T) {
		_, err := domain.ParseOrderStatus("lost")
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = domain.ParseOrderStatus("")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to domain.OrderStatus
		want     bool
	}{
		{domain.StatusPending, domain.StatusCancelled, true},
		{domain.StatusPending, domain.StatusAccepted, false},
		{domain.StatusPending, domain.StatusDelivered, false},
		{domain.StatusAccepted, domain.StatusEnRoute, true},
		{domain.StatusAccepted, domain.StatusDelivered, true},
		{domain.StatusAccepted, domain.StatusCancelled, true},
		{domain.StatusAccepted, domain.StatusPending, false},
		{domain.StatusEnRoute, domain.StatusDelivered, true},
		{domain.StatusEnRoute, domain.StatusCancelled, false},
		{domain.StatusDelivered, domain.StatusCancelled, false},
		{domain.StatusCancelled, domain.StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, domain.StatusDelivered.IsTerminal())
	assert.True(t, domain.StatusCancelled.IsTerminal())
	assert.False(t, domain.StatusPending.IsTerminal())
	assert.False(t, domain.StatusEnRoute.IsTerminal())
}

func TestOrder_ApplyClaim(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("pending order is claimed", func(t *testing.T) {
		o := &domain.Order{ID: "o1", Status: domain.StatusPending}
		require.NoError(t, o.ApplyClaim(domain.Claim{CourierID: "c1", CourierName: "Ana", At: now}))

		assert.Equal(t, domain.StatusAccepted, o.Status)
		assert.Equal(t, "c1", o.AcceptedBy)
		assert.Equal(t, "Ana", o.AcceptedByName)
		require.NotNil(t, o.AcceptedAt)
		assert.Equal(t, now, *o.AcceptedAt)
		assert.Equal(t, now, o.UpdatedAt)
	})

	t.Run("claimed order is rejected as conflict", func(t *testing.T) {
		o := &domain.Order{ID: "o1", Status: domain.StatusAccepted, AcceptedBy: "c1"}
		err := o.ApplyClaim(domain.Claim{CourierID: "c2", At: now})

		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Equal(t, "c1", o.AcceptedBy)
	})
}

func TestOrder_ApplyStatus(t *testing.T) {
	now := time.Now().UTC()
	o := &domain.Order{Status: domain.StatusAccepted}

	require.NoError(t, o.ApplyStatus(domain.StatusEnRoute, now))
	assert.Equal(t, domain.StatusEnRoute, o.Status)
	assert.Equal(t, now, o.UpdatedAt)

	err := o.ApplyStatus(domain.StatusPending, now)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	assert.Equal(t, domain.StatusEnRoute, o.Status)
}

func TestOrder_VisibleTo(t *testing.T) {
	pending := &domain.Order{Status: domain.StatusPending}
	mine := &domain.Order{Status: domain.StatusEnRoute, AcceptedBy: "c1"}

	assert.True(t, pending.VisibleTo("c2"))
	assert.True(t, mine.VisibleTo("c1"))
	assert.False(t, mine.VisibleTo("c2"))
	assert.False(t, mine.VisibleTo(""))
	assert.False(t, (&domain.Order{Status: domain.StatusCancelled}).VisibleTo(""))
}

func TestOrder_CloneIsDeep(t *testing.T) {
	at := time.Now()
	o := &domain.Order{
		AcceptedAt: &at,
		Customer:   &domain.Customer{Name: "Maria"},
		Items:      []domain.OrderItem{{Name: "X", Quantity: 2}},
		Metadata:   map[string]any{"k": "v"},
	}
	c := o.Clone()
	c.Customer.Name = "Joana"
	c.Items[0].Quantity = 9
	c.Metadata["k"] = "w"

	assert.Equal(t, "Maria", o.Customer.Name)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, "v", o.Metadata["k"])
	assert.NotSame(t, o.AcceptedAt, c.AcceptedAt)
}
