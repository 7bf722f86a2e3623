package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order. Values are the
// terms the courier and admin clients already speak.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pendente"
	StatusAccepted  OrderStatus = "aceito"
	StatusEnRoute   OrderStatus = "em_rota"
	StatusDelivered OrderStatus = "entregue"
	StatusCancelled OrderStatus = "cancelado"
)

// statusAliases lets API callers use either the canonical value or its
// English name.
var statusAliases = map[string]OrderStatus{
	"pendente":  StatusPending,
	"aceito":    StatusAccepted,
	"em_rota":   StatusEnRoute,
	"entregue":  StatusDelivered,
	"cancelado": StatusCancelled,
	"pending":   StatusPending,
	"accepted":  StatusAccepted,
	"en_route":  StatusEnRoute,
	"delivered": StatusDelivered,
	"cancelled": StatusCancelled,
}

// validTransitions lists the targets reachable through a status update.
// pending -> accepted is deliberately absent: only a claim may take it.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:  {StatusCancelled},
	StatusAccepted: {StatusEnRoute, StatusDelivered, StatusCancelled},
	StatusEnRoute:  {StatusDelivered},
}

// ParseOrderStatus resolves s to one of the five recognised statuses.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: unknown order status %q", ErrValidation, s)
	}
	return st, nil
}

// IsTerminal reports whether no further change is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether a status update from s to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Customer is the delivery recipient of an externally sourced order.
type Customer struct {
	Name       string
	Phone      string
	Address    string
	Complement string
	City       string
	State      string
}

// StoreInfo identifies the partner storefront that pushed an order.
type StoreInfo struct {
	Name  string
	Phone string
}

// OrderItem is one line of an externally sourced order.
type OrderItem struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
	Total    decimal.Decimal
}

// Claim carries the fields written atomically when a courier takes an order.
type Claim struct {
	CourierID   string
	CourierName string
	At          time.Time
}

// Order is the aggregate owned by the order store. AcceptedBy is empty until
// the order is claimed and is written exactly once.
type Order struct {
	ID             string
	Description    string
	Quantity       int
	Status         OrderStatus
	CreatedBy      string
	CreatedByName  string
	AcceptedBy     string
	AcceptedByName string
	AcceptedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// External-origin fields; zero for orders created by an admin.
	ExternalID string
	Source     string
	Customer   *Customer
	Store      *StoreInfo
	Items      []OrderItem
	Total      decimal.Decimal
	Notes      string
	Metadata   map[string]any
}

// IsClaimed reports whether a courier holds the order.
func (o *Order) IsClaimed() bool {
	return o.AcceptedBy != ""
}

// VisibleTo reports whether a courier may see the order: pending orders are
// open to everyone, anything else only to the courier holding it.
func (o *Order) VisibleTo(courierID string) bool {
	return o.Status == StatusPending || (o.IsClaimed() && o.AcceptedBy == courierID)
}

// ApplyClaim moves a pending order to accepted on behalf of the claimer.
func (o *Order) ApplyClaim(c Claim) error {
	if o.Status != StatusPending {
		return fmt.Errorf("%w: %w: order already claimed", ErrConflict, ErrInvalidTransition)
	}
	at := c.At
	o.Status = StatusAccepted
	o.AcceptedBy = c.CourierID
	o.AcceptedByName = c.CourierName
	o.AcceptedAt = &at
	o.UpdatedAt = at
	return nil
}

// ApplyStatus moves the order to next if the status machine allows it.
func (o *Order) ApplyStatus(next OrderStatus, at time.Time) error {
	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w (from %s to %s)", ErrInvalidTransition, o.Status, next)
	}
	o.Status = next
	o.UpdatedAt = at
	return nil
}

// Clone returns a deep copy safe to hand across store boundaries.
func (o *Order) Clone() *Order {
	c := *o
	if o.AcceptedAt != nil {
		at := *o.AcceptedAt
		c.AcceptedAt = &at
	}
	if o.Customer != nil {
		cu := *o.Customer
		c.Customer = &cu
	}
	if o.Store != nil {
		st := *o.Store
		c.Store = &st
	}
	if o.Items != nil {
		c.Items = append([]OrderItem(nil), o.Items...)
	}
	if o.Metadata != nil {
		c.Metadata = make(map[string]any, len(o.Metadata))
		for k, v := range o.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}
