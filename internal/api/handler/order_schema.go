package handler

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/entregadores67/dispatch/internal/core/domain"
)

// --- Requests ---

type createOrderRequest struct {
	Description string `json:"description" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
}

type advanceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// --- Responses ---

type customerResponse struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Complement string `json:"complement,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
}

type storeResponse struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type orderItemResponse struct {
	Name     string      `json:"name"`
	Quantity int         `json:"quantity"`
	Price    json.Number `json:"price"`
	Total    json.Number `json:"total"`
}

// orderResponse is the wire shape of an order. acceptedBy is null until the
// order is claimed; the external block is present only for ingested orders.
type orderResponse struct {
	ID             string     `json:"id"`
	Description    string     `json:"description"`
	Quantity       int        `json:"quantity"`
	Status         string     `json:"status"`
	CreatedBy      string     `json:"createdBy"`
	CreatedByName  string     `json:"createdByName"`
	AcceptedBy     *string    `json:"acceptedBy"`
	AcceptedByName *string    `json:"acceptedByName"`
	AcceptedAt     *time.Time `json:"acceptedAt"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	ExternalID string              `json:"external_id,omitempty"`
	Source     string              `json:"source,omitempty"`
	Customer   *customerResponse   `json:"customer,omitempty"`
	Store      *storeResponse      `json:"store,omitempty"`
	Items      []orderItemResponse `json:"items,omitempty"`
	Total      *json.Number        `json:"total,omitempty"`
	Notes      string              `json:"notes,omitempty"`
	Metadata   map[string]any      `json:"metadata,omitempty"`
}

type orderEnvelope struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Order   orderResponse `json:"pedido"`
}

type orderListResponse struct {
	Success bool            `json:"success"`
	Data    []orderResponse `json:"data"`
	Total   int             `json:"total"`
}

type orderEventResponse struct {
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	ActorID   string    `json:"actorId"`
	ActorRole string    `json:"actorRole"`
	At        time.Time `json:"at"`
}

type orderEventListResponse struct {
	Success bool                 `json:"success"`
	Data    []orderEventResponse `json:"data"`
	Total   int                  `json:"total"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// --- Mapping ---

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toOrderResponse(o *domain.Order) orderResponse {
	resp := orderResponse{
		ID:             o.ID,
		Description:    o.Description,
		Quantity:       o.Quantity,
		Status:         string(o.Status),
		CreatedBy:      o.CreatedBy,
		CreatedByName:  o.CreatedByName,
		AcceptedBy:     optional(o.AcceptedBy),
		AcceptedByName: optional(o.AcceptedByName),
		AcceptedAt:     o.AcceptedAt,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
		ExternalID:     o.ExternalID,
		Source:         o.Source,
		Notes:          o.Notes,
		Metadata:       o.Metadata,
	}
	if o.Customer != nil {
		resp.Customer = toCustomerResponse(o.Customer)
	}
	if o.Store != nil {
		resp.Store = &storeResponse{Name: o.Store.Name, Phone: o.Store.Phone}
	}
	if len(o.Items) > 0 {
		resp.Items = make([]orderItemResponse, len(o.Items))
		for i, it := range o.Items {
			resp.Items[i] = orderItemResponse{
				Name:     it.Name,
				Quantity: it.Quantity,
				Price:    money(it.Price),
				Total:    money(it.Total),
			}
		}
	}
	if o.ExternalID != "" {
		t := money(o.Total)
		resp.Total = &t
	}
	return resp
}

func toCustomerResponse(c *domain.Customer) *customerResponse {
	return &customerResponse{
		Name:       c.Name,
		Phone:      c.Phone,
		Address:    c.Address,
		Complement: c.Complement,
		City:       c.City,
		State:      c.State,
	}
}

func toOrderList(orders []*domain.Order) orderListResponse {
	data := make([]orderResponse, len(orders))
	for i, o := range orders {
		data[i] = toOrderResponse(o)
	}
	return orderListResponse{Success: true, Data: data, Total: len(data)}
}
