package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/entregadores67/dispatch/internal/core/ports"
)

// OrderHandler exposes the order lifecycle over HTTP.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /pedidos.
//
// @Summary      Create an order
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order details"
// @Success      201   {object}  orderEnvelope
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /pedidos [post]
func (h *OrderHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.service.CreateOrder(c.Request().Context(), ports.CreateOrderInput{
		Description: req.Description,
		Quantity:    req.Quantity,
		Actor:       actor,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, orderEnvelope{
		Success: true,
		Message: "Pedido criado com sucesso!",
		Order:   toOrderResponse(order),
	})
}

// List handles GET /pedidos. Couriers only see pending orders and their own.
//
// @Summary      List orders
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Status filter (pendente, aceito, em_rota, entregue, cancelado)"
// @Success      200     {object}  orderListResponse
// @Failure      400     {object}  map[string]any
// @Failure      401     {object}  map[string]any
// @Router       /pedidos [get]
func (h *OrderHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	orders, err := h.service.ListOrders(c.Request().Context(), ports.ListOrdersInput{
		Actor:  actor,
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderList(orders))
}

// Get handles GET /pedidos/:id.
//
// @Summary      Get an order
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderEnvelope
// @Failure      401  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /pedidos/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	order, err := h.service.GetOrder(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderEnvelope{Success: true, Order: toOrderResponse(order)})
}

// Claim handles POST /pedidos/:id/aceitar.
//
// @Summary      Claim a pending order
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderEnvelope
// @Failure      400  {object}  map[string]any  "order already claimed"
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /pedidos/{id}/aceitar [post]
func (h *OrderHandler) Claim(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	order, err := h.service.ClaimOrder(c.Request().Context(), ports.ClaimOrderInput{
		OrderID: c.Param("id"),
		Actor:   actor,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderEnvelope{
		Success: true,
		Message: "Pedido aceito com sucesso!",
		Order:   toOrderResponse(order),
	})
}

// AdvanceStatus handles PATCH /pedidos/:id/status.
//
// @Summary      Change the status of an order
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Order id"
// @Param        body  body      advanceStatusRequest  true  "New status"
// @Success      200   {object}  orderEnvelope
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /pedidos/{id}/status [patch]
func (h *OrderHandler) AdvanceStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req advanceStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.service.AdvanceStatus(c.Request().Context(), ports.AdvanceStatusInput{
		OrderID: c.Param("id"),
		Status:  req.Status,
		Actor:   actor,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderEnvelope{
		Success: true,
		Message: "Status do pedido atualizado com sucesso!",
		Order:   toOrderResponse(order),
	})
}

// Delete handles DELETE /pedidos/:id. Only pending orders can be removed.
//
// @Summary      Delete a pending order
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /pedidos/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteOrder(c.Request().Context(), c.Param("id"), actor); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Pedido removido com sucesso!"})
}

// Events handles GET /pedidos/:id/eventos.
//
// @Summary      Audit trail of an order
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderEventListResponse
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /pedidos/{id}/eventos [get]
func (h *OrderHandler) Events(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	events, err := h.service.OrderEvents(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return err
	}
	data := make([]orderEventResponse, len(events))
	for i, ev := range events {
		data[i] = orderEventResponse{
			Type:      string(ev.Type),
			Status:    string(ev.Status),
			ActorID:   ev.ActorID,
			ActorRole: ev.ActorRole,
			At:        ev.At,
		}
	}
	return c.JSON(http.StatusOK, orderEventListResponse{Success: true, Data: data, Total: len(data)})
}
