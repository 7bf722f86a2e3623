package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/entregadores67/dispatch/internal/core/domain"
	"github.com/entregadores67/dispatch/internal/core/ports"
	"github.com/entregadores67/dispatch/internal/core/service"
)

// ExternalOrderHandler receives orders pushed by partner storefronts.
type ExternalOrderHandler struct {
	service ports.ExternalOrderService
}

func NewExternalOrderHandler(service ports.ExternalOrderService) *ExternalOrderHandler {
	return &ExternalOrderHandler{service: service}
}

// --- Request / Response types ---

type externalCustomerRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Complement string `json:"complement"`
	City       string `json:"city"`
	State      string `json:"state"`
}

type externalItemRequest struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
}

type externalOrderRequest struct {
	ExternalID  string                   `json:"external_id"`
	Source      string                   `json:"source"`
	StoreName   string                   `json:"store_name"`
	StorePhone  string                   `json:"store_phone"`
	Customer    *externalCustomerRequest `json:"customer"`
	Items       []externalItemRequest    `json:"items"`
	Total       *decimal.Decimal         `json:"total"`
	Description string                   `json:"description"`
	Notes       string                   `json:"notes"`
	Metadata    map[string]any           `json:"metadata"`
}

type uploadRequest struct {
	FileName    string          `json:"fileName"`
	FileContent json.RawMessage `json:"fileContent"`
}

type ingestedOrder struct {
	InternalID     string      `json:"internal_id"`
	ExternalID     string      `json:"external_id"`
	Status         string      `json:"status"`
	Customer       string      `json:"customer,omitempty"`
	Total          json.Number `json:"total"`
	CreatedAt      time.Time   `json:"created_at"`
	AlreadyExisted bool        `json:"already_existed"`
}

type ingestResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Order   ingestedOrder `json:"order"`
}

type externalOrderSummary struct {
	InternalID  string            `json:"internal_id"`
	ExternalID  string            `json:"external_id"`
	Status      string            `json:"status"`
	Description string            `json:"description"`
	Customer    *customerResponse `json:"customer"`
	Total       json.Number       `json:"total"`
	CreatedAt   time.Time         `json:"created_at"`
	AcceptedBy  *string           `json:"accepted_by"`
	AcceptedAt  *time.Time        `json:"accepted_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type externalOrderSummaryResponse struct {
	Success bool                 `json:"success"`
	Order   externalOrderSummary `json:"order"`
}

func toIngestedOrder(res *ports.IngestResult) ingestedOrder {
	o := res.Order
	out := ingestedOrder{
		InternalID:     o.ID,
		ExternalID:     o.ExternalID,
		Status:         string(o.Status),
		Total:          money(o.Total),
		CreatedAt:      o.CreatedAt,
		AlreadyExisted: res.AlreadyExisted,
	}
	if o.Customer != nil {
		out.Customer = o.Customer.Name
	}
	return out
}

// Ingest handles POST /api/external/orders. A redelivered external id answers
// 200 with the stored ids instead of creating a second order.
//
// @Summary      Receive an order from a partner storefront
// @Tags         external
// @Accept       json
// @Produce      json
// @Param        body  body      externalOrderRequest  true  "Storefront order"
// @Success      201   {object}  ingestResponse
// @Success      200   {object}  ingestResponse  "already ingested"
// @Failure      400   {object}  map[string]any
// @Router       /api/external/orders [post]
func (h *ExternalOrderHandler) Ingest(c echo.Context) error {
	var req externalOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	in := ports.ExternalOrderInput{
		ExternalID:  req.ExternalID,
		Source:      req.Source,
		StoreName:   req.StoreName,
		StorePhone:  req.StorePhone,
		Total:       req.Total,
		Description: req.Description,
		Notes:       req.Notes,
		Metadata:    req.Metadata,
	}
	if req.Customer != nil {
		in.Customer = domain.Customer{
			Name:       req.Customer.Name,
			Phone:      req.Customer.Phone,
			Address:    req.Customer.Address,
			Complement: req.Customer.Complement,
			City:       req.Customer.City,
			State:      req.Customer.State,
		}
	}
	in.Items = make([]ports.ExternalItemInput, len(req.Items))
	for i, it := range req.Items {
		in.Items[i] = ports.ExternalItemInput{Name: it.Name, Quantity: it.Quantity, Price: it.Price, Total: it.Total}
	}

	res, err := h.service.Ingest(c.Request().Context(), in)
	if err != nil {
		return err
	}
	if res.AlreadyExisted {
		return c.JSON(http.StatusOK, ingestResponse{
			Success: true,
			Message: "Pedido já recebido anteriormente",
			Order:   toIngestedOrder(res),
		})
	}
	return c.JSON(http.StatusCreated, ingestResponse{
		Success: true,
		Message: "Pedido recebido e criado com sucesso!",
		Order:   toIngestedOrder(res),
	})
}

// Get handles GET /api/external/orders/:external_id.
//
// @Summary      Look up an ingested order by its external id
// @Tags         external
// @Produce      json
// @Param        external_id  path      string  true  "External order id"
// @Success      200          {object}  externalOrderSummaryResponse
// @Failure      404          {object}  map[string]any
// @Router       /api/external/orders/{external_id} [get]
func (h *ExternalOrderHandler) Get(c echo.Context) error {
	o, err := h.service.GetByExternalID(c.Request().Context(), c.Param("external_id"))
	if err != nil {
		return err
	}
	summary := externalOrderSummary{
		InternalID:  o.ID,
		ExternalID:  o.ExternalID,
		Status:      string(o.Status),
		Description: o.Description,
		Total:       money(o.Total),
		CreatedAt:   o.CreatedAt,
		AcceptedBy:  optional(o.AcceptedByName),
		AcceptedAt:  o.AcceptedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	if o.Customer != nil {
		summary.Customer = toCustomerResponse(o.Customer)
	}
	return c.JSON(http.StatusOK, externalOrderSummaryResponse{Success: true, Order: summary})
}

// List handles GET /api/external/orders.
//
// @Summary      List storefront orders
// @Tags         external
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  orderListResponse
// @Failure      401  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Router       /api/external/orders [get]
func (h *ExternalOrderHandler) List(c echo.Context) error {
	return h.listBySource(c, service.SourceStorefront)
}

// ListUploads handles GET /api/json-orders.
//
// @Summary      List orders created from uploaded files
// @Tags         external
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  orderListResponse
// @Failure      401  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Router       /api/json-orders [get]
func (h *ExternalOrderHandler) ListUploads(c echo.Context) error {
	return h.listBySource(c, service.SourceJSONUpload)
}

func (h *ExternalOrderHandler) listBySource(c echo.Context, source string) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	orders, err := h.service.ListBySource(c.Request().Context(), source, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderList(orders))
}

// Upload handles POST /api/upload-json. fileContent may be the export object
// itself or a string holding it.
//
// @Summary      Create an order from a storefront export file
// @Tags         external
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      uploadRequest   true  "Export file"
// @Success      200   {object}  ingestResponse
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /api/upload-json [post]
func (h *ExternalOrderHandler) Upload(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req uploadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.service.Upload(c.Request().Context(), ports.UploadInput{
		FileName: req.FileName,
		Content:  req.FileContent,
		Actor:    actor,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ingestResponse{
		Success: true,
		Message: "Arquivo JSON processado com sucesso! Pedido criado.",
		Order:   toIngestedOrder(res),
	})
}
