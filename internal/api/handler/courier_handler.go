package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/entregadores67/dispatch/internal/core/domain"
	"github.com/entregadores67/dispatch/internal/core/ports"
)

// CourierHandler exposes the courier registry.
type CourierHandler struct {
	service ports.CourierService
}

func NewCourierHandler(service ports.CourierService) *CourierHandler {
	return &CourierHandler{service: service}
}

// --- Request / Response types ---

// registerCourierRequest keeps the field names the courier app sends.
// Presence is checked by the service so that every missing field is reported
// at once; the tags here only check the format of what was sent.
type registerCourierRequest struct {
	Name          string `json:"nome"`
	TaxID         string `json:"cpf" validate:"omitempty,taxid"`
	Phone         string `json:"telefone" validate:"omitempty,phone"`
	VehicleKind   string `json:"veiculo"`
	Address       string `json:"endereco"`
	City          string `json:"cidade"`
	State         string `json:"estado"`
	PostalCode    string `json:"cep" validate:"omitempty,postalcode"`
	Availability  string `json:"disponibilidade"`
	HasLicense    *bool  `json:"possuiCnh"`
	LicenseNumber string `json:"cnh"`
}

type approvalRequest struct {
	Approved *bool `json:"aprovado" validate:"required"`
}

type courierResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	UserEmail     string     `json:"userEmail"`
	Name          string     `json:"nome"`
	TaxID         string     `json:"cpf"`
	Phone         string     `json:"telefone"`
	VehicleKind   string     `json:"veiculo"`
	Address       string     `json:"endereco"`
	City          string     `json:"cidade"`
	State         string     `json:"estado"`
	PostalCode    string     `json:"cep"`
	Availability  string     `json:"disponibilidade"`
	HasLicense    bool       `json:"possuiCnh"`
	LicenseNumber string     `json:"cnh,omitempty"`
	Status        string     `json:"status"`
	Verified      bool       `json:"verificado"`
	Active        bool       `json:"ativo"`
	RegisteredAt  time.Time  `json:"dataCadastro"`
	ApprovedAt    *time.Time `json:"dataAprovacao"`
}

type courierEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Courier courierResponse `json:"entregador"`
}

type courierListResponse struct {
	Success bool              `json:"success"`
	Data    []courierResponse `json:"data"`
	Total   int               `json:"total"`
}

func toCourierResponse(p *domain.CourierProfile) courierResponse {
	return courierResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		UserEmail:     p.UserEmail,
		Name:          p.Name,
		TaxID:         p.TaxID,
		Phone:         p.Phone,
		VehicleKind:   p.VehicleKind,
		Address:       p.Address,
		City:          p.City,
		State:         p.State,
		PostalCode:    p.PostalCode,
		Availability:  p.Availability,
		HasLicense:    p.HasLicense,
		LicenseNumber: p.LicenseNumber,
		Status:        string(p.Status),
		Verified:      p.Verified,
		Active:        p.Active,
		RegisteredAt:  p.RegisteredAt,
		ApprovedAt:    p.ApprovedAt,
	}
}

// Register handles POST /cadastro.
//
// @Summary      Register the caller's courier profile
// @Tags         entregadores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerCourierRequest  true  "Courier profile"
// @Success      201   {object}  courierEnvelope
// @Failure      400   {object}  map[string]any  "missing fields or duplicate cpf"
// @Failure      401   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /cadastro [post]
func (h *CourierHandler) Register(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req registerCourierRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.service.RegisterCourier(c.Request().Context(), ports.RegisterCourierInput{
		Name:          req.Name,
		TaxID:         req.TaxID,
		Phone:         req.Phone,
		VehicleKind:   req.VehicleKind,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		PostalCode:    req.PostalCode,
		Availability:  req.Availability,
		HasLicense:    req.HasLicense,
		LicenseNumber: req.LicenseNumber,
		Actor:         actor,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, courierEnvelope{
		Success: true,
		Message: "Cadastro realizado com sucesso! Aguarde aprovação.",
		Courier: toCourierResponse(profile),
	})
}

// List handles GET /entregadores.
//
// @Summary      List courier profiles
// @Tags         entregadores
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  courierListResponse
// @Failure      401  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Router       /entregadores [get]
func (h *CourierHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	profiles, err := h.service.ListCouriers(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	data := make([]courierResponse, len(profiles))
	for i, p := range profiles {
		data[i] = toCourierResponse(p)
	}
	return c.JSON(http.StatusOK, courierListResponse{Success: true, Data: data, Total: len(data)})
}

// SetApproval handles PATCH /entregadores/:id/aprovar.
//
// @Summary      Approve or reject a courier
// @Tags         entregadores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Courier profile id"
// @Param        body  body      approvalRequest  true  "Decision"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /entregadores/{id}/aprovar [patch]
func (h *CourierHandler) SetApproval(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req approvalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.SetApproval(c.Request().Context(), c.Param("id"), *req.Approved, actor); err != nil {
		return err
	}

	msg := "Entregador rejeitado com sucesso!"
	if *req.Approved {
		msg = "Entregador aprovado com sucesso!"
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: msg})
}
