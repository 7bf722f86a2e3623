package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/entregadores67/dispatch/internal/api/metrics"
	"github.com/entregadores67/dispatch/internal/core/domain"
	"github.com/entregadores67/dispatch/internal/core/ports"
)

const (
	SourceStorefront = "garagem67"
	SourceJSONUpload = "json_upload"

	defaultStoreName  = "Garagem 67"
	defaultStorePhone = "67998668032"
	defaultCity       = "Ivinhema"
	defaultState      = "MS"

	reservationTTL = 30 * time.Second
	replayWait     = 2 * time.Second
	replayPoll     = 50 * time.Millisecond
)

// ExternalOrderService turns partner storefront payloads into pending orders.
type ExternalOrderService struct {
	repo   ports.OrderRepository
	guard  ports.IngestionGuard
	pub    ports.EventPublisher
	logger zerolog.Logger
	now    func() time.Time
	// replayWait bounds how long a duplicate delivery waits for the
	// in-flight one to store the order.
	replayWait time.Duration
}

func NewExternalOrderService(
	repo ports.OrderRepository,
	guard ports.IngestionGuard,
	pub ports.EventPublisher,
	logger zerolog.Logger,
) *ExternalOrderService {
	return &ExternalOrderService{
		repo:   repo,
		guard:  guard,
		pub:    pub,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },

		replayWait: replayWait,
	}
}

// Ingest validates and stores an order pushed by a partner storefront. A
// redelivery of a known external id returns the stored order instead of
// creating another. The json_upload source is reserved for admin uploads.
func (s *ExternalOrderService) Ingest(ctx context.Context, in ports.ExternalOrderInput) (*ports.IngestResult, error) {
	if strings.EqualFold(strings.TrimSpace(in.Source), SourceJSONUpload) {
		return nil, fmt.Errorf("%w: source %q is reserved for admin uploads", domain.ErrValidation, SourceJSONUpload)
	}
	return s.ingest(ctx, in)
}

func (s *ExternalOrderService) ingest(ctx context.Context, in ports.ExternalOrderInput) (*ports.IngestResult, error) {
	if err := validateExternal(in); err != nil {
		return nil, err
	}

	source := in.Source
	if source == "" {
		source = SourceStorefront
	}
	now := s.now()
	externalID := strings.TrimSpace(in.ExternalID)
	if externalID == "" {
		externalID = generateExternalID(source, now)
	}

	if existing, err := s.repo.FindByExternalID(ctx, externalID); err == nil {
		s.logger.Info().Str("external_id", externalID).Str("order_id", existing.ID).Msg("external order replay")
		metrics.ExternalOrdersTotal.WithLabelValues(source, "replay").Inc()
		return &ports.IngestResult{Order: existing, AlreadyExisted: true}, nil
	} else if !errors.Is(err, domain.ErrOrderNotFound) {
		return nil, fmt.Errorf("ingest external order: %w", err)
	}

	reserved, err := s.guard.Reserve(ctx, externalID, reservationTTL)
	if err != nil {
		return nil, fmt.Errorf("ingest external order: reserve: %w", err)
	}
	if !reserved {
		metrics.ExternalOrdersTotal.WithLabelValues(source, "in_flight").Inc()
		existing, err := s.awaitStored(ctx, externalID)
		if err != nil {
			return nil, err
		}
		metrics.ExternalOrdersTotal.WithLabelValues(source, "replay").Inc()
		return &ports.IngestResult{Order: existing, AlreadyExisted: true}, nil
	}
	defer func() {
		if relErr := s.guard.Release(ctx, externalID); relErr != nil {
			s.logger.Warn().Err(relErr).Str("external_id", externalID).Msg("failed to release reservation")
		}
	}()

	// A delivery that finished between the lookup and the reservation.
	if existing, err := s.repo.FindByExternalID(ctx, externalID); err == nil {
		metrics.ExternalOrdersTotal.WithLabelValues(source, "replay").Inc()
		return &ports.IngestResult{Order: existing, AlreadyExisted: true}, nil
	}

	order := s.buildOrder(in, source, externalID, now)
	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("external_id", externalID).Msg("failed to create external order")
		return nil, fmt.Errorf("ingest external order: %w", err)
	}

	metrics.OrdersCreatedTotal.WithLabelValues(source).Inc()
	metrics.ExternalOrdersTotal.WithLabelValues(source, "created").Inc()
	if s.pub != nil {
		s.pub.Publish(domain.OrderEvent{
			OrderID:   order.ID,
			Type:      domain.EventOrderCreated,
			Status:    order.Status,
			ActorID:   order.CreatedBy,
			ActorRole: "external",
			At:        now,
		})
	}
	s.logger.Info().
		Str("order_id", order.ID).
		Str("external_id", externalID).
		Str("source", source).
		Str("customer", order.Customer.Name).
		Str("total", order.Total.StringFixed(2)).
		Msg("external order ingested")

	return &ports.IngestResult{Order: order}, nil
}

// awaitStored polls for the order another delivery of externalID is storing.
// It gives up with ErrConflict once replayWait has passed.
func (s *ExternalOrderService) awaitStored(ctx context.Context, externalID string) (*domain.Order, error) {
	deadline := time.NewTimer(s.replayWait)
	defer deadline.Stop()
	tick := time.NewTicker(replayPoll)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("ingest external order: %w", ctx.Err())
		case <-deadline.C:
			return nil, fmt.Errorf("%w: external order %s is already being processed", domain.ErrConflict, externalID)
		case <-tick.C:
			existing, err := s.repo.FindByExternalID(ctx, externalID)
			if err == nil {
				return existing, nil
			}
			if !errors.Is(err, domain.ErrOrderNotFound) {
				return nil, fmt.Errorf("ingest external order: %w", err)
			}
		}
	}
}

// GetByExternalID looks an order up by the id the partner knows it by.
func (s *ExternalOrderService) GetByExternalID(ctx context.Context, externalID string) (*domain.Order, error) {
	o, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("get external order: %w", err)
	}
	return o, nil
}

// ListBySource returns the orders ingested from one source, newest first.
func (s *ExternalOrderService) ListBySource(ctx context.Context, source string, actor domain.Actor) ([]*domain.Order, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("list external orders: %w", domain.ErrForbidden)
	}
	orders, err := s.repo.List(ctx, ports.OrderFilter{Source: source})
	if err != nil {
		return nil, fmt.Errorf("list external orders: %w", err)
	}
	return orders, nil
}

// uploadFile is the storefront export format accepted by Upload.
type uploadFile struct {
	OrderID  string `json:"order_id"`
	Customer *struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Address struct {
			Street     string `json:"street"`
			City       string `json:"city"`
			State      string `json:"state"`
			Complement string `json:"complement"`
		} `json:"address"`
	} `json:"customer"`
	Items []struct {
		Name     string          `json:"name"`
		Quantity int             `json:"quantity"`
		Price    decimal.Decimal `json:"price"`
		Subtotal decimal.Decimal `json:"subtotal"`
	} `json:"items"`
	Totals struct {
		Total decimal.Decimal `json:"total"`
	} `json:"totals"`
	Notes string `json:"notes"`
}

// Upload ingests a storefront export file on behalf of an admin.
func (s *ExternalOrderService) Upload(ctx context.Context, in ports.UploadInput) (*ports.IngestResult, error) {
	if !in.Actor.IsAdmin() {
		return nil, fmt.Errorf("upload order: %w", domain.ErrForbidden)
	}
	if strings.TrimSpace(in.FileName) == "" || len(in.Content) == 0 {
		return nil, fmt.Errorf("%w: fileName and fileContent are required", domain.ErrValidation)
	}

	// fileContent may arrive as an object or as a JSON-encoded string.
	raw := []byte(in.Content)
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		raw = []byte(asString)
	}

	var f uploadFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON file: %v", domain.ErrValidation, err)
	}
	if f.Customer == nil || len(f.Items) == 0 {
		return nil, fmt.Errorf("%w: customer and items are required", domain.ErrValidation)
	}

	addr := f.Customer.Address
	items := make([]ports.ExternalItemInput, len(f.Items))
	names := make([]string, len(f.Items))
	for i, it := range f.Items {
		items[i] = ports.ExternalItemInput{Name: it.Name, Quantity: it.Quantity, Price: it.Price, Total: it.Subtotal}
		names[i] = fmt.Sprintf("%dx %s", it.Quantity, it.Name)
	}
	total := f.Totals.Total
	notes := f.Notes
	if notes == "" {
		notes = "Pedido via upload JSON"
	}

	createdByName := in.Actor.Name
	if createdByName == "" {
		createdByName = "Administrador"
	}

	return s.ingest(ctx, ports.ExternalOrderInput{
		ExternalID: f.OrderID,
		Source:     SourceJSONUpload,
		StoreName:  defaultStoreName,
		StorePhone: defaultStorePhone,
		Customer: domain.Customer{
			Name:       f.Customer.Name,
			Phone:      f.Customer.Phone,
			Address:    fmt.Sprintf("%s, %s - %s", addr.Street, addr.City, addr.State),
			Complement: addr.Complement,
			City:       addr.City,
			State:      addr.State,
		},
		Items:       items,
		Total:       &total,
		Description: strings.Join(names, ", "),
		Notes:       notes,
		Metadata: map[string]any{
			"source":        SourceJSONUpload,
			"original_file": in.FileName,
			"upload_time":   s.now().Format(time.RFC3339),
		},
		CreatedBy:     in.Actor.ID,
		CreatedByName: createdByName,
	})
}

func validateExternal(in ports.ExternalOrderInput) error {
	c := in.Customer
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Phone) == "" || strings.TrimSpace(c.Address) == "" {
		return fmt.Errorf("%w: customer name, phone and address are required", domain.ErrValidation)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: order has no items", domain.ErrValidation)
	}
	for i, it := range in.Items {
		if strings.TrimSpace(it.Name) == "" || it.Quantity <= 0 {
			return fmt.Errorf("%w: item[%d] needs a name and a positive quantity", domain.ErrValidation, i)
		}
	}
	return nil
}

func (s *ExternalOrderService) buildOrder(in ports.ExternalOrderInput, source, externalID string, now time.Time) *domain.Order {
	storeName := in.StoreName
	if storeName == "" {
		storeName = defaultStoreName
	}
	storePhone := in.StorePhone
	if storePhone == "" {
		storePhone = defaultStorePhone
	}

	items := make([]domain.OrderItem, len(in.Items))
	names := make([]string, len(in.Items))
	quantity := 1
	for i, it := range in.Items {
		items[i] = domain.OrderItem{Name: it.Name, Quantity: it.Quantity, Price: it.Price, Total: it.Total}
		names[i] = fmt.Sprintf("%dx %s", it.Quantity, it.Name)
		quantity += it.Quantity
	}

	desc := in.Description
	if desc == "" {
		desc = strings.Join(names, ", ")
	}

	total := decimal.Zero
	if in.Total != nil {
		total = *in.Total
	}

	customer := in.Customer
	if customer.City == "" {
		customer.City = defaultCity
	}
	if customer.State == "" {
		customer.State = defaultState
	}

	createdBy := in.CreatedBy
	if createdBy == "" {
		createdBy = "external_" + source
	}
	createdByName := in.CreatedByName
	if createdByName == "" {
		createdByName = storeName
	}

	metadata := in.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	return &domain.Order{
		ID:            uuid.NewString(),
		Description:   fmt.Sprintf("%s: %s", storeName, desc),
		Quantity:      quantity,
		Status:        domain.StatusPending,
		CreatedBy:     createdBy,
		CreatedByName: createdByName,
		CreatedAt:     now,
		UpdatedAt:     now,
		ExternalID:    externalID,
		Source:        source,
		Customer:      &customer,
		Store:         &domain.StoreInfo{Name: storeName, Phone: storePhone},
		Items:         items,
		Total:         total,
		Notes:         in.Notes,
		Metadata:      metadata,
	}
}

// generateExternalID returns an id in the format <source>_<unix-ms>_<8 hex>.
func generateExternalID(source string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", source, now.UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
