package ports

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/entregadores67/dispatch/internal/core/domain"
)

// ExternalItemInput is one item line pushed by a partner storefront.
type ExternalItemInput struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
	Total    decimal.Decimal
}

// ExternalOrderInput is the ingestion payload of a partner storefront.
type ExternalOrderInput struct {
	ExternalID  string
	Source      string
	StoreName   string
	StorePhone  string
	Customer    domain.Customer
	Items       []ExternalItemInput
	Total       *decimal.Decimal
	Description string
	Notes       string
	Metadata    map[string]any
	// CreatedBy overrides the default "external_<source>" creator tag.
	CreatedBy     string
	CreatedByName string
}

// IngestResult is returned after an external order was accepted.
type IngestResult struct {
	Order *domain.Order
	// AlreadyExisted is true when the external id had been ingested before.
	AlreadyExisted bool
}

// UploadInput carries a storefront export file uploaded by an admin.
type UploadInput struct {
	FileName string
	Content  json.RawMessage
	Actor    domain.Actor
}

// ExternalOrderService ingests orders that originate outside the admin panel.
type ExternalOrderService interface {
	Ingest(ctx context.Context, in ExternalOrderInput) (*IngestResult, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Order, error)
	ListBySource(ctx context.Context, source string, actor domain.Actor) ([]*domain.Order, error)
	Upload(ctx context.Context, in UploadInput) (*IngestResult, error)
}
