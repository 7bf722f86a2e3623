package mongo

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/entregadores67/dispatch/internal/core/domain"
)

// orderDocument is the persisted shape of domain.Order in the orders
// collection. Money is stored as Decimal128 so it never goes through float.
type orderDocument struct {
	ID             string               `bson:"_id"`
	Description    string               `bson:"description"`
	Quantity       int                  `bson:"quantity"`
	Status         string               `bson:"status"`
	CreatedBy      string               `bson:"created_by"`
	CreatedByName  string               `bson:"created_by_name"`
	AcceptedBy     string               `bson:"accepted_by,omitempty"`
	AcceptedByName string               `bson:"accepted_by_name,omitempty"`
	AcceptedAt     *time.Time           `bson:"accepted_at,omitempty"`
	CreatedAt      time.Time            `bson:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at"`
	ExternalID     string               `bson:"external_id,omitempty"`
	Source         string               `bson:"source,omitempty"`
	Customer       *customerDocument    `bson:"customer,omitempty"`
	Store          *storeDocument       `bson:"store,omitempty"`
	Items          []orderItemDocument  `bson:"items,omitempty"`
	Total          primitive.Decimal128 `bson:"total"`
	Notes          string               `bson:"notes,omitempty"`
	Metadata       map[string]any       `bson:"metadata,omitempty"`
}

type customerDocument struct {
	Name       string `bson:"name"`
	Phone      string `bson:"phone"`
	Address    string `bson:"address"`
	Complement string `bson:"complement,omitempty"`
	City       string `bson:"city,omitempty"`
	State      string `bson:"state,omitempty"`
}

type storeDocument struct {
	Name  string `bson:"name"`
	Phone string `bson:"phone"`
}

type orderItemDocument struct {
	Name     string               `bson:"name"`
	Quantity int                  `bson:"quantity"`
	Price    primitive.Decimal128 `bson:"price"`
	Total    primitive.Decimal128 `bson:"total"`
}

func toDecimal128(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.NewDecimal128(0, 0)
	}
	return v
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func orderFromDomain(o *domain.Order) orderDocument {
	doc := orderDocument{
		ID:             o.ID,
		Description:    o.Description,
		Quantity:       o.Quantity,
		Status:         string(o.Status),
		CreatedBy:      o.CreatedBy,
		CreatedByName:  o.CreatedByName,
		AcceptedBy:     o.AcceptedBy,
		AcceptedByName: o.AcceptedByName,
		AcceptedAt:     o.AcceptedAt,
		CreatedAt:      o.CreatedAt.UTC(),
		UpdatedAt:      o.UpdatedAt.UTC(),
		ExternalID:     o.ExternalID,
		Source:         o.Source,
		Total:          toDecimal128(o.Total),
		Notes:          o.Notes,
		Metadata:       o.Metadata,
	}
	if c := o.Customer; c != nil {
		doc.Customer = &customerDocument{
			Name: c.Name, Phone: c.Phone, Address: c.Address,
			Complement: c.Complement, City: c.City, State: c.State,
		}
	}
	if s := o.Store; s != nil {
		doc.Store = &storeDocument{Name: s.Name, Phone: s.Phone}
	}
	for _, it := range o.Items {
		doc.Items = append(doc.Items, orderItemDocument{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    toDecimal128(it.Price),
			Total:    toDecimal128(it.Total),
		})
	}
	return doc
}

func (d orderDocument) toDomain() *domain.Order {
	o := &domain.Order{
		ID:             d.ID,
		Description:    d.Description,
		Quantity:       d.Quantity,
		Status:         domain.OrderStatus(d.Status),
		CreatedBy:      d.CreatedBy,
		CreatedByName:  d.CreatedByName,
		AcceptedBy:     d.AcceptedBy,
		AcceptedByName: d.AcceptedByName,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
		ExternalID:     d.ExternalID,
		Source:         d.Source,
		Total:          fromDecimal128(d.Total),
		Notes:          d.Notes,
		Metadata:       d.Metadata,
	}
	if d.AcceptedAt != nil {
		at := d.AcceptedAt.UTC()
		o.AcceptedAt = &at
	}
	if c := d.Customer; c != nil {
		o.Customer = &domain.Customer{
			Name: c.Name, Phone: c.Phone, Address: c.Address,
			Complement: c.Complement, City: c.City, State: c.State,
		}
	}
	if s := d.Store; s != nil {
		o.Store = &domain.StoreInfo{Name: s.Name, Phone: s.Phone}
	}
	for _, it := range d.Items {
		o.Items = append(o.Items, domain.OrderItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    fromDecimal128(it.Price),
			Total:    fromDecimal128(it.Total),
		})
	}
	return o
}

type courierDocument struct {
	ID            string     `bson:"_id"`
	UserID        string     `bson:"user_id"`
	UserEmail     string     `bson:"user_email"`
	Name          string     `bson:"name"`
	TaxID         string     `bson:"tax_id"`
	Phone         string     `bson:"phone"`
	VehicleKind   string     `bson:"vehicle_kind"`
	Address       string     `bson:"address"`
	City          string     `bson:"city"`
	State         string     `bson:"state"`
	PostalCode    string     `bson:"postal_code"`
	Availability  string     `bson:"availability"`
	HasLicense    bool       `bson:"has_license"`
	LicenseNumber string     `bson:"license_number,omitempty"`
	Status        string     `bson:"status"`
	Verified      bool       `bson:"verified"`
	Active        bool       `bson:"active"`
	RegisteredAt  time.Time  `bson:"registered_at"`
	ApprovedAt    *time.Time `bson:"approved_at,omitempty"`
}

func courierFromDomain(p *domain.CourierProfile) courierDocument {
	return courierDocument{
		ID: p.ID, UserID: p.UserID, UserEmail: p.UserEmail, Name: p.Name,
		TaxID: p.TaxID, Phone: p.Phone, VehicleKind: p.VehicleKind,
		Address: p.Address, City: p.City, State: p.State, PostalCode: p.PostalCode,
		Availability: p.Availability, HasLicense: p.HasLicense, LicenseNumber: p.LicenseNumber,
		Status: string(p.Status), Verified: p.Verified, Active: p.Active,
		RegisteredAt: p.RegisteredAt.UTC(), ApprovedAt: p.ApprovedAt,
	}
}

func (d courierDocument) toDomain() *domain.CourierProfile {
	p := &domain.CourierProfile{
		ID: d.ID, UserID: d.UserID, UserEmail: d.UserEmail, Name: d.Name,
		TaxID: d.TaxID, Phone: d.Phone, VehicleKind: d.VehicleKind,
		Address: d.Address, City: d.City, State: d.State, PostalCode: d.PostalCode,
		Availability: d.Availability, HasLicense: d.HasLicense, LicenseNumber: d.LicenseNumber,
		Status: domain.CourierStatus(d.Status), Verified: d.Verified, Active: d.Active,
		RegisteredAt: d.RegisteredAt.UTC(),
	}
	if d.ApprovedAt != nil {
		at := d.ApprovedAt.UTC()
		p.ApprovedAt = &at
	}
	return p
}

type userDocument struct {
	ID               string    `bson:"_id"`
	Email            string    `bson:"email,omitempty"`
	Name             string    `bson:"name"`
	PasswordHash     string    `bson:"password_hash,omitempty"`
	Role             string    `bson:"role"`
	ProfileCompleted bool      `bson:"profile_completed"`
	CreatedAt        time.Time `bson:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at"`
	LastLogin        time.Time `bson:"last_login"`
}

func (d userDocument) toDomain() *domain.User {
	return &domain.User{
		ID: d.ID, Email: d.Email, Name: d.Name, PasswordHash: d.PasswordHash,
		Role: d.Role, ProfileCompleted: d.ProfileCompleted,
		CreatedAt: d.CreatedAt.UTC(), UpdatedAt: d.UpdatedAt.UTC(), LastLogin: d.LastLogin.UTC(),
	}
}

type orderEventDocument struct {
	OrderID   string    `bson:"order_id"`
	Type      string    `bson:"type"`
	Status    string    `bson:"status,omitempty"`
	ActorID   string    `bson:"actor_id"`
	ActorRole string    `bson:"actor_role"`
	At        time.Time `bson:"at"`
}
