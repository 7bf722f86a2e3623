package domain

import "time"

const (
	RoleAdmin   = "admin"
	RoleCourier = "entregador"
)

// User models an authenticated actor. Role lives here and nowhere else; it is
// changed only by an explicit promotion.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	PasswordHash     string    `json:"-"`
	Role             string    `json:"role"`
	ProfileCompleted bool      `json:"profileCompleted"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	LastLogin        time.Time `json:"lastLogin"`
}

// Actor is the caller of a service operation, as resolved by the auth layer.
type Actor struct {
	ID    string
	Name  string
	Email string
	Role  string
}

func (a Actor) IsAdmin() bool   { return a.Role == RoleAdmin }
func (a Actor) IsCourier() bool { return a.Role == RoleCourier }
