package domain

import "time"

// CourierStatus is the approval state of a courier profile.
type CourierStatus string

const (
	CourierPending  CourierStatus = "pendente"
	CourierApproved CourierStatus = "aprovado"
	CourierRejected CourierStatus = "rejeitado"
)

// CourierProfile is owned by the courier registry. At most one exists per
// user and TaxID (digits only) is unique across all profiles.
type CourierProfile struct {
	ID            string
	UserID        string
	UserEmail     string
	Name          string
	TaxID         string
	Phone         string
	VehicleKind   string
	Address       string
	City          string
	State         string
	PostalCode    string
	Availability  string
	HasLicense    bool
	LicenseNumber string
	Status        CourierStatus
	Verified      bool
	Active        bool
	RegisteredAt  time.Time
	ApprovedAt    *time.Time
}

// Approval returns the status fields written by an admin decision.
func Approval(approved bool, at time.Time) (CourierStatus, *time.Time) {
	if !approved {
		return CourierRejected, nil
	}
	return CourierApproved, &at
}
