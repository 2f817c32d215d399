package domain

import "time"

// CustomerStatus enumerates customer account states.
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "ACTIVE"
	CustomerStatusInactive CustomerStatus = "INACTIVE"
)

// Customer is the minimal customer record the after-service flow needs.
// Phone is the dedup key: two records never share the same phone.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Address   string
	Status    CustomerStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
