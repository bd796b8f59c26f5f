package model

import (
	"time"

	"github.com/google/uuid"
)

// Address is a delivery address. Checkout resolves addresses by
// exact-match lookup on all location fields plus the owner email, and
// only inserts on a miss.
type Address struct {
	ID         uuid.UUID `json:"-" db:"id"`
	Email      string    `json:"email" db:"email"`
	Street     string    `json:"street" db:"street"`
	City       string    `json:"city" db:"city"`
	State      string    `json:"state" db:"state"`
	PostalCode string    `json:"postalCode" db:"postal_code"`
	Country    string    `json:"country" db:"country"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// Company is a registered business that can place orders on behalf of
// its members. NIT is the Colombian tax identification number.
type Company struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Name  string    `json:"name" db:"name"`
	NIT   string    `json:"nit" db:"nit"`
	Email string    `json:"email" db:"email"`
	Phone string    `json:"phone" db:"phone"`
}
