// Package domain contains the core data types for the Friendbook application.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (draft, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Friend represents a single person record with their owned pets and the
// quotes attributed to them. A friend is the top-level aggregate; pets belong
// to exactly one friend, while quotes are shared and linked through a join
// table. Address is nil when the friend has no postal address on file.
type Friend struct {
	ID        uuid.UUID  `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Birthday  *time.Time `json:"birthday,omitempty"` // nil when unknown
	AddressID *uuid.UUID `json:"address_id,omitempty"`
	Address   *Address   `json:"address,omitempty"`
	Pets      []Pet      `json:"pets,omitempty"`
	Quotes    []Quote    `json:"quotes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
