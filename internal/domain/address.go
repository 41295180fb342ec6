package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Address represents a postal address. Addresses are deduplicated: two
// friends at the same street/zip/city/country share one row, matched by
// exact equality on all four fields (unique index).
type Address struct {
	ID        uuid.UUID `json:"id"`
	Street    string    `json:"street"`
	ZipCode   int       `json:"zip_code"` // 0 when not provided
	City      string    `json:"city"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// String renders the address in one human-readable line, used when
// reporting duplicate conflicts back to the user.
func (a Address) String() string {
	return fmt.Sprintf("%s, %d %s, %s", a.Street, a.ZipCode, a.City, a.Country)
}
