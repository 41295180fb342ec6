package draft

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"friendbook/internal/domain"
)

// zipPattern matches the textual zip code form accepted from the UI.
var zipPattern = regexp.MustCompile(`^[0-9]{3,10}$`)

// Address is the editable copy of the draft's postal address.
//
// ID is nil for a brand-new address. ZipCode is kept in its textual form
// until save time; a blank zip converts to 0. An address with no identity
// and all fields blank means "no address" — the save engine clears the
// parent's address reference instead of persisting an empty row.
type Address struct {
	ID     *uuid.UUID
	Status Status

	Street  string
	ZipCode string
	City    string
	Country string
}

// addressFromRecord builds an Unchanged draft address from a persisted record.
func addressFromRecord(rec domain.Address) *Address {
	id := rec.ID
	return &Address{
		ID:      &id,
		Status:  Unchanged,
		Street:  rec.Street,
		ZipCode: strconv.Itoa(rec.ZipCode),
		City:    rec.City,
		Country: rec.Country,
	}
}

// Empty reports whether every field of the address is blank.
func (a *Address) Empty() bool {
	return strings.TrimSpace(a.Street) == "" &&
		strings.TrimSpace(a.ZipCode) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.Country) == ""
}

// ZipValue converts the textual zip code to its integer form.
// Blank converts to 0; anything else must be 3-10 digits.
func (a *Address) ZipValue() (int, error) {
	zip := strings.TrimSpace(a.ZipCode)
	if zip == "" {
		return 0, nil
	}
	if !zipPattern.MatchString(zip) {
		return 0, fmt.Errorf("%w: zip code must be 3-10 digits", domain.ErrValidation)
	}
	return strconv.Atoi(zip)
}

// Record applies the draft's fields onto an authoritative persisted record.
// The caller must have validated the zip code beforehand.
func (a *Address) Record(rec domain.Address) domain.Address {
	zip, _ := a.ZipValue()
	rec.Street = a.Street
	rec.ZipCode = zip
	rec.City = a.City
	rec.Country = a.Country
	return rec
}

// String renders the address the way duplicate-conflict messages show it.
func (a *Address) String() string {
	return fmt.Sprintf("%s, %s %s, %s", a.Street, a.ZipCode, a.City, a.Country)
}
