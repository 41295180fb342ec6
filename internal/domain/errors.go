package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repo and service functions when the requested
// record does not exist in the backing store.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by draft and service functions when input fails
// business rule validation (e.g. missing required field, malformed zip code).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrDuplicate is the sentinel matched by errors.Is for any duplicate-key
// conflict raised by the storage boundary. Handlers should map this to
// HTTP 409 Conflict.
var ErrDuplicate = errors.New("duplicate")

// DuplicateError reports that a create or update was rejected because an
// equivalent row already exists. It is raised by the repo layer from the
// database's unique-constraint signal, never inferred from message text,
// and carries the entity kind so the save engine can attach the
// human-readable conflicting content.
type DuplicateError struct {
	// Entity names the conflicting record kind: "address" or "quote".
	Entity string
	// Detail is the human-readable content of the conflicting record,
	// filled in by the layer that knows how to render it.
	Detail string
}

func (e *DuplicateError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s already exists", e.Entity)
	}
	return fmt.Sprintf("%s %s already exists", e.Entity, e.Detail)
}

// Is makes errors.Is(err, ErrDuplicate) succeed for any DuplicateError.
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// NotFoundError reports a draft reference to a record that no longer exists
// in the backing store. It names the entity kind and identity so handlers can
// show the message verbatim instead of reassembling it from a wrapped chain.
type NotFoundError struct {
	// Entity names the vanished record kind: "friend", "pet", or "quote".
	Entity string
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) succeed for any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
