// Package handler implements the HTTP handlers for the Friendbook API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, friend.go, editor.go, address.go) but all share the same
// Server struct so they can access its dependencies. Routes assembles them
// onto a chi router.
package handler

import (
	"context"

	"github.com/google/uuid"

	"friendbook/internal/domain"
	"friendbook/internal/draft"
)

// FriendServicer defines the business operations the friend handlers depend
// on. Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type FriendServicer interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Friend, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Friend, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AddressServicer defines the address browse operation the handlers depend on.
type AddressServicer interface {
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Address, int64, error)
}

// EditorServicer is the save engine boundary: one call persists a whole
// edit-session draft.
type EditorServicer interface {
	Save(ctx context.Context, f *draft.Friend) (uuid.UUID, error)
}

// Server holds the handlers for all API endpoints.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	friends   FriendServicer
	addresses AddressServicer
	editor    EditorServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(friends FriendServicer, addresses AddressServicer, editor EditorServicer) *Server {
	return &Server{friends: friends, addresses: addresses, editor: editor}
}
