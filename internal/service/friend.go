// Package service contains the business logic for the Friendbook API.
// Services validate inputs, enforce business rules, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations. The save engine for edit sessions is EditorService.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"friendbook/internal/domain"
	"friendbook/internal/repo"
)

// FriendService implements the read and delete operations of the members
// surface. All write paths for the aggregate go through EditorService.
type FriendService struct {
	repo repo.FriendRepo
}

// NewFriendService constructs a FriendService backed by the provided FriendRepo.
func NewFriendService(r repo.FriendRepo) *FriendService {
	return &FriendService{repo: r}
}

// GetByID returns a single friend by ID with address, pets, and quotes.
// Returns domain.ErrNotFound if no friend with that ID exists.
func (s *FriendService) GetByID(ctx context.Context, id uuid.UUID) (domain.Friend, error) {
	result, err := s.repo.GetByID(ctx, id, true)
	if err != nil {
		return domain.Friend{}, fmt.Errorf("service.FriendService.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged returns one page of friends plus the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *FriendService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Friend, int64, error) {
	friends, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.FriendService.ListPaged: %w", err)
	}
	if friends == nil {
		friends = []domain.Friend{}
	}
	return friends, total, nil
}

// Delete removes a friend by ID. Owned pets are removed with it; shared
// quotes and addresses survive for other friends.
// Returns domain.ErrNotFound if the friend does not exist.
func (s *FriendService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.FriendService.Delete: %w", err)
	}
	return nil
}
