package service

import (
	"context"
	"fmt"

	"friendbook/internal/domain"
	"friendbook/internal/repo"
)

// AddressService implements the address browse surface. Address writes are
// owned by EditorService, which is the only component allowed to create or
// mutate address rows (keeping dedup in one place).
type AddressService struct {
	repo repo.AddressRepo
}

// NewAddressService constructs an AddressService backed by the provided AddressRepo.
func NewAddressService(r repo.AddressRepo) *AddressService {
	return &AddressService{repo: r}
}

// ListPaged returns one page of addresses plus the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *AddressService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Address, int64, error) {
	addrs, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.AddressService.ListPaged: %w", err)
	}
	if addrs == nil {
		addrs = []domain.Address{}
	}
	return addrs, total, nil
}
