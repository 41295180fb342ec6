package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"friendbook/internal/domain"
)

// AddressRepo defines the persistence operations for Addresses.
//
// FindMatch is the dedup lookup: an indexed exact-equality search on all
// four address fields. It replaces scanning a page of existing rows, which
// could silently miss a match beyond the page window on large datasets.
type AddressRepo interface {
	// Create inserts a new address and returns the persisted record.
	// Returns a domain.DuplicateError when an identical address exists.
	Create(ctx context.Context, addr domain.Address) (domain.Address, error)

	// GetByID retrieves a single address by primary key.
	// Returns domain.ErrNotFound if no address with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Address, error)

	// Update overwrites the mutable fields of an address.
	// Returns domain.ErrNotFound if no address with that ID exists, or a
	// domain.DuplicateError when the new fields collide with another row.
	Update(ctx context.Context, addr domain.Address) (domain.Address, error)

	// FindMatch returns the address equal to the given fields (case-sensitive,
	// exact). Returns domain.ErrNotFound when no such row exists.
	FindMatch(ctx context.Context, street string, zipCode int, city, country string) (domain.Address, error)

	// ListPaged returns one page of addresses plus the total count, ordered
	// by country, city, street.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Address, int64, error)
}

// pgAddressRepo is the Postgres implementation of AddressRepo.
type pgAddressRepo struct {
	db db
}

// NewAddressRepo constructs an AddressRepo backed by the provided db connection.
func NewAddressRepo(db db) AddressRepo {
	return &pgAddressRepo{db: db}
}

// Create inserts a new address row.
// The unique index on (street, zip_code, city, country) raises the duplicate signal.
func (r *pgAddressRepo) Create(ctx context.Context, addr domain.Address) (domain.Address, error) {
	const q = `
		INSERT INTO addresses (street, zip_code, city, country)
		VALUES (@street, @zip_code, @city, @country)
		RETURNING id, street, zip_code, city, country, created_at, updated_at`

	args := pgx.NamedArgs{
		"street":   addr.Street,
		"zip_code": addr.ZipCode,
		"city":     addr.City,
		"country":  addr.Country,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanAddress(row)
	if err != nil {
		return domain.Address{}, fmt.Errorf("repo.AddressRepo.Create: %w", mapWriteErr(err, "address"))
	}
	return result, nil
}

// GetByID retrieves an address by primary key.
func (r *pgAddressRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Address, error) {
	const q = `
		SELECT id, street, zip_code, city, country, created_at, updated_at
		FROM addresses
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanAddress(row)
	if err != nil {
		return domain.Address{}, fmt.Errorf("repo.AddressRepo.GetByID: %w", err)
	}
	return result, nil
}

// Update overwrites an address's mutable fields.
func (r *pgAddressRepo) Update(ctx context.Context, addr domain.Address) (domain.Address, error) {
	const q = `
		UPDATE addresses
		SET street     = @street,
		    zip_code   = @zip_code,
		    city       = @city,
		    country    = @country,
		    updated_at = now()
		WHERE id = @id
		RETURNING id, street, zip_code, city, country, created_at, updated_at`

	args := pgx.NamedArgs{
		"id":       addr.ID,
		"street":   addr.Street,
		"zip_code": addr.ZipCode,
		"city":     addr.City,
		"country":  addr.Country,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanAddress(row)
	if err != nil {
		return domain.Address{}, fmt.Errorf("repo.AddressRepo.Update: %w", mapWriteErr(err, "address"))
	}
	return result, nil
}

// FindMatch looks up an address by exact equality on all four fields.
// The lookup is backed by the same unique index that enforces dedup.
func (r *pgAddressRepo) FindMatch(ctx context.Context, street string, zipCode int, city, country string) (domain.Address, error) {
	const q = `
		SELECT id, street, zip_code, city, country, created_at, updated_at
		FROM addresses
		WHERE street   = @street
		  AND zip_code = @zip_code
		  AND city     = @city
		  AND country  = @country`

	args := pgx.NamedArgs{
		"street":   street,
		"zip_code": zipCode,
		"city":     city,
		"country":  country,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanAddress(row)
	if err != nil {
		return domain.Address{}, fmt.Errorf("repo.AddressRepo.FindMatch: %w", err)
	}
	return result, nil
}

// ListPaged returns one page of addresses plus the total count.
func (r *pgAddressRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Address, int64, error) {
	const countQ = `SELECT count(*) FROM addresses`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.AddressRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT id, street, zip_code, city, country, created_at, updated_at
		FROM addresses
		ORDER BY country, city, street
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.AddressRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	addrs := []domain.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.AddressRepo.ListPaged: scan: %w", err)
		}
		addrs = append(addrs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.AddressRepo.ListPaged: rows: %w", err)
	}

	return addrs, total, nil
}

// scanAddress maps a single database row into a domain.Address.
func scanAddress(s scanner) (domain.Address, error) {
	var (
		a  domain.Address
		id pgtype.UUID
	)
	err := s.Scan(&id, &a.Street, &a.ZipCode, &a.City, &a.Country, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Address{}, domain.ErrNotFound
		}
		return domain.Address{}, err
	}
	a.ID = uuid.UUID(id.Bytes)
	return a, nil
}
