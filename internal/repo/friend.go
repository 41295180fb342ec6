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

// FriendRepo defines the persistence operations for Friends.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the save engine to be unit-tested with mocks.
type FriendRepo interface {
	// Create inserts a new friend and returns the persisted record (with
	// DB-generated id and timestamps populated). Children are not written
	// here — the save engine reconciles them separately.
	Create(ctx context.Context, friend domain.Friend) (domain.Friend, error)

	// GetByID retrieves a single friend by primary key. When includeChildren
	// is true the address, pets, and quotes are loaded as well.
	// Returns domain.ErrNotFound if no friend with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID, includeChildren bool) (domain.Friend, error)

	// ListPaged returns one page of friends plus the total count. The
	// pagination filter matches case-insensitively against first name,
	// last name, and email.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Friend, int64, error)

	// Update overwrites the mutable scalar fields and the address reference
	// of an existing friend and returns the updated record.
	// Returns domain.ErrNotFound if no friend with that ID exists.
	Update(ctx context.Context, friend domain.Friend) (domain.Friend, error)

	// Delete removes a friend by ID. Owned pets go with it (cascade);
	// shared quotes survive. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgFriendRepo is the Postgres implementation of FriendRepo.
type pgFriendRepo struct {
	db db
}

// NewFriendRepo constructs a FriendRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewFriendRepo(db db) FriendRepo {
	return &pgFriendRepo{db: db}
}

// Create inserts a new friend row and returns the full persisted record.
func (r *pgFriendRepo) Create(ctx context.Context, friend domain.Friend) (domain.Friend, error) {
	const q = `
		INSERT INTO friends (first_name, last_name, email, birthday, address_id)
		VALUES (@first_name, @last_name, @email, @birthday, @address_id)
		RETURNING id, first_name, last_name, email, birthday, address_id, created_at, updated_at`

	args := pgx.NamedArgs{
		"first_name": friend.FirstName,
		"last_name":  friend.LastName,
		"email":      friend.Email,
		"birthday":   friend.Birthday,  // nil becomes NULL
		"address_id": friend.AddressID, // nil becomes NULL
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanFriend(row)
	if err != nil {
		return domain.Friend{}, fmt.Errorf("repo.FriendRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a friend by primary key, optionally with children.
func (r *pgFriendRepo) GetByID(ctx context.Context, id uuid.UUID, includeChildren bool) (domain.Friend, error) {
	const q = `
		SELECT id, first_name, last_name, email, birthday, address_id, created_at, updated_at
		FROM friends
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	friend, err := scanFriend(row)
	if err != nil {
		return domain.Friend{}, fmt.Errorf("repo.FriendRepo.GetByID: %w", err)
	}

	if !includeChildren {
		return friend, nil
	}
	if err := r.loadChildren(ctx, &friend); err != nil {
		return domain.Friend{}, fmt.Errorf("repo.FriendRepo.GetByID: %w", err)
	}
	return friend, nil
}

// loadChildren fills in the address, pets, and quotes of a friend.
func (r *pgFriendRepo) loadChildren(ctx context.Context, friend *domain.Friend) error {
	if friend.AddressID != nil {
		const q = `
			SELECT id, street, zip_code, city, country, created_at, updated_at
			FROM addresses
			WHERE id = @id`
		row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": *friend.AddressID})
		addr, err := scanAddress(row)
		if err != nil {
			return fmt.Errorf("address: %w", err)
		}
		friend.Address = &addr
	}

	pets, err := listPetsByFriend(ctx, r.db, friend.ID)
	if err != nil {
		return fmt.Errorf("pets: %w", err)
	}
	friend.Pets = pets

	quotes, err := listQuotesByFriend(ctx, r.db, friend.ID)
	if err != nil {
		return fmt.Errorf("quotes: %w", err)
	}
	friend.Quotes = quotes

	return nil
}

// ListPaged returns one page of friends ordered by last name, first name.
func (r *pgFriendRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Friend, int64, error) {
	const countQ = `
		SELECT count(*)
		FROM friends
		WHERE @filter = ''
		   OR first_name ILIKE '%' || @filter || '%'
		   OR last_name  ILIKE '%' || @filter || '%'
		   OR email      ILIKE '%' || @filter || '%'`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"filter": p.Filter}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.FriendRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT id, first_name, last_name, email, birthday, address_id, created_at, updated_at
		FROM friends
		WHERE @filter = ''
		   OR first_name ILIKE '%' || @filter || '%'
		   OR last_name  ILIKE '%' || @filter || '%'
		   OR email      ILIKE '%' || @filter || '%'
		ORDER BY last_name, first_name
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"filter": p.Filter,
		"limit":  p.Limit,
		"offset": p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.FriendRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	friends := []domain.Friend{}
	for rows.Next() {
		f, err := scanFriend(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.FriendRepo.ListPaged: scan: %w", err)
		}
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.FriendRepo.ListPaged: rows: %w", err)
	}

	return friends, total, nil
}

// Update overwrites a friend's scalar fields and address reference.
func (r *pgFriendRepo) Update(ctx context.Context, friend domain.Friend) (domain.Friend, error) {
	const q = `
		UPDATE friends
		SET first_name = @first_name,
		    last_name  = @last_name,
		    email      = @email,
		    birthday   = @birthday,
		    address_id = @address_id,
		    updated_at = now()
		WHERE id = @id
		RETURNING id, first_name, last_name, email, birthday, address_id, created_at, updated_at`

	args := pgx.NamedArgs{
		"id":         friend.ID,
		"first_name": friend.FirstName,
		"last_name":  friend.LastName,
		"email":      friend.Email,
		"birthday":   friend.Birthday,
		"address_id": friend.AddressID,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanFriend(row)
	if err != nil {
		return domain.Friend{}, fmt.Errorf("repo.FriendRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a friend by primary key.
func (r *pgFriendRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM friends WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.FriendRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.FriendRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanFriend maps a single database row into a domain.Friend.
// It handles the UUID, nullable birthday, and nullable address_id conversions.
func scanFriend(s scanner) (domain.Friend, error) {
	var (
		f         domain.Friend
		id        pgtype.UUID
		birthday  pgtype.Date
		addressID pgtype.UUID
	)

	err := s.Scan(&id, &f.FirstName, &f.LastName, &f.Email, &birthday, &addressID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Friend{}, domain.ErrNotFound
		}
		return domain.Friend{}, err
	}

	f.ID = uuid.UUID(id.Bytes)
	if birthday.Valid {
		bd := birthday.Time
		f.Birthday = &bd
	}
	if addressID.Valid {
		aid := uuid.UUID(addressID.Bytes)
		f.AddressID = &aid
	}

	return f, nil
}
