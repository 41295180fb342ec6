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

// PetRepo defines the persistence operations for Pets.
// A pet belongs to exactly one friend, carried in Pet.FriendID.
type PetRepo interface {
	// Create inserts a new pet attached to pet.FriendID and returns the
	// persisted record with its store-assigned identity.
	Create(ctx context.Context, pet domain.Pet) (domain.Pet, error)

	// Update overwrites the mutable fields of a pet.
	// Returns domain.ErrNotFound if no pet with that ID exists.
	Update(ctx context.Context, pet domain.Pet) (domain.Pet, error)

	// Delete removes a pet by ID.
	// Returns domain.ErrNotFound if no pet with that ID exists.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByFriend returns all pets owned by a friend, ordered by creation time.
	ListByFriend(ctx context.Context, friendID uuid.UUID) ([]domain.Pet, error)
}

// pgPetRepo is the Postgres implementation of PetRepo.
type pgPetRepo struct {
	db db
}

// NewPetRepo constructs a PetRepo backed by the provided db connection.
func NewPetRepo(db db) PetRepo {
	return &pgPetRepo{db: db}
}

// Create inserts a new pet row and returns the full persisted record.
func (r *pgPetRepo) Create(ctx context.Context, pet domain.Pet) (domain.Pet, error) {
	const q = `
		INSERT INTO pets (friend_id, name, kind, mood)
		VALUES (@friend_id, @name, @kind, @mood)
		RETURNING id, friend_id, name, kind, mood, created_at, updated_at`

	args := pgx.NamedArgs{
		"friend_id": pet.FriendID,
		"name":      pet.Name,
		"kind":      string(pet.Kind),
		"mood":      string(pet.Mood),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanPet(row)
	if err != nil {
		return domain.Pet{}, fmt.Errorf("repo.PetRepo.Create: %w", err)
	}
	return result, nil
}

// Update overwrites a pet's mutable fields.
func (r *pgPetRepo) Update(ctx context.Context, pet domain.Pet) (domain.Pet, error) {
	const q = `
		UPDATE pets
		SET name       = @name,
		    kind       = @kind,
		    mood       = @mood,
		    updated_at = now()
		WHERE id = @id
		RETURNING id, friend_id, name, kind, mood, created_at, updated_at`

	args := pgx.NamedArgs{
		"id":   pet.ID,
		"name": pet.Name,
		"kind": string(pet.Kind),
		"mood": string(pet.Mood),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanPet(row)
	if err != nil {
		return domain.Pet{}, fmt.Errorf("repo.PetRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a pet by primary key.
func (r *pgPetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM pets WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.PetRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PetRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// ListByFriend returns all pets owned by a friend, oldest first.
func (r *pgPetRepo) ListByFriend(ctx context.Context, friendID uuid.UUID) ([]domain.Pet, error) {
	pets, err := listPetsByFriend(ctx, r.db, friendID)
	if err != nil {
		return nil, fmt.Errorf("repo.PetRepo.ListByFriend: %w", err)
	}
	return pets, nil
}

// listPetsByFriend is shared with FriendRepo's child loading.
func listPetsByFriend(ctx context.Context, db db, friendID uuid.UUID) ([]domain.Pet, error) {
	const q = `
		SELECT id, friend_id, name, kind, mood, created_at, updated_at
		FROM pets
		WHERE friend_id = @friend_id
		ORDER BY seq`

	rows, err := db.Query(ctx, q, pgx.NamedArgs{"friend_id": friendID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pets := []domain.Pet{}
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		pets = append(pets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return pets, nil
}

// scanPet maps a single database row into a domain.Pet.
func scanPet(s scanner) (domain.Pet, error) {
	var (
		p        domain.Pet
		id       pgtype.UUID
		friendID pgtype.UUID
		kind     string
		mood     string
	)

	err := s.Scan(&id, &friendID, &p.Name, &kind, &mood, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Pet{}, domain.ErrNotFound
		}
		return domain.Pet{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	p.FriendID = uuid.UUID(friendID.Bytes)
	p.Kind = domain.AnimalKind(kind)
	p.Mood = domain.AnimalMood(mood)

	return p, nil
}
