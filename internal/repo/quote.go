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

// QuoteRepo defines the persistence operations for Quotes and the
// friend_quotes join table. Quotes are shared: creation links the new row to
// a set of friends rather than a single parent.
type QuoteRepo interface {
	// Create inserts a new quote and links it to every friend in friendIDs.
	// Returns a domain.DuplicateError when a quote with the same text and
	// author already exists.
	Create(ctx context.Context, quote domain.Quote, friendIDs []uuid.UUID) (domain.Quote, error)

	// Update overwrites the mutable fields of a quote.
	// Returns domain.ErrNotFound if no quote with that ID exists, or a
	// domain.DuplicateError when the new text+author collides with another row.
	Update(ctx context.Context, quote domain.Quote) (domain.Quote, error)

	// Delete removes a quote by ID along with its friend links.
	// Returns domain.ErrNotFound if no quote with that ID exists.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByFriend returns all quotes linked to a friend, ordered by author then text.
	ListByFriend(ctx context.Context, friendID uuid.UUID) ([]domain.Quote, error)
}

// pgQuoteRepo is the Postgres implementation of QuoteRepo.
type pgQuoteRepo struct {
	db db
}

// NewQuoteRepo constructs a QuoteRepo backed by the provided db connection.
func NewQuoteRepo(db db) QuoteRepo {
	return &pgQuoteRepo{db: db}
}

// Create inserts a quote row, then one join row per friend.
// The unique index on (text, author) raises the duplicate signal.
func (r *pgQuoteRepo) Create(ctx context.Context, quote domain.Quote, friendIDs []uuid.UUID) (domain.Quote, error) {
	const q = `
		INSERT INTO quotes (text, author)
		VALUES (@text, @author)
		RETURNING id, text, author, created_at, updated_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"text": quote.Text, "author": quote.Author})
	result, err := scanQuote(row)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("repo.QuoteRepo.Create: %w", mapWriteErr(err, "quote"))
	}

	const link = `
		INSERT INTO friend_quotes (friend_id, quote_id)
		VALUES (@friend_id, @quote_id)
		ON CONFLICT (friend_id, quote_id) DO NOTHING`

	for _, fid := range friendIDs {
		args := pgx.NamedArgs{"friend_id": fid, "quote_id": result.ID}
		if _, err := r.db.Exec(ctx, link, args); err != nil {
			return domain.Quote{}, fmt.Errorf("repo.QuoteRepo.Create: link friend %s: %w", fid, err)
		}
	}

	return result, nil
}

// Update overwrites a quote's text and author.
func (r *pgQuoteRepo) Update(ctx context.Context, quote domain.Quote) (domain.Quote, error) {
	const q = `
		UPDATE quotes
		SET text       = @text,
		    author     = @author,
		    updated_at = now()
		WHERE id = @id
		RETURNING id, text, author, created_at, updated_at`

	args := pgx.NamedArgs{
		"id":     quote.ID,
		"text":   quote.Text,
		"author": quote.Author,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanQuote(row)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("repo.QuoteRepo.Update: %w", mapWriteErr(err, "quote"))
	}
	return result, nil
}

// Delete removes a quote and its join rows (cascade on friend_quotes).
func (r *pgQuoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM quotes WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.QuoteRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.QuoteRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// ListByFriend returns all quotes linked to a friend.
func (r *pgQuoteRepo) ListByFriend(ctx context.Context, friendID uuid.UUID) ([]domain.Quote, error) {
	quotes, err := listQuotesByFriend(ctx, r.db, friendID)
	if err != nil {
		return nil, fmt.Errorf("repo.QuoteRepo.ListByFriend: %w", err)
	}
	return quotes, nil
}

// listQuotesByFriend is shared with FriendRepo's child loading.
func listQuotesByFriend(ctx context.Context, db db, friendID uuid.UUID) ([]domain.Quote, error) {
	const q = `
		SELECT q.id, q.text, q.author, q.created_at, q.updated_at
		FROM quotes q
		JOIN friend_quotes fq ON fq.quote_id = q.id
		WHERE fq.friend_id = @friend_id
		ORDER BY q.author, q.text`

	rows, err := db.Query(ctx, q, pgx.NamedArgs{"friend_id": friendID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotes := []domain.Quote{}
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		quotes = append(quotes, quote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return quotes, nil
}

// scanQuote maps a single database row into a domain.Quote.
func scanQuote(s scanner) (domain.Quote, error) {
	var (
		q  domain.Quote
		id pgtype.UUID
	)
	err := s.Scan(&id, &q.Text, &q.Author, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Quote{}, domain.ErrNotFound
		}
		return domain.Quote{}, err
	}
	q.ID = uuid.UUID(id.Bytes)
	return q, nil
}
