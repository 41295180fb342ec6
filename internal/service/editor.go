package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"friendbook/internal/domain"
	"friendbook/internal/draft"
	"friendbook/internal/repo"
)

// EditorService is the save engine for friend edit sessions. It reconciles a
// user-edited draft against the backing store in one Save call, routing every
// draft item to a create, update, or delete by its status tag.
//
// Both legacy front-ends of the original application carried a near-identical
// copy of this logic; it lives here once and any number of presentation
// adapters call it.
type EditorService struct {
	friends   repo.FriendRepo
	pets      repo.PetRepo
	quotes    repo.QuoteRepo
	addresses repo.AddressRepo
}

// NewEditorService constructs an EditorService backed by the provided repos.
func NewEditorService(friends repo.FriendRepo, pets repo.PetRepo, quotes repo.QuoteRepo, addresses repo.AddressRepo) *EditorService {
	return &EditorService{friends: friends, pets: pets, quotes: quotes, addresses: addresses}
}

// Save persists every change recorded in the draft and returns the friend's
// identity. The steps run strictly in order, each depending on identities
// produced by the previous one:
//
//  1. validate required fields (before any store call)
//  2. create the parent when the aggregate is Inserted, so children have a
//     parent identity to reference
//  3. resolve the address: clear, bind to an existing identical row, create,
//     or update in place
//  4. reconcile pets:   delete → create → refresh → update
//  5. reconcile quotes: delete → create → refresh → update (creation links a
//     set of friend ids, since quotes are shared)
//  6. update the parent's scalar fields on the refreshed record
//
// There is no enclosing transaction: a failure aborts the remaining steps but
// leaves already-applied writes in place. The caller keeps the draft so the
// user can correct and retry.
//
// Duplicate conflicts from the store come back as *domain.DuplicateError;
// Save enriches them with the human-readable draft content before returning.
func (s *EditorService) Save(ctx context.Context, f *draft.Friend) (uuid.UUID, error) {
	if err := f.Validate(); err != nil {
		return uuid.Nil, err
	}

	if f.Status == draft.Inserted {
		created, err := s.friends.Create(ctx, domain.Friend{
			FirstName: f.FirstName,
			LastName:  f.LastName,
			Email:     f.Email,
			Birthday:  f.Birthday,
		})
		if err != nil {
			return uuid.Nil, fmt.Errorf("service.EditorService.Save: create friend: %w", err)
		}
		f.ID = created.ID
	}

	if err := s.resolveAddress(ctx, f); err != nil {
		return uuid.Nil, err
	}

	if err := s.savePets(ctx, f); err != nil {
		return uuid.Nil, err
	}

	current, err := s.saveQuotes(ctx, f)
	if err != nil {
		return uuid.Nil, err
	}

	record := f.Record(current)
	record.AddressID = f.AddressID
	if _, err := s.friends.Update(ctx, record); err != nil {
		return uuid.Nil, fmt.Errorf("service.EditorService.Save: update friend: %w", err)
	}

	return f.ID, nil
}

// resolveAddress binds the draft's address reference without ever creating a
// duplicate row for identical data.
//
// An absent or all-blank address clears the reference. Otherwise an indexed
// exact-match lookup runs first; a hit binds to the existing row. On a miss,
// a draft without an address identity creates a new row, and a draft with one
// updates that row in place (the user edited an address that no longer equals
// any other row). A lookup failure degrades to "no match" rather than
// aborting the save.
func (s *EditorService) resolveAddress(ctx context.Context, f *draft.Friend) error {
	if f.Address == nil || f.Address.Empty() {
		f.AddressID = nil
		return nil
	}

	zip, err := f.Address.ZipValue()
	if err != nil {
		return err
	}

	match, err := s.addresses.FindMatch(ctx, f.Address.Street, zip, f.Address.City, f.Address.Country)
	if err == nil {
		id := match.ID
		f.AddressID = &id
		f.Address.ID = &id
		return nil
	}
	// Any lookup failure, not just ErrNotFound, falls through to the
	// create/update paths; the unique index still guards against duplicates.

	if f.Address.ID == nil {
		created, err := s.addresses.Create(ctx, f.Address.Record(domain.Address{}))
		if err != nil {
			return fmt.Errorf("service.EditorService.Save: create address: %w",
				enrichDuplicate(err, f.Address.String()))
		}
		id := created.ID
		f.AddressID = &id
		f.Address.ID = &id
		return nil
	}

	existing, err := s.addresses.GetByID(ctx, *f.Address.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The referenced row vanished mid-session. Leave the reference
			// as hydrated; the parent update will carry it unchanged.
			return nil
		}
		return fmt.Errorf("service.EditorService.Save: read address: %w", err)
	}

	if _, err := s.addresses.Update(ctx, f.Address.Record(existing)); err != nil {
		return fmt.Errorf("service.EditorService.Save: update address: %w",
			enrichDuplicate(err, f.Address.String()))
	}
	f.AddressID = f.Address.ID
	return nil
}

// savePets reconciles the pet collection: deletes first, then creates with
// the now-resolved parent identity, then a refresh read, then updates.
//
// The refresh between the write phases is deliberate: created pets did not
// have store identities when the draft was composed, and deleted ones must
// not be targeted through a stale in-memory reference. Updates are applied
// onto the authoritative copies from the refresh, never onto draft state.
func (s *EditorService) savePets(ctx context.Context, f *draft.Friend) error {
	for _, p := range f.Pets {
		if p.Status != draft.Deleted {
			continue
		}
		if err := s.pets.Delete(ctx, p.ID); err != nil {
			return fmt.Errorf("service.EditorService.Save: delete pet: %w", err)
		}
	}

	for _, p := range f.Pets {
		if p.Status != draft.Inserted {
			continue
		}
		created, err := s.pets.Create(ctx, p.Record(domain.Pet{FriendID: f.ID}))
		if err != nil {
			return fmt.Errorf("service.EditorService.Save: create pet: %w", err)
		}
		p.ID = created.ID // temporary identity replaced by the store-assigned one
	}

	current, err := s.friends.GetByID(ctx, f.ID, true)
	if err != nil {
		return fmt.Errorf("service.EditorService.Save: refresh friend: %w", refreshErr(err, f.ID))
	}

	for _, p := range f.Pets {
		if p.Status != draft.Modified {
			continue
		}
		record, ok := petByID(current.Pets, p.ID)
		if !ok {
			return fmt.Errorf("service.EditorService.Save: %w", &domain.NotFoundError{Entity: "pet", ID: p.ID})
		}
		if _, err := s.pets.Update(ctx, p.Record(record)); err != nil {
			return fmt.Errorf("service.EditorService.Save: update pet: %w", err)
		}
	}

	return nil
}

// saveQuotes reconciles the quote collection with the same
// delete → create → refresh → update sequence as savePets, except that quote
// creation supplies the set of linked friend identities (a quote may be
// shared by several friends) and duplicate conflicts are enriched with the
// quote's text and author. The refreshed friend is returned for the final
// parent update.
func (s *EditorService) saveQuotes(ctx context.Context, f *draft.Friend) (domain.Friend, error) {
	for _, q := range f.Quotes {
		if q.Status != draft.Deleted {
			continue
		}
		if err := s.quotes.Delete(ctx, q.ID); err != nil {
			return domain.Friend{}, fmt.Errorf("service.EditorService.Save: delete quote: %w", err)
		}
	}

	for _, q := range f.Quotes {
		if q.Status != draft.Inserted {
			continue
		}
		created, err := s.quotes.Create(ctx, q.Record(domain.Quote{}), []uuid.UUID{f.ID})
		if err != nil {
			return domain.Friend{}, fmt.Errorf("service.EditorService.Save: create quote: %w",
				enrichDuplicate(err, quoteDetail(q)))
		}
		q.ID = created.ID
	}

	current, err := s.friends.GetByID(ctx, f.ID, true)
	if err != nil {
		return domain.Friend{}, fmt.Errorf("service.EditorService.Save: refresh friend: %w", refreshErr(err, f.ID))
	}

	for _, q := range f.Quotes {
		if q.Status != draft.Modified {
			continue
		}
		record, ok := quoteByID(current.Quotes, q.ID)
		if !ok {
			return domain.Friend{}, fmt.Errorf("service.EditorService.Save: %w", &domain.NotFoundError{Entity: "quote", ID: q.ID})
		}
		if _, err := s.quotes.Update(ctx, q.Record(record)); err != nil {
			return domain.Friend{}, fmt.Errorf("service.EditorService.Save: update quote: %w",
				enrichDuplicate(err, quoteDetail(q)))
		}
	}

	return current, nil
}

// refreshErr upgrades a missing-parent failure on the refresh read to a typed
// NotFoundError naming the friend. Other errors pass through.
func refreshErr(err error, friendID uuid.UUID) error {
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.NotFoundError{Entity: "friend", ID: friendID}
	}
	return err
}

// enrichDuplicate attaches the human-readable conflicting content to a
// DuplicateError coming up from the store. Other errors pass through.
func enrichDuplicate(err error, detail string) error {
	var dup *domain.DuplicateError
	if errors.As(err, &dup) {
		dup.Detail = detail
	}
	return err
}

// quoteDetail renders a quote the way duplicate-conflict messages show it.
func quoteDetail(q *draft.Quote) string {
	return fmt.Sprintf("%q by %s", q.Text, q.Author)
}

func petByID(pets []domain.Pet, id uuid.UUID) (domain.Pet, bool) {
	for _, p := range pets {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Pet{}, false
}

func quoteByID(quotes []domain.Quote, id uuid.UUID) (domain.Quote, bool) {
	for _, q := range quotes {
		if q.ID == id {
			return q, true
		}
	}
	return domain.Quote{}, false
}
