package draft

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"friendbook/internal/domain"
)

// Friend is the draft aggregate for one edit session: the friend's scalar
// fields, one draft address, the ordered pet and quote collections, and one
// staging slot per collection for an item being composed before insertion.
//
// A draft is single-session state. It is never shared between concurrent
// edit sessions and is discarded when the session ends — on successful save,
// on cancel, or on undo (rehydrate via FromRecord).
type Friend struct {
	ID     uuid.UUID
	Status Status

	FirstName string
	LastName  string
	Email     string
	Birthday  *time.Time

	AddressID *uuid.UUID
	Address   *Address

	Pets   []*Pet
	Quotes []*Quote

	// NewPet and NewQuote are the staging slots. The UI fills one in and
	// calls StagePet/StageQuote to append it to the collection; the slot is
	// then reset for the next item.
	NewPet   Pet
	NewQuote Quote
}

// New returns a blank draft for creating a friend. The aggregate is tagged
// Inserted so the save engine knows to create the parent record first.
func New() *Friend {
	return &Friend{
		Status:  Inserted,
		Address: &Address{Status: Unchanged},
		Pets:    []*Pet{},
		Quotes:  []*Quote{},
	}
}

// FromRecord hydrates a draft from a persisted friend for editing.
// Everything starts Unchanged, including every child item.
func FromRecord(rec domain.Friend) *Friend {
	f := &Friend{
		ID:        rec.ID,
		Status:    Unchanged,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Email:     rec.Email,
		Birthday:  rec.Birthday,
		AddressID: rec.AddressID,
		Pets:      make([]*Pet, 0, len(rec.Pets)),
		Quotes:    make([]*Quote, 0, len(rec.Quotes)),
	}
	if rec.Address != nil {
		f.Address = addressFromRecord(*rec.Address)
	} else {
		f.Address = &Address{Status: Unchanged}
	}
	for _, p := range rec.Pets {
		f.Pets = append(f.Pets, petFromRecord(p))
	}
	for _, q := range rec.Quotes {
		f.Quotes = append(f.Quotes, quoteFromRecord(q))
	}
	return f
}

// StagePet appends the NewPet staging slot to the pet collection.
// The staged item is tagged Inserted and given a session-local temporary
// identity, replaced by the store-assigned one at save time. The slot is
// reset afterwards. Collection order is append-only.
func (f *Friend) StagePet() error {
	if strings.TrimSpace(f.NewPet.Name) == "" {
		return fmt.Errorf("%w: pet name is required", domain.ErrValidation)
	}

	staged := f.NewPet
	staged.Status = Inserted
	staged.ID = uuid.New()
	staged.EditName = staged.Name
	staged.EditKind = staged.Kind
	staged.EditMood = staged.Mood
	f.Pets = append(f.Pets, &staged)

	f.NewPet = Pet{}
	return nil
}

// StageQuote appends the NewQuote staging slot to the quote collection.
// Both text and author are required.
func (f *Friend) StageQuote() error {
	if strings.TrimSpace(f.NewQuote.Text) == "" ||
		strings.TrimSpace(f.NewQuote.Author) == "" {
		return fmt.Errorf("%w: quote text and author are required", domain.ErrValidation)
	}

	staged := f.NewQuote
	staged.Status = Inserted
	staged.ID = uuid.New()
	staged.EditText = staged.Text
	staged.EditAuthor = staged.Author
	f.Quotes = append(f.Quotes, &staged)

	f.NewQuote = Quote{}
	return nil
}

// PetByID returns the draft pet with the given identity, or nil.
func (f *Friend) PetByID(id uuid.UUID) *Pet {
	for _, p := range f.Pets {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// QuoteByID returns the draft quote with the given identity, or nil.
func (f *Friend) QuoteByID(id uuid.UUID) *Quote {
	for _, q := range f.Quotes {
		if q.ID == id {
			return q
		}
	}
	return nil
}

// CommitPet copies the pet's pending-edit buffer into its display fields.
// An Unchanged item becomes Modified; an Inserted item stays Inserted.
func (f *Friend) CommitPet(id uuid.UUID) error {
	p := f.PetByID(id)
	if p == nil {
		return fmt.Errorf("%w: pet %s not in draft", domain.ErrNotFound, id)
	}
	if strings.TrimSpace(p.EditName) == "" {
		return fmt.Errorf("%w: pet name is required", domain.ErrValidation)
	}

	if p.Status != Inserted {
		p.Status = Modified
	}
	p.Name = p.EditName
	p.Kind = p.EditKind
	p.Mood = p.EditMood
	return nil
}

// CommitQuote copies the quote's pending-edit buffer into its display fields.
func (f *Friend) CommitQuote(id uuid.UUID) error {
	q := f.QuoteByID(id)
	if q == nil {
		return fmt.Errorf("%w: quote %s not in draft", domain.ErrNotFound, id)
	}
	if strings.TrimSpace(q.EditText) == "" || strings.TrimSpace(q.EditAuthor) == "" {
		return fmt.Errorf("%w: quote text and author are required", domain.ErrValidation)
	}

	if q.Status != Inserted {
		q.Status = Modified
	}
	q.Text = q.EditText
	q.Author = q.EditAuthor
	return nil
}

// DeletePet tags a pet Deleted. Unknown identities are silently ignored —
// the delete contract is lenient so a double-click on a remove button never
// surfaces an error. The item stays in the collection as a tombstone.
func (f *Friend) DeletePet(id uuid.UUID) {
	if p := f.PetByID(id); p != nil {
		p.Status = Deleted
	}
}

// DeleteQuote tags a quote Deleted. Lenient like DeletePet.
func (f *Friend) DeleteQuote(id uuid.UUID) {
	if q := f.QuoteByID(id); q != nil {
		q.Status = Deleted
	}
}

// Validate checks every required field before any store call: first/last
// name, a parseable email, a well-formed zip code when the address is
// present, and the required fields of every child headed for a write (a pet
// name; quote text and author). Unchanged and Deleted children are exempt —
// the engine never writes their content. Returns a domain.ErrValidation wrap
// on the first violation.
//
// The staging and commit mutations enforce the child rules as the user types,
// but a draft can also arrive fully formed (the save endpoint decodes one
// from a request body), so Validate re-checks them at the save boundary.
func (f *Friend) Validate() error {
	if strings.TrimSpace(f.FirstName) == "" {
		return fmt.Errorf("%w: first name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(f.LastName) == "" {
		return fmt.Errorf("%w: last name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(f.Email) == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(f.Email); err != nil {
		return fmt.Errorf("%w: email %q is not valid", domain.ErrValidation, f.Email)
	}
	if f.Address != nil && !f.Address.Empty() {
		if _, err := f.Address.ZipValue(); err != nil {
			return err
		}
	}
	for i, p := range f.Pets {
		if p.Status != Inserted && p.Status != Modified {
			continue
		}
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: pets[%d]: pet name is required", domain.ErrValidation, i)
		}
	}
	for i, q := range f.Quotes {
		if q.Status != Inserted && q.Status != Modified {
			continue
		}
		if strings.TrimSpace(q.Text) == "" || strings.TrimSpace(q.Author) == "" {
			return fmt.Errorf("%w: quotes[%d]: quote text and author are required", domain.ErrValidation, i)
		}
	}
	return nil
}

// Record applies the draft's scalar fields onto an authoritative persisted
// record, leaving children and address reference to the save engine.
func (f *Friend) Record(rec domain.Friend) domain.Friend {
	rec.FirstName = f.FirstName
	rec.LastName = f.LastName
	rec.Email = f.Email
	rec.Birthday = f.Birthday
	return rec
}
