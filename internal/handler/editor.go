package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"friendbook/internal/domain"
	"friendbook/internal/draft"
)

// DraftDocument is the wire form of a whole edit session: the friend's
// scalar fields plus every child item, each carrying its status tag. The
// client composes it locally and submits it in one POST; the save engine
// applies all recorded changes in order.
type DraftDocument struct {
	Id        *uuid.UUID          `json:"id,omitempty"`
	Status    string              `json:"status"`
	FirstName string              `json:"first_name"`
	LastName  string              `json:"last_name"`
	Email     openapi_types.Email `json:"email"`
	Birthday  *openapi_types.Date `json:"birthday,omitempty"`
	Address   *DraftAddress       `json:"address,omitempty"`
	Pets      []DraftPet          `json:"pets"`
	Quotes    []DraftQuote        `json:"quotes"`
}

// DraftAddress carries the address fields in their textual form; the zip code
// is validated and converted at save time.
type DraftAddress struct {
	Id      *uuid.UUID `json:"id,omitempty"`
	Street  string     `json:"street"`
	ZipCode string     `json:"zip_code"`
	City    string     `json:"city"`
	Country string     `json:"country"`
}

// DraftPet is one pet row of the draft document. Id may be absent for a row
// tagged "inserted"; every other status requires it.
type DraftPet struct {
	Id     *uuid.UUID `json:"id,omitempty"`
	Status string     `json:"status"`
	Name   string     `json:"name"`
	Kind   string     `json:"kind"`
	Mood   string     `json:"mood"`
}

// DraftQuote is one quote row of the draft document.
type DraftQuote struct {
	Id     *uuid.UUID `json:"id,omitempty"`
	Status string     `json:"status"`
	Text   string     `json:"text"`
	Author string     `json:"author"`
}

// SaveFriend handles POST /friends/save.
// The body is a full DraftDocument. On success the persisted aggregate is
// returned: 201 when the draft created the friend, 200 otherwise.
func (s *Server) SaveFriend(w http.ResponseWriter, r *http.Request) {
	var doc DraftDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		badRequest(w, "invalid json")
		return
	}

	f, err := documentToDraft(doc)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	created := f.Status == draft.Inserted

	id, err := s.editor.Save(r.Context(), f)
	if err != nil {
		var dup *domain.DuplicateError
		switch {
		case errors.Is(err, domain.ErrValidation):
			validationFailed(w, err)
		case errors.As(err, &dup):
			conflict(w, dup)
		case errors.Is(err, domain.ErrNotFound):
			notFound(w, notFoundMessage(err))
		default:
			internalError(w)
		}
		return
	}

	saved, err := s.friends.GetByID(r.Context(), id)
	if err != nil {
		internalError(w)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, friendToResponse(saved))
}

// --- mapping helpers --------------------------------------------------------

// documentToDraft rebuilds the draft aggregate from its wire form. Rows
// tagged "inserted" without an identity get a session-local temporary one,
// the same as items staged through the draft API.
func documentToDraft(doc DraftDocument) (*draft.Friend, error) {
	status, err := draft.ParseStatus(doc.Status)
	if err != nil {
		return nil, err
	}

	f := &draft.Friend{
		Status:    status,
		FirstName: doc.FirstName,
		LastName:  doc.LastName,
		Email:     string(doc.Email),
		Address:   &draft.Address{Status: draft.Unchanged},
		Pets:      make([]*draft.Pet, 0, len(doc.Pets)),
		Quotes:    make([]*draft.Quote, 0, len(doc.Quotes)),
	}
	if doc.Id != nil {
		f.ID = *doc.Id
	}
	if f.Status != draft.Inserted && f.ID == uuid.Nil {
		return nil, errors.New("id is required unless status is inserted")
	}
	if doc.Birthday != nil {
		bd := doc.Birthday.Time
		f.Birthday = &bd
	}
	if doc.Address != nil {
		f.Address = &draft.Address{
			ID:      doc.Address.Id,
			Status:  draft.Unchanged,
			Street:  doc.Address.Street,
			ZipCode: doc.Address.ZipCode,
			City:    doc.Address.City,
			Country: doc.Address.Country,
		}
		f.AddressID = doc.Address.Id
	}

	for i, p := range doc.Pets {
		dp, err := documentToPet(p)
		if err != nil {
			return nil, fmt.Errorf("pets[%d]: %w", i, err)
		}
		f.Pets = append(f.Pets, dp)
	}
	for i, q := range doc.Quotes {
		dq, err := documentToQuote(q)
		if err != nil {
			return nil, fmt.Errorf("quotes[%d]: %w", i, err)
		}
		f.Quotes = append(f.Quotes, dq)
	}
	return f, nil
}

func documentToPet(p DraftPet) (*draft.Pet, error) {
	status, err := draft.ParseStatus(p.Status)
	if err != nil {
		return nil, err
	}
	kind, err := parseKind(p.Kind)
	if err != nil {
		return nil, err
	}
	mood, err := parseMood(p.Mood)
	if err != nil {
		return nil, err
	}

	dp := &draft.Pet{
		Status:   status,
		Name:     p.Name,
		Kind:     kind,
		Mood:     mood,
		EditName: p.Name,
		EditKind: kind,
		EditMood: mood,
	}
	if p.Id != nil {
		dp.ID = *p.Id
	}
	if dp.ID == uuid.Nil {
		if status != draft.Inserted {
			return nil, errors.New("id is required unless status is inserted")
		}
		dp.ID = uuid.New()
	}
	return dp, nil
}

func documentToQuote(q DraftQuote) (*draft.Quote, error) {
	status, err := draft.ParseStatus(q.Status)
	if err != nil {
		return nil, err
	}

	dq := &draft.Quote{
		Status:     status,
		Text:       q.Text,
		Author:     q.Author,
		EditText:   q.Text,
		EditAuthor: q.Author,
	}
	if q.Id != nil {
		dq.ID = *q.Id
	}
	if dq.ID == uuid.Nil {
		if status != draft.Inserted {
			return nil, errors.New("id is required unless status is inserted")
		}
		dq.ID = uuid.New()
	}
	return dq, nil
}

// parseKind validates the wire form of an animal kind. Empty is allowed so a
// row can be deleted without re-sending its fields.
func parseKind(s string) (domain.AnimalKind, error) {
	if s == "" {
		return "", nil
	}
	for _, k := range domain.AnimalKinds() {
		if s == string(k) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown animal kind %q", s)
}

// parseMood validates the wire form of an animal mood.
func parseMood(s string) (domain.AnimalMood, error) {
	if s == "" {
		return "", nil
	}
	for _, m := range domain.AnimalMoods() {
		if s == string(m) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown animal mood %q", s)
}
