package draft

import (
	"github.com/google/uuid"

	"friendbook/internal/domain"
)

// Quote is the editable copy of one quote within a draft.
// EditText/EditAuthor buffer an in-progress row edit until committed,
// mirroring the pending-edit pattern on Pet.
type Quote struct {
	ID     uuid.UUID
	Status Status

	Text   string
	Author string

	EditText   string
	EditAuthor string
}

// quoteFromRecord builds an Unchanged draft quote from a persisted record.
func quoteFromRecord(rec domain.Quote) *Quote {
	return &Quote{
		ID:         rec.ID,
		Status:     Unchanged,
		Text:       rec.Text,
		Author:     rec.Author,
		EditText:   rec.Text,
		EditAuthor: rec.Author,
	}
}

// Record applies the draft's display fields onto an authoritative persisted record.
func (q *Quote) Record(rec domain.Quote) domain.Quote {
	rec.Text = q.Text
	rec.Author = q.Author
	return rec
}
