package domain

import (
	"time"

	"github.com/google/uuid"
)

// Quote represents a saying attributed to an author. Quotes are shared —
// the same quote may be linked to any number of friends through the
// friend_quotes join table. Identity for duplicate detection is the
// (text, author) pair, enforced by a unique index.
type Quote struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
