// Package draft implements the in-memory edit session for a Friend aggregate.
// A draft is a disposable, disconnected copy of a persisted record (or a
// blank one for "create new") that the UI mutates through the operations on
// Friend. Every editable item carries a Status tag recording the change
// intent, which the save engine in internal/service uses to route each item
// to a create, update, or delete call.
package draft

import (
	"fmt"

	"friendbook/internal/domain"
)

// Status marks the change intent of one editable item within a draft.
//
// Transitions:
//   - construction from a persisted record → Unchanged
//   - staging a new item → Inserted
//   - committing an edit on an Unchanged item → Modified
//   - committing an edit on an Inserted item → stays Inserted (an item that
//     was never persisted has nothing to "update"; the save engine decides
//     create-vs-update purely from this tag)
//   - deleting → Deleted, terminal for the session; the item stays in its
//     collection as a tombstone so the UI can still show it
type Status int

const (
	Unknown Status = iota
	Unchanged
	Inserted
	Modified
	Deleted
)

func (s Status) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Inserted:
		return "inserted"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// ParseStatus converts the wire form back to a Status. An empty string means
// the client sent no tag and maps to Unchanged; anything unrecognized is an
// error so a typo never silently drops a change.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "", "unchanged":
		return Unchanged, nil
	case "inserted":
		return Inserted, nil
	case "modified":
		return Modified, nil
	case "deleted":
		return Deleted, nil
	default:
		return Unknown, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, s)
	}
}
