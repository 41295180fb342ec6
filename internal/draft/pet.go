package draft

import (
	"github.com/google/uuid"

	"friendbook/internal/domain"
)

// Pet is the editable copy of one pet within a draft.
//
// The Edit* fields are a parallel buffer the UI writes into while a row is
// being edited; they do not leak into the display fields (Name, Kind, Mood)
// until the edit is committed via Friend.CommitPet. For a freshly hydrated
// item both sets hold the same values.
type Pet struct {
	ID     uuid.UUID
	Status Status

	Name string
	Kind domain.AnimalKind
	Mood domain.AnimalMood

	EditName string
	EditKind domain.AnimalKind
	EditMood domain.AnimalMood
}

// petFromRecord builds an Unchanged draft pet from a persisted record,
// seeding the pending-edit buffer with the current display values.
func petFromRecord(rec domain.Pet) *Pet {
	return &Pet{
		ID:       rec.ID,
		Status:   Unchanged,
		Name:     rec.Name,
		Kind:     rec.Kind,
		Mood:     rec.Mood,
		EditName: rec.Name,
		EditKind: rec.Kind,
		EditMood: rec.Mood,
	}
}

// Record applies the draft's display fields onto an authoritative persisted
// record, preserving every field the draft does not own (friend id,
// timestamps).
func (p *Pet) Record(rec domain.Pet) domain.Pet {
	rec.Name = p.Name
	rec.Kind = p.Kind
	rec.Mood = p.Mood
	return rec
}
