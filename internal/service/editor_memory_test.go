package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friendbook/internal/domain"
	"friendbook/internal/draft"
	"friendbook/internal/repo/memory"
	"friendbook/internal/service"
)

// These tests run the save engine against the in-memory store to exercise the
// full multi-step reconciliation, including the parts the mock tests cannot
// see: store-assigned identities feeding later steps, the refresh reads, and
// the store-level duplicate rules.

func newMemoryEditor(t *testing.T) (*service.EditorService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := service.NewEditorService(store.Friends(), store.Pets(), store.Quotes(), store.Addresses())
	return svc, store
}

func TestEditorSave_MemoryFullLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, store := newMemoryEditor(t)

	// First session: create a friend with an address, a pet, and a quote.
	f := draft.New()
	f.FirstName = "Astrid"
	f.LastName = "Berg"
	f.Email = "astrid.berg@example.com"
	f.Address = &draft.Address{Street: "Storgatan 1", ZipCode: "11122", City: "Stockholm", Country: "Sweden"}
	f.NewPet = draft.Pet{Name: "Rex", Kind: domain.KindDog, Mood: domain.MoodHappy}
	require.NoError(t, f.StagePet())
	f.NewQuote = draft.Quote{Text: "Carpe diem", Author: "Horace"}
	require.NoError(t, f.StageQuote())

	id, err := svc.Save(ctx, f)
	require.NoError(t, err)

	saved, err := store.Friends().GetByID(ctx, id, true)
	require.NoError(t, err)
	assert.Equal(t, "Astrid", saved.FirstName)
	require.NotNil(t, saved.Address)
	assert.Equal(t, 11122, saved.Address.ZipCode)
	require.Len(t, saved.Pets, 1)
	assert.Equal(t, "Rex", saved.Pets[0].Name)
	assert.Equal(t, id, saved.Pets[0].FriendID)
	require.Len(t, saved.Quotes, 1)
	assert.Equal(t, "Carpe diem", saved.Quotes[0].Text)

	// Second session: rehydrate, rename the pet, delete the quote, stage a
	// second pet.
	g := draft.FromRecord(saved)
	g.Pets[0].EditName = "Rexie"
	require.NoError(t, g.CommitPet(g.Pets[0].ID))
	g.DeleteQuote(g.Quotes[0].ID)
	g.NewPet = draft.Pet{Name: "Misty", Kind: domain.KindCat, Mood: domain.MoodLazy}
	require.NoError(t, g.StagePet())

	id2, err := svc.Save(ctx, g)
	require.NoError(t, err)
	assert.Equal(t, id, id2, "re-saving never changes the aggregate identity")

	final, err := store.Friends().GetByID(ctx, id, true)
	require.NoError(t, err)
	require.Len(t, final.Pets, 2)
	assert.Equal(t, "Rexie", final.Pets[0].Name)
	assert.Equal(t, "Misty", final.Pets[1].Name)
	assert.Empty(t, final.Quotes)
}

func TestEditorSave_MemoryAddressDedupIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, store := newMemoryEditor(t)

	makeDraft := func(first, email string) *draft.Friend {
		f := draft.New()
		f.FirstName = first
		f.LastName = "Berg"
		f.Email = email
		f.Address = &draft.Address{Street: "Storgatan 1", ZipCode: "11122", City: "Stockholm", Country: "Sweden"}
		return f
	}

	a := makeDraft("Astrid", "astrid@example.com")
	_, err := svc.Save(ctx, a)
	require.NoError(t, err)

	// A second friend entering the identical address binds to the same row.
	b := makeDraft("Bodil", "bodil@example.com")
	_, err = svc.Save(ctx, b)
	require.NoError(t, err)

	require.NotNil(t, a.AddressID)
	require.NotNil(t, b.AddressID)
	assert.Equal(t, *a.AddressID, *b.AddressID, "identical addresses share one row")

	// Re-saving the first friend unchanged is a no-op for the address table.
	_, err = svc.Save(ctx, a)
	require.NoError(t, err)

	_, total, err := store.Addresses().ListPaged(ctx, domain.PaginationParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "no duplicate address rows after three saves")
}

func TestEditorSave_MemoryEditedAddressDetaches(t *testing.T) {
	ctx := context.Background()
	svc, store := newMemoryEditor(t)

	f := draft.New()
	f.FirstName = "Astrid"
	f.LastName = "Berg"
	f.Email = "astrid@example.com"
	f.Address = &draft.Address{Street: "Storgatan 1", ZipCode: "11122", City: "Stockholm", Country: "Sweden"}
	_, err := svc.Save(ctx, f)
	require.NoError(t, err)
	firstID := *f.AddressID

	// Editing the street to a value no other row holds updates the row in
	// place rather than growing the table.
	g := draft.FromRecord(mustGet(t, store, f.ID))
	g.Address.Street = "Lillgatan 2"
	_, err = svc.Save(ctx, g)
	require.NoError(t, err)

	require.NotNil(t, g.AddressID)
	assert.Equal(t, firstID, *g.AddressID)

	updated, err := store.Addresses().GetByID(ctx, firstID)
	require.NoError(t, err)
	assert.Equal(t, "Lillgatan 2", updated.Street)

	_, total, err := store.Addresses().ListPaged(ctx, domain.PaginationParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestEditorSave_MemoryDuplicateQuoteConflict(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemoryEditor(t)

	a := draft.New()
	a.FirstName = "Astrid"
	a.LastName = "Berg"
	a.Email = "astrid@example.com"
	a.NewQuote = draft.Quote{Text: "Carpe diem", Author: "Horace"}
	require.NoError(t, a.StageQuote())
	_, err := svc.Save(ctx, a)
	require.NoError(t, err)

	// A second friend staging the same text+author hits the uniqueness rule.
	b := draft.New()
	b.FirstName = "Bodil"
	b.LastName = "Berg"
	b.Email = "bodil@example.com"
	b.NewQuote = draft.Quote{Text: "Carpe diem", Author: "Horace"}
	require.NoError(t, b.StageQuote())

	_, err = svc.Save(ctx, b)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Contains(t, err.Error(), "Carpe diem")
	assert.Contains(t, err.Error(), "Horace")
}

func mustGet(t *testing.T, store *memory.Store, id uuid.UUID) domain.Friend {
	t.Helper()
	f, err := store.Friends().GetByID(context.Background(), id, true)
	require.NoError(t, err)
	return f
}

func TestEditorSave_MemoryBlankChildPersistsNothing(t *testing.T) {
	ctx := context.Background()
	svc, store := newMemoryEditor(t)

	f := draft.New()
	f.FirstName = "Astrid"
	f.LastName = "Berg"
	f.Email = "astrid.berg@example.com"
	f.Pets = append(f.Pets, &draft.Pet{ID: uuid.New(), Status: draft.Inserted})
	f.Quotes = append(f.Quotes, &draft.Quote{ID: uuid.New(), Status: draft.Inserted})

	_, err := svc.Save(ctx, f)
	require.ErrorIs(t, err, domain.ErrValidation)

	// Validation runs before the parent create, so the whole aggregate is
	// absent, not just the blank children.
	_, total, err := store.Friends().ListPaged(ctx, domain.PaginationParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}
