package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friendbook/internal/domain"
	"friendbook/internal/repo"
)

// newQuoteFixtures creates two parent friends so sharing can be exercised.
func newQuoteFixtures(t *testing.T) (repo.QuoteRepo, uuid.UUID, uuid.UUID) {
	t.Helper()
	tx := newTestTx(t)
	friends := repo.NewFriendRepo(tx)
	ctx := context.Background()

	a, err := friends.Create(ctx, friendFixture())
	require.NoError(t, err)

	other := friendFixture()
	other.FirstName = "Bodil"
	other.Email = "bodil.berg@example.com"
	b, err := friends.Create(ctx, other)
	require.NoError(t, err)

	return repo.NewQuoteRepo(tx), a.ID, b.ID
}

func TestQuoteRepo_Create_LinksAllFriends(t *testing.T) {
	quotes, friendA, friendB := newQuoteFixtures(t)
	ctx := context.Background()

	got, err := quotes.Create(ctx, domain.Quote{Text: "Carpe diem", Author: "Horace"},
		[]uuid.UUID{friendA, friendB})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)

	for _, fid := range []uuid.UUID{friendA, friendB} {
		linked, err := quotes.ListByFriend(ctx, fid)
		require.NoError(t, err)
		require.Len(t, linked, 1)
		assert.Equal(t, got.ID, linked[0].ID)
	}
}

func TestQuoteRepo_Create_Duplicate(t *testing.T) {
	quotes, friendA, friendB := newQuoteFixtures(t)
	ctx := context.Background()

	_, err := quotes.Create(ctx, domain.Quote{Text: "Carpe diem", Author: "Horace"},
		[]uuid.UUID{friendA})
	require.NoError(t, err)

	// The same text by the same author is one quote, even for another friend.
	_, err = quotes.Create(ctx, domain.Quote{Text: "Carpe diem", Author: "Horace"},
		[]uuid.UUID{friendB})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	var dup *domain.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "quote", dup.Entity)
}

func TestQuoteRepo_Create_SameTextDifferentAuthor(t *testing.T) {
	quotes, friendA, _ := newQuoteFixtures(t)
	ctx := context.Background()

	_, err := quotes.Create(ctx, domain.Quote{Text: "Carpe diem", Author: "Horace"},
		[]uuid.UUID{friendA})
	require.NoError(t, err)

	_, err = quotes.Create(ctx, domain.Quote{Text: "Carpe diem", Author: "Robin"},
		[]uuid.UUID{friendA})

	assert.NoError(t, err, "identity is the text AND author pair")
}

func TestQuoteRepo_Update(t *testing.T) {
	quotes, friendA, _ := newQuoteFixtures(t)
	ctx := context.Background()

	created, err := quotes.Create(ctx, domain.Quote{Text: "Carpe diem", Author: "Horace"},
		[]uuid.UUID{friendA})
	require.NoError(t, err)

	created.Text = "Seize the day"
	updated, err := quotes.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Seize the day", updated.Text)
}

func TestQuoteRepo_Update_NotFound(t *testing.T) {
	quotes, _, _ := newQuoteFixtures(t)

	_, err := quotes.Update(context.Background(), domain.Quote{
		ID: uuid.New(), Text: "Ghost", Author: "Nobody",
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuoteRepo_Update_DuplicateTarget(t *testing.T) {
	quotes, friendA, _ := newQuoteFixtures(t)
	ctx := context.Background()

	_, err := quotes.Create(ctx, domain.Quote{Text: "Carpe diem", Author: "Horace"},
		[]uuid.UUID{friendA})
	require.NoError(t, err)

	other, err := quotes.Create(ctx, domain.Quote{Text: "Memento mori", Author: "Horace"},
		[]uuid.UUID{friendA})
	require.NoError(t, err)

	other.Text = "Carpe diem"
	_, err = quotes.Update(ctx, other)

	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestQuoteRepo_Delete_RemovesLinks(t *testing.T) {
	quotes, friendA, friendB := newQuoteFixtures(t)
	ctx := context.Background()

	created, err := quotes.Create(ctx, domain.Quote{Text: "Carpe diem", Author: "Horace"},
		[]uuid.UUID{friendA, friendB})
	require.NoError(t, err)

	require.NoError(t, quotes.Delete(ctx, created.ID))

	for _, fid := range []uuid.UUID{friendA, friendB} {
		linked, err := quotes.ListByFriend(ctx, fid)
		require.NoError(t, err)
		assert.Empty(t, linked)
	}
}

func TestQuoteRepo_Delete_NotFound(t *testing.T) {
	quotes, _, _ := newQuoteFixtures(t)

	err := quotes.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuoteRepo_ListByFriend_Ordering(t *testing.T) {
	quotes, friendA, _ := newQuoteFixtures(t)
	ctx := context.Background()

	for _, q := range []domain.Quote{
		{Text: "Zed", Author: "Beta"},
		{Text: "Alpha", Author: "Beta"},
		{Text: "Mid", Author: "Alef"},
	} {
		_, err := quotes.Create(ctx, q, []uuid.UUID{friendA})
		require.NoError(t, err)
	}

	got, err := quotes.ListByFriend(ctx, friendA)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Alef", got[0].Author)
	assert.Equal(t, "Alpha", got[1].Text)
	assert.Equal(t, "Zed", got[2].Text)
}
