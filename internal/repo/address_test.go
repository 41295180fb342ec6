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

func addressFixture() domain.Address {
	return domain.Address{
		Street:  "Storgatan 1",
		ZipCode: 11122,
		City:    "Stockholm",
		Country: "Sweden",
	}
}

func TestAddressRepo_Create(t *testing.T) {
	r := repo.NewAddressRepo(newTestTx(t))
	ctx := context.Background()

	got, err := r.Create(ctx, addressFixture())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "Storgatan 1", got.Street)
	assert.Equal(t, 11122, got.ZipCode)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestAddressRepo_Create_Duplicate(t *testing.T) {
	r := repo.NewAddressRepo(newTestTx(t))
	ctx := context.Background()

	_, err := r.Create(ctx, addressFixture())
	require.NoError(t, err)

	_, err = r.Create(ctx, addressFixture())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	var dup *domain.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "address", dup.Entity)
}

func TestAddressRepo_FindMatch(t *testing.T) {
	r := repo.NewAddressRepo(newTestTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, addressFixture())
	require.NoError(t, err)

	got, err := r.FindMatch(ctx, "Storgatan 1", 11122, "Stockholm", "Sweden")

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestAddressRepo_FindMatch_RequiresAllFourFields(t *testing.T) {
	r := repo.NewAddressRepo(newTestTx(t))
	ctx := context.Background()

	_, err := r.Create(ctx, addressFixture())
	require.NoError(t, err)

	// Same street and zip but a different city is a different address.
	_, err = r.FindMatch(ctx, "Storgatan 1", 11122, "Uppsala", "Sweden")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddressRepo_Update(t *testing.T) {
	r := repo.NewAddressRepo(newTestTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, addressFixture())
	require.NoError(t, err)

	created.Street = "Lillgatan 2"
	updated, err := r.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Lillgatan 2", updated.Street)
}

func TestAddressRepo_Update_DuplicateTarget(t *testing.T) {
	r := repo.NewAddressRepo(newTestTx(t))
	ctx := context.Background()

	_, err := r.Create(ctx, addressFixture())
	require.NoError(t, err)

	other := addressFixture()
	other.Street = "Lillgatan 2"
	created, err := r.Create(ctx, other)
	require.NoError(t, err)

	// Editing the second row into the first row's identity hits the unique
	// index.
	created.Street = "Storgatan 1"
	_, err = r.Update(ctx, created)

	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestAddressRepo_GetByID_NotFound(t *testing.T) {
	r := repo.NewAddressRepo(newTestTx(t))

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddressRepo_ListPaged(t *testing.T) {
	r := repo.NewAddressRepo(newTestTx(t))
	ctx := context.Background()

	for _, city := range []string{"Stockholm", "Uppsala"} {
		a := addressFixture()
		a.City = city
		_, err := r.Create(ctx, a)
		require.NoError(t, err)
	}

	got, total, err := r.ListPaged(ctx, domain.PaginationParams{Page: 1, Limit: 20})

	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, got, 2)
}
