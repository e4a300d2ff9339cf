package product_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-force/app/product"
	"github.com/km-arc/go-force/framework/persistence"
)

func newService(t *testing.T) *product.Service {
	t.Helper()
	repo, err := product.NewMemoryRepository(product.Samples...)
	require.NoError(t, err)
	return product.NewService(repo)
}

func TestService_CountAndList(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(product.Samples), n)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Chair", all[0].Name)
	assert.Equal(t, int64(1), all[0].ID)
}

func TestService_GetMissingWrapsNotFound(t *testing.T) {
	_, err := newService(t).Get(context.Background(), 99)
	assert.ErrorIs(t, err, persistence.ErrNotFound)
	assert.Contains(t, err.Error(), "product 99")
}

func TestService_Search(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	found, err := svc.Search(ctx, "LAM")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Lamp", found[0].Name)

	none, err := svc.Search(ctx, "Guest")
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none, "an empty result encodes as []")
}

func TestService_CreateUpdatePatchDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	created, err := svc.Create(ctx, product.Form{Name: "Desk", Description: "Walnut", Price: 22})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)

	updated, err := svc.Update(ctx, created.ID, product.Form{Name: "Desk", Description: "Maple", Price: 21})
	require.NoError(t, err)
	assert.Equal(t, "Maple", updated.Description)

	patched, err := svc.Patch(ctx, created.ID, map[string]any{"name": "Standing desk"})
	require.NoError(t, err)
	assert.Equal(t, "Standing desk", patched.Name)
	assert.Equal(t, "Maple", patched.Description)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestService_UpdateAndPatchMissing(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Update(ctx, 99, product.Form{Name: "x", Description: "y"})
	assert.ErrorIs(t, err, persistence.ErrNotFound)
	_, err = svc.Patch(ctx, 99, map[string]any{"name": "x"})
	assert.ErrorIs(t, err, persistence.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 99), persistence.ErrNotFound)
}

func TestService_PatchRejectsUnknownFieldWithoutWriting(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Patch(ctx, 1, map[string]any{"name": "Throne", "colour": "gold"})
	var unknown *product.UnknownFieldError
	require.ErrorAs(t, err, &unknown)

	got, _ := svc.Get(ctx, 1)
	assert.Equal(t, "Chair", got.Name)
}
