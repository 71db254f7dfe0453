package product

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gin-gorm-product-api/internal/core/cache"
	"gin-gorm-product-api/internal/domain"
	"gin-gorm-product-api/internal/repo"
)

type ownerOnly bool

func (o ownerOnly) CanMutate(actorID string, p *domain.Product) bool {
	return !bool(o) || p.CreatedBy == actorID
}

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestCreate_StampsOwner(t *testing.T) {
	s := NewService(repo.NewMemoryProductRepo(), ownerOnly(false), nil)
	p, err := s.Create(context.Background(), "user-x", CreateInput{Name: "Pen", Price: 1.5})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "user-x", p.CreatedBy)
}

func TestCreate_Validation(t *testing.T) {
	s := NewService(repo.NewMemoryProductRepo(), ownerOnly(false), nil)
	ctx := context.Background()

	_, err := s.Create(ctx, "", CreateInput{Name: "Pen"})
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = s.Create(ctx, "u", CreateInput{Name: "  "})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = s.Create(ctx, "u", CreateInput{Name: "Pen", Price: -1})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_OwnerUnchangedRegardlessOfActor(t *testing.T) {
	s := NewService(repo.NewMemoryProductRepo(), ownerOnly(false), nil)
	ctx := context.Background()
	p, err := s.Create(ctx, "user-x", CreateInput{Name: "Pen", Price: 1})
	require.NoError(t, err)

	got, err := s.Update(ctx, "user-y", p.ID, domain.ProductPatch{Name: strPtr("Pencil"), Price: floatPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, "Pencil", got.Name)
	assert.Equal(t, 2.0, got.Price)
	assert.Equal(t, "user-x", got.CreatedBy)
}

func TestUpdate_EnforcedOwnership(t *testing.T) {
	s := NewService(repo.NewMemoryProductRepo(), ownerOnly(true), nil)
	ctx := context.Background()
	p, err := s.Create(ctx, "user-x", CreateInput{Name: "Pen"})
	require.NoError(t, err)

	_, err = s.Update(ctx, "user-y", p.ID, domain.ProductPatch{Name: strPtr("Mine")})
	require.ErrorIs(t, err, domain.ErrForbidden)
	require.ErrorIs(t, s.Delete(ctx, "user-y", p.ID), domain.ErrForbidden)
	require.NoError(t, s.Delete(ctx, "user-x", p.ID))
}

func TestUpdateDelete_NotFound(t *testing.T) {
	s := NewService(repo.NewMemoryProductRepo(), ownerOnly(false), nil)
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Update(ctx, "u", "missing", domain.ProductPatch{Name: strPtr("x")})
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, s.Delete(ctx, "u", "missing"), domain.ErrNotFound)
}

func TestUpdate_Validation(t *testing.T) {
	s := NewService(repo.NewMemoryProductRepo(), ownerOnly(false), nil)
	ctx := context.Background()
	p, err := s.Create(ctx, "u", CreateInput{Name: "Pen"})
	require.NoError(t, err)

	_, err = s.Update(ctx, "u", p.ID, domain.ProductPatch{Price: floatPtr(-3)})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = s.Update(ctx, "u", p.ID, domain.ProductPatch{Name: strPtr("")})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestList(t *testing.T) {
	s := NewService(repo.NewMemoryProductRepo(), ownerOnly(false), nil)
	ctx := context.Background()
	for _, n := range []string{"a", "b", "c"} {
		_, err := s.Create(ctx, "u", CreateInput{Name: n})
		require.NoError(t, err)
	}
	ps, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ps, 3)
}

func TestGet_CacheInvalidatedOnWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })

	s := NewService(repo.NewMemoryProductRepo(), ownerOnly(false), nil).WithCache(c, time.Minute)
	ctx := context.Background()
	p, err := s.Create(ctx, "u", CreateInput{Name: "Pen", Price: 1})
	require.NoError(t, err)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pen", got.Name)
	assert.True(t, mr.Exists(cacheKey(p.ID)))

	_, err = s.Update(ctx, "u", p.ID, domain.ProductPatch{Name: strPtr("Pencil")})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cacheKey(p.ID)))

	got, err = s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pencil", got.Name)

	require.NoError(t, s.Delete(ctx, "u", p.ID))
	assert.False(t, mr.Exists(cacheKey(p.ID)))
	_, err = s.Get(ctx, p.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
