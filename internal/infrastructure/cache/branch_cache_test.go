package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/glamstock-api/internal/domain"
	"github.com/jhoicas/glamstock-api/internal/domain/entity"
	"github.com/jhoicas/glamstock-api/internal/infrastructure/cache"
)

// fakeBranchRepo cuenta las consultas que llegan a la "BD".
type fakeBranchRepo struct {
	branches  map[int64]entity.Branch
	getCalls  int
	listCalls int
}

func (f *fakeBranchRepo) GetActive(_ context.Context, id int64) (*entity.Branch, error) {
	f.getCalls++
	b, ok := f.branches[id]
	if !ok || !b.Active {
		return nil, domain.ErrInvalidBranch
	}
	return &b, nil
}

func (f *fakeBranchRepo) ListActive(_ context.Context) ([]entity.Branch, error) {
	f.listCalls++
	var out []entity.Branch
	for _, b := range f.branches {
		if b.Active {
			out = append(out, b)
		}
	}
	return out, nil
}

func newFixture(t *testing.T) (*cache.BranchRepository, *fakeBranchRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	inner := &fakeBranchRepo{branches: map[int64]entity.Branch{
		1: {ID: 1, Name: "Centro", Location: "Calle 10", Active: true},
		2: {ID: 2, Name: "Norte", Location: "Av. 5", Active: false},
	}}
	return cache.NewBranchRepository(inner, client, time.Minute, nil), inner, mr
}

func TestBranchCache_GetActiveSoloConsultaUnaVez(t *testing.T) {
	repo, inner, _ := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		b, err := repo.GetActive(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Centro", b.Name)
		assert.True(t, b.Active)
	}
	assert.Equal(t, 1, inner.getCalls)
}

func TestBranchCache_SucursalInactivaSeCacheaComoInvalida(t *testing.T) {
	repo, inner, _ := newFixture(t)
	ctx := context.Background()

	_, err := repo.GetActive(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrInvalidBranch)
	_, err = repo.GetActive(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrInvalidBranch)
	assert.Equal(t, 1, inner.getCalls)
}

func TestBranchCache_ExpiraConTTL(t *testing.T) {
	repo, inner, mr := newFixture(t)
	ctx := context.Background()

	_, err := repo.GetActive(ctx, 1)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = repo.GetActive(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.getCalls)
}

func TestBranchCache_RedisCaidoUsaLaBD(t *testing.T) {
	repo, inner, mr := newFixture(t)
	mr.Close()

	b, err := repo.GetActive(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.ID)
	assert.Equal(t, 1, inner.getCalls)
}

func TestBranchCache_ListActiveEInvalidacion(t *testing.T) {
	repo, inner, _ := newFixture(t)
	ctx := context.Background()

	list, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	_, err = repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.listCalls)

	require.NoError(t, cache.InvalidateBranch(repo, ctx, 1))
	_, err = repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.listCalls)
}

func TestBranchCache_SinClienteDelegaDirecto(t *testing.T) {
	inner := &fakeBranchRepo{branches: map[int64]entity.Branch{1: {ID: 1, Active: true}}}
	repo := cache.NewBranchRepository(inner, nil, time.Minute, nil)

	_, err := repo.GetActive(context.Background(), 1)
	require.NoError(t, err)
	_, err = repo.GetActive(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.getCalls)
}
