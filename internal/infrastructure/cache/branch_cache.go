package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/glamstock-api/internal/domain"
	"github.com/jhoicas/glamstock-api/internal/domain/entity"
	"github.com/jhoicas/glamstock-api/internal/domain/repository"
	"github.com/jhoicas/glamstock-api/pkg/logger"
)

const (
	branchKeyPrefix   = "glamstock:branch:"
	activeBranchesKey = "glamstock:branches:active"
	inactiveMarker    = "-"
)

// BranchRepository decora un repository.BranchRepository con Redis.
// Guarda también el resultado negativo (sucursal inválida) para no golpear la BD en cada request.
// Si Redis falla se consulta la BD directamente.
type BranchRepository struct {
	inner  repository.BranchRepository
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

var _ repository.BranchRepository = (*BranchRepository)(nil)

// NewBranchRepository construye el decorador. Con client nil se comporta como inner.
func NewBranchRepository(inner repository.BranchRepository, client *redis.Client, ttl time.Duration, log *logger.Logger) *BranchRepository {
	if log == nil {
		log = logger.Nop()
	}
	return &BranchRepository{inner: inner, client: client, ttl: ttl, log: log}
}

type cachedBranch struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

func toCached(b *entity.Branch) cachedBranch {
	return cachedBranch{ID: b.ID, Name: b.Name, Location: b.Location, CreatedAt: b.CreatedAt}
}

func (c cachedBranch) entity() entity.Branch {
	return entity.Branch{ID: c.ID, Name: c.Name, Location: c.Location, Active: true, CreatedAt: c.CreatedAt}
}

func branchKey(id int64) string {
	return branchKeyPrefix + strconv.FormatInt(id, 10)
}

func (r *BranchRepository) GetActive(ctx context.Context, id int64) (*entity.Branch, error) {
	if r.client == nil {
		return r.inner.GetActive(ctx, id)
	}

	payload, err := r.client.Get(ctx, branchKey(id)).Bytes()
	switch {
	case err == nil:
		if string(payload) == inactiveMarker {
			return nil, domain.ErrInvalidBranch
		}
		var cb cachedBranch
		if err := json.Unmarshal(payload, &cb); err == nil {
			b := cb.entity()
			return &b, nil
		}
	case !errors.Is(err, redis.Nil):
		r.log.Warn().Err(err).Int64("branch_id", id).Msg("cache de sucursales no disponible")
		return r.inner.GetActive(ctx, id)
	}

	branch, err := r.inner.GetActive(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidBranch) {
			r.store(ctx, branchKey(id), inactiveMarker)
		}
		return nil, err
	}
	raw, err := json.Marshal(toCached(branch))
	if err == nil {
		r.store(ctx, branchKey(id), raw)
	}
	return branch, nil
}

func (r *BranchRepository) ListActive(ctx context.Context) ([]entity.Branch, error) {
	if r.client == nil {
		return r.inner.ListActive(ctx)
	}

	payload, err := r.client.Get(ctx, activeBranchesKey).Bytes()
	if err == nil {
		var cached []cachedBranch
		if err := json.Unmarshal(payload, &cached); err == nil {
			out := make([]entity.Branch, 0, len(cached))
			for _, cb := range cached {
				out = append(out, cb.entity())
			}
			return out, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		r.log.Warn().Err(err).Msg("cache de sucursales no disponible")
		return r.inner.ListActive(ctx)
	}

	branches, err := r.inner.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	cached := make([]cachedBranch, 0, len(branches))
	for i := range branches {
		cached = append(cached, toCached(&branches[i]))
	}
	if raw, err := json.Marshal(cached); err == nil {
		r.store(ctx, activeBranchesKey, raw)
	}
	return branches, nil
}

// invalidate borra las entradas de una sucursal y la lista de activas.
// Ninguna ruta de la API cambia sucursales; hoy las entradas expiran por TTL.
func (r *BranchRepository) invalidate(ctx context.Context, id int64) error {
	if r.client == nil {
		return nil
	}
	return r.client.Del(ctx, branchKey(id), activeBranchesKey).Err()
}

func (r *BranchRepository) store(ctx context.Context, key string, value interface{}) {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("no se pudo escribir en cache")
	}
}
