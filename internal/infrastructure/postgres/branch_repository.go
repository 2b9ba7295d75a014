package postgres

import (
	"context"
	"errors"

	"github.com/jhoicas/glamstock-api/internal/domain"
	"github.com/jhoicas/glamstock-api/internal/domain/entity"
	"github.com/jhoicas/glamstock-api/internal/domain/repository"
)

var _ repository.BranchRepository = (*BranchRepo)(nil)

// BranchRepo lectura de sucursales.
type BranchRepo struct {
	q Querier
}

func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

// GetActive devuelve la sucursal si existe y está activa; en otro caso domain.ErrInvalidBranch.
func (r *BranchRepo) GetActive(ctx context.Context, id int64) (*entity.Branch, error) {
	var b entity.Branch
	err := r.q.QueryRow(ctx, `
		SELECT id, name, location, active, created_at
		FROM branches WHERE id = $1 AND active = TRUE`, id,
	).Scan(&b.ID, &b.Name, &b.Location, &b.Active, &b.CreatedAt)
	if err != nil {
		err = mapError("get branch", err)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidBranch
		}
		return nil, err
	}
	return &b, nil
}

func (r *BranchRepo) ListActive(ctx context.Context) ([]entity.Branch, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, location, active, created_at
		FROM branches WHERE active = TRUE ORDER BY id`)
	if err != nil {
		return nil, mapError("list branches", err)
	}
	defer rows.Close()

	var list []entity.Branch
	for rows.Next() {
		var b entity.Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Location, &b.Active, &b.CreatedAt); err != nil {
			return nil, mapError("scan branch", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
