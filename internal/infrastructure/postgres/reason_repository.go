package postgres

import (
	"context"

	"github.com/jhoicas/glamstock-api/internal/domain/entity"
	"github.com/jhoicas/glamstock-api/internal/domain/repository"
)

var _ repository.ReasonRepository = (*ReasonRepo)(nil)

type ReasonRepo struct {
	q Querier
}

func NewReasonRepository(q Querier) *ReasonRepo {
	return &ReasonRepo{q: q}
}

func (r *ReasonRepo) ListAll(ctx context.Context) ([]entity.Reason, error) {
	rows, err := r.q.Query(ctx, `SELECT id, label FROM transaction_reasons ORDER BY id`)
	if err != nil {
		return nil, mapError("list reasons", err)
	}
	defer rows.Close()

	var list []entity.Reason
	for rows.Next() {
		var reason entity.Reason
		if err := rows.Scan(&reason.ID, &reason.Label); err != nil {
			return nil, mapError("scan reason", err)
		}
		list = append(list, reason)
	}
	return list, rows.Err()
}
