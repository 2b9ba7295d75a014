package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/glamstock-api/internal/domain/entity"
	"github.com/jhoicas/glamstock-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo libro de inventario append-only sobre PostgreSQL.
type LedgerRepo struct {
	q Querier
}

func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `id, variant_id, branch_id, reason_id, user_id, kind, quantity, delta, unit_price, created_at`

// Append inserta la entrada; id (BIGSERIAL) y created_at los asigna la BD.
func (r *LedgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO ledger_entries (variant_id, branch_id, reason_id, user_id, kind, quantity, delta, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		e.VariantID, e.BranchID, e.ReasonID, e.UserID, e.Kind, e.Quantity, e.Delta, e.UnitPrice,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return mapError("append ledger entry", err)
	}
	return nil
}

func (r *LedgerRepo) GetByID(ctx context.Context, id int64) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	err := r.q.QueryRow(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE id = $1`, id).Scan(
		&e.ID, &e.VariantID, &e.BranchID, &e.ReasonID, &e.UserID, &e.Kind,
		&e.Quantity, &e.Delta, &e.UnitPrice, &e.CreatedAt,
	)
	if err != nil {
		return nil, mapError("get ledger entry", err)
	}
	return &e, nil
}

// List historial filtrado, más reciente primero.
func (r *LedgerRepo) List(ctx context.Context, f repository.LedgerFilter) ([]entity.LedgerEntry, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.BranchID > 0 {
		add("branch_id = $%d", f.BranchID)
	}
	if f.VariantID > 0 {
		add("variant_id = $%d", f.VariantID)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}

	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(` ORDER BY id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list ledger", err)
	}
	defer rows.Close()

	var list []entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(
			&e.ID, &e.VariantID, &e.BranchID, &e.ReasonID, &e.UserID, &e.Kind,
			&e.Quantity, &e.Delta, &e.UnitPrice, &e.CreatedAt,
		); err != nil {
			return nil, mapError("scan ledger", err)
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list ledger", err)
	}
	return list, nil
}
