package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jhoicas/glamstock-api/internal/domain/entity"
	"github.com/jhoicas/glamstock-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

type LedgerRepo struct {
	q dbtx
}

func NewLedgerRepository(q dbtx) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `id, variant_id, branch_id, reason_id, user_id, kind, quantity, delta, unit_price, created_at`

func (r *LedgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	createdAt := time.Now().UTC().Truncate(time.Millisecond)
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO ledger_entries (variant_id, branch_id, reason_id, user_id, kind, quantity, delta, unit_price, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.VariantID, e.BranchID, e.ReasonID, e.UserID, e.Kind, e.Quantity, e.Delta,
		e.UnitPrice.String(), toMillis(createdAt))
	if err != nil {
		return mapError("append ledger entry", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return mapError("append ledger entry", err)
	}
	e.ID = id
	e.CreatedAt = createdAt
	return nil
}

func (r *LedgerRepo) GetByID(ctx context.Context, id int64) (*entity.LedgerEntry, error) {
	e, err := scanLedger(r.q.QueryRowContext(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE id = ?`, id))
	if err != nil {
		return nil, mapError("get ledger entry", err)
	}
	return e, nil
}

func (r *LedgerRepo) List(ctx context.Context, f repository.LedgerFilter) ([]entity.LedgerEntry, error) {
	var (
		where []string
		args  []any
	)
	if f.BranchID > 0 {
		where, args = append(where, "branch_id = ?"), append(args, f.BranchID)
	}
	if f.VariantID > 0 {
		where, args = append(where, "variant_id = ?"), append(args, f.VariantID)
	}
	if f.From != nil {
		where, args = append(where, "created_at >= ?"), append(args, toMillis(*f.From))
	}
	if f.To != nil {
		where, args = append(where, "created_at <= ?"), append(args, toMillis(*f.To))
	}

	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list ledger", err)
	}
	defer rows.Close()

	var list []entity.LedgerEntry
	for rows.Next() {
		e, err := scanLedger(rows)
		if err != nil {
			return nil, mapError("scan ledger", err)
		}
		list = append(list, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list ledger", err)
	}
	return list, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

var (
	_ rowScanner = (*sql.Row)(nil)
	_ rowScanner = (*sql.Rows)(nil)
)

func scanLedger(s rowScanner) (*entity.LedgerEntry, error) {
	var (
		e         entity.LedgerEntry
		createdAt int64
	)
	if err := s.Scan(
		&e.ID, &e.VariantID, &e.BranchID, &e.ReasonID, &e.UserID, &e.Kind,
		&e.Quantity, &e.Delta, &e.UnitPrice, &createdAt,
	); err != nil {
		return nil, err
	}
	e.CreatedAt = fromMillis(createdAt)
	return &e, nil
}
