package sqlite

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/glamstock-api/internal/domain"
	"github.com/jhoicas/glamstock-api/internal/domain/entity"
	"github.com/jhoicas/glamstock-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

type StockRepo struct {
	q dbtx
}

// NewStockRepository acepta *sql.DB o *sql.Tx.
func NewStockRepository(q dbtx) *StockRepo {
	return &StockRepo{q: q}
}

func (r *StockRepo) Get(ctx context.Context, variantID, branchID int64) (*entity.StockBalance, error) {
	var (
		s         entity.StockBalance
		updatedAt int64
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT variant_id, branch_id, quantity, updated_at
		FROM stock_balances WHERE variant_id = ? AND branch_id = ?`, variantID, branchID,
	).Scan(&s.VariantID, &s.BranchID, &s.Quantity, &updatedAt)
	if err != nil {
		return nil, mapError("get stock", err)
	}
	s.UpdatedAt = fromMillis(updatedAt)
	return &s, nil
}

// GetForUpdate en SQLite la transacción ya tiene el lock de escritura desde BEGIN IMMEDIATE.
func (r *StockRepo) GetForUpdate(ctx context.Context, variantID, branchID int64) (*entity.StockBalance, error) {
	return r.Get(ctx, variantID, branchID)
}

func (r *StockRepo) UpdateQuantity(ctx context.Context, variantID, branchID, quantity int64) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE stock_balances SET quantity = ?, updated_at = ?
		WHERE variant_id = ? AND branch_id = ?`,
		quantity, toMillis(time.Now()), variantID, branchID)
	if err != nil {
		return mapError("update stock", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError("update stock", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockRepo) Create(ctx context.Context, balance *entity.StockBalance) error {
	balance.UpdatedAt = time.Now().UTC()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_balances (variant_id, branch_id, quantity, updated_at)
		VALUES (?, ?, ?, ?)`,
		balance.VariantID, balance.BranchID, balance.Quantity, toMillis(balance.UpdatedAt))
	return mapError("create stock", err)
}

func (r *StockRepo) ListValuedByBranch(ctx context.Context, branchID int64) ([]entity.BranchInventoryRow, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT v.id, p.id, p.sku, p.name, v.barcode, v.model, v.color,
		       s.quantity, v.sale_price, s.updated_at
		FROM stock_balances s
		JOIN variants v ON v.id = s.variant_id
		JOIN products p ON p.id = v.product_id
		WHERE s.branch_id = ?
		ORDER BY p.name, v.id`, branchID)
	if err != nil {
		return nil, mapError("list branch inventory", err)
	}
	defer rows.Close()

	var list []entity.BranchInventoryRow
	for rows.Next() {
		var (
			row       entity.BranchInventoryRow
			price     decimal.Decimal
			updatedAt int64
		)
		if err := rows.Scan(
			&row.VariantID, &row.ProductID, &row.SKU, &row.ProductName, &row.Barcode,
			&row.Model, &row.Color, &row.Quantity, &price, &updatedAt,
		); err != nil {
			return nil, mapError("scan branch inventory", err)
		}
		row.UnitSalePrice = price
		row.UpdatedAt = fromMillis(updatedAt)
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list branch inventory", err)
	}
	return list, nil
}
