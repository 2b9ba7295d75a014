package postgres

import (
	"context"

	"github.com/jhoicas/glamstock-api/internal/domain"
	"github.com/jhoicas/glamstock-api/internal/domain/entity"
	"github.com/jhoicas/glamstock-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const selectBalance = `
	SELECT variant_id, branch_id, quantity, updated_at
	FROM stock_balances WHERE variant_id = $1 AND branch_id = $2`

// Get obtiene el saldo de una variante en una sucursal.
func (r *StockRepo) Get(ctx context.Context, variantID, branchID int64) (*entity.StockBalance, error) {
	return r.scanOne(ctx, "get stock", selectBalance, variantID, branchID)
}

// GetForUpdate obtiene el saldo y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, variantID, branchID int64) (*entity.StockBalance, error) {
	return r.scanOne(ctx, "get stock for update", selectBalance+` FOR UPDATE`, variantID, branchID)
}

func (r *StockRepo) scanOne(ctx context.Context, op, query string, variantID, branchID int64) (*entity.StockBalance, error) {
	var s entity.StockBalance
	err := r.q.QueryRow(ctx, query, variantID, branchID).Scan(&s.VariantID, &s.BranchID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		return nil, mapError(op, err)
	}
	return &s, nil
}

// UpdateQuantity fija la cantidad; la fila debe existir.
func (r *StockRepo) UpdateQuantity(ctx context.Context, variantID, branchID, quantity int64) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_balances SET quantity = $3, updated_at = now()
		WHERE variant_id = $1 AND branch_id = $2`, variantID, branchID, quantity)
	if err != nil {
		return mapError("update stock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Create inserta el saldo inicial; si ya existe devuelve domain.ErrConstraintViolation.
func (r *StockRepo) Create(ctx context.Context, balance *entity.StockBalance) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO stock_balances (variant_id, branch_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		RETURNING updated_at`, balance.VariantID, balance.BranchID, balance.Quantity,
	).Scan(&balance.UpdatedAt)
	if err != nil {
		return mapError("create stock", err)
	}
	return nil
}

// ListValuedByBranch inventario de la sucursal unido con variante y producto maestro.
func (r *StockRepo) ListValuedByBranch(ctx context.Context, branchID int64) ([]entity.BranchInventoryRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT v.id, p.id, p.sku, p.name, v.barcode, v.model, v.color,
		       s.quantity, v.sale_price, s.updated_at
		FROM stock_balances s
		JOIN variants v ON v.id = s.variant_id
		JOIN products p ON p.id = v.product_id
		WHERE s.branch_id = $1
		ORDER BY p.name, v.id`, branchID)
	if err != nil {
		return nil, mapError("list branch inventory", err)
	}
	defer rows.Close()

	var list []entity.BranchInventoryRow
	for rows.Next() {
		var row entity.BranchInventoryRow
		if err := rows.Scan(
			&row.VariantID, &row.ProductID, &row.SKU, &row.ProductName, &row.Barcode,
			&row.Model, &row.Color, &row.Quantity, &row.UnitSalePrice, &row.UpdatedAt,
		); err != nil {
			return nil, mapError("scan branch inventory", err)
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list branch inventory", err)
	}
	return list, nil
}
