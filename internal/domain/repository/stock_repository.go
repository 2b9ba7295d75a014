package repository

import (
	"context"

	"github.com/jhoicas/glamstock-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por variante+sucursal.
// Las escrituras solo ocurren dentro de la transacción del motor de inventario.
type StockRepository interface {
	// Get devuelve domain.ErrNotFound si no existe la fila.
	Get(ctx context.Context, variantID, branchID int64) (*entity.StockBalance, error)
	// GetForUpdate obtiene el saldo y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, variantID, branchID int64) (*entity.StockBalance, error)
	UpdateQuantity(ctx context.Context, variantID, branchID, quantity int64) error
	// Create da de alta el saldo inicial (flujo de catálogo al surtir una variante por primera vez).
	Create(ctx context.Context, balance *entity.StockBalance) error
	// ListValuedByBranch devuelve las filas de inventario de la sucursal unidas con datos del catálogo.
	ListValuedByBranch(ctx context.Context, branchID int64) ([]entity.BranchInventoryRow, error)
}
