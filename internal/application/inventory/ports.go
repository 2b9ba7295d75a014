package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/glamstock-api/internal/application/dto"
	"github.com/jhoicas/glamstock-api/internal/domain/entity"
	"github.com/jhoicas/glamstock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback completo; si no, Commit. Garantiza atomicidad para el motor.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}

// ReportRenderer genera la representación imprimible del inventario valorizado de una sucursal.
type ReportRenderer interface {
	RenderBranchInventory(
		ctx context.Context,
		branch *entity.Branch,
		items []dto.BranchInventoryItem,
		total decimal.Decimal,
	) ([]byte, error)
}
