package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/glamstock-api/internal/application/dto"
	"github.com/jhoicas/glamstock-api/internal/domain"
	"github.com/jhoicas/glamstock-api/internal/domain/entity"
	"github.com/jhoicas/glamstock-api/internal/domain/repository"
)

// BranchInventoryUseCase consultas de solo lectura sobre el inventario de una sucursal.
// No toma bloqueos: puede observar cualquier estado comprometido.
type BranchInventoryUseCase struct {
	stockRepo  repository.StockRepository
	branchRepo repository.BranchRepository
	renderer   ReportRenderer
}

// NewBranchInventoryUseCase construye el caso de uso. renderer puede ser nil si no se exporta PDF.
func NewBranchInventoryUseCase(
	stockRepo repository.StockRepository,
	branchRepo repository.BranchRepository,
	renderer ReportRenderer,
) *BranchInventoryUseCase {
	return &BranchInventoryUseCase{stockRepo: stockRepo, branchRepo: branchRepo, renderer: renderer}
}

// QueryBranchInventory devuelve el inventario valorizado (cantidad × precio de venta) de la sucursal.
func (uc *BranchInventoryUseCase) QueryBranchInventory(ctx context.Context, branchID int64) ([]dto.BranchInventoryItem, error) {
	_, items, err := uc.load(ctx, branchID)
	return items, err
}

// QueryBranchInventoryByProduct igual que QueryBranchInventory pero agrupado por producto maestro.
func (uc *BranchInventoryUseCase) QueryBranchInventoryByProduct(ctx context.Context, branchID int64) ([]dto.ProductInventory, error) {
	_, items, err := uc.load(ctx, branchID)
	if err != nil {
		return nil, err
	}
	return GroupByProduct(items), nil
}

// BranchInventoryPDF genera el reporte imprimible del inventario valorizado.
func (uc *BranchInventoryUseCase) BranchInventoryPDF(ctx context.Context, branchID int64) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("reporte PDF no configurado")
	}
	branch, items, err := uc.load(ctx, branchID)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderBranchInventory(ctx, branch, items, TotalValue(items))
}

// ListActiveBranches sucursales activas.
func (uc *BranchInventoryUseCase) ListActiveBranches(ctx context.Context) ([]dto.BranchResponse, error) {
	branches, err := uc.branchRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BranchResponse, 0, len(branches))
	for _, b := range branches {
		out = append(out, dto.BranchResponse{ID: b.ID, Name: b.Name, Location: b.Location, CreatedAt: b.CreatedAt})
	}
	return out, nil
}

// load valida la sucursal y lee las filas en paralelo.
func (uc *BranchInventoryUseCase) load(ctx context.Context, branchID int64) (*entity.Branch, []dto.BranchInventoryItem, error) {
	if branchID <= 0 {
		return nil, nil, domain.ErrInvalidBranch
	}

	var (
		branch *entity.Branch
		rows   []entity.BranchInventoryRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := uc.branchRepo.GetActive(gctx, branchID)
		if err != nil {
			return err
		}
		branch = b
		return nil
	})
	g.Go(func() error {
		r, err := uc.stockRepo.ListValuedByBranch(gctx, branchID)
		if err != nil {
			return err
		}
		rows = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	items := make([]dto.BranchInventoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.BranchInventoryItem{
			VariantID:     r.VariantID,
			ProductID:     r.ProductID,
			SKU:           r.SKU,
			Name:          r.ProductName,
			Barcode:       r.Barcode,
			Model:         r.Model,
			Color:         r.Color,
			Quantity:      r.Quantity,
			UnitSalePrice: r.UnitSalePrice,
			ValuedTotal:   r.UnitSalePrice.Mul(decimal.NewFromInt(r.Quantity)),
			UpdatedAt:     r.UpdatedAt,
		})
	}
	return branch, items, nil
}

// GroupByProduct agrupa filas planas por producto maestro conservando el orden de primera aparición.
func GroupByProduct(items []dto.BranchInventoryItem) []dto.ProductInventory {
	index := make(map[int64]int)
	out := make([]dto.ProductInventory, 0)
	for _, it := range items {
		i, ok := index[it.ProductID]
		if !ok {
			i = len(out)
			index[it.ProductID] = i
			out = append(out, dto.ProductInventory{
				ProductID:  it.ProductID,
				SKU:        it.SKU,
				Name:       it.Name,
				TotalValue: decimal.Zero,
			})
		}
		p := &out[i]
		p.TotalQuantity += it.Quantity
		p.TotalValue = p.TotalValue.Add(it.ValuedTotal)
		p.Variants = append(p.Variants, it)
	}
	return out
}

// TotalValue suma el valor de todas las filas.
func TotalValue(items []dto.BranchInventoryItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.ValuedTotal)
	}
	return total
}
