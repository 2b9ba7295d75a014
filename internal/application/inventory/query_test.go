package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/glamstock-api/internal/application/dto"
	"github.com/jhoicas/glamstock-api/internal/application/inventory"
	"github.com/jhoicas/glamstock-api/internal/domain"
	"github.com/jhoicas/glamstock-api/internal/domain/entity"
	"github.com/jhoicas/glamstock-api/internal/domain/repository"
)

type stubBranchRepo struct {
	branches map[int64]entity.Branch
}

func (s stubBranchRepo) GetActive(_ context.Context, id int64) (*entity.Branch, error) {
	b, ok := s.branches[id]
	if !ok || !b.Active {
		return nil, domain.ErrInvalidBranch
	}
	return &b, nil
}

func (s stubBranchRepo) ListActive(context.Context) ([]entity.Branch, error) {
	var out []entity.Branch
	for _, id := range []int64{1, 2, 3} {
		if b, ok := s.branches[id]; ok && b.Active {
			out = append(out, b)
		}
	}
	return out, nil
}

// stubStockRepo solo sirve la lectura valorizada.
type stubStockRepo struct {
	repository.StockRepository
	rows map[int64][]entity.BranchInventoryRow
	err  error
}

func (s stubStockRepo) ListValuedByBranch(_ context.Context, branchID int64) ([]entity.BranchInventoryRow, error) {
	return s.rows[branchID], s.err
}

type stubRenderer struct {
	gotItems int
	gotTotal decimal.Decimal
}

func (r *stubRenderer) RenderBranchInventory(_ context.Context, branch *entity.Branch, items []dto.BranchInventoryItem, total decimal.Decimal) ([]byte, error) {
	r.gotItems = len(items)
	r.gotTotal = total
	return []byte("%PDF-" + branch.Name), nil
}

func queryFixture(renderer inventory.ReportRenderer) *inventory.BranchInventoryUseCase {
	now := time.Now()
	branches := stubBranchRepo{branches: map[int64]entity.Branch{
		1: {ID: 1, Name: "Centro", Active: true},
		2: {ID: 2, Name: "Cerrada", Active: false},
	}}
	stock := stubStockRepo{rows: map[int64][]entity.BranchInventoryRow{
		1: {
			{VariantID: 7, ProductID: 100, SKU: "LAB-01", ProductName: "Labial", Color: "rojo", Quantity: 6, UnitSalePrice: decimal.RequireFromString("25.00"), UpdatedAt: now},
			{VariantID: 9, ProductID: 200, SKU: "BAS-01", ProductName: "Base", Quantity: 2, UnitSalePrice: decimal.RequireFromString("40.50"), UpdatedAt: now},
			{VariantID: 8, ProductID: 100, SKU: "LAB-01", ProductName: "Labial", Color: "rosa", Quantity: 0, UnitSalePrice: decimal.RequireFromString("25.00"), UpdatedAt: now},
		},
		2: {{VariantID: 7, ProductID: 100, Quantity: 1, UnitSalePrice: decimal.NewFromInt(1)}},
	}}
	return inventory.NewBranchInventoryUseCase(stock, branches, renderer)
}

func TestQueryBranchInventory_Valoriza(t *testing.T) {
	uc := queryFixture(nil)

	items, err := uc.QueryBranchInventory(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, int64(7), items[0].VariantID)
	assert.Equal(t, "Labial", items[0].Name)
	assert.True(t, decimal.RequireFromString("150").Equal(items[0].ValuedTotal))
	assert.True(t, decimal.RequireFromString("81").Equal(items[1].ValuedTotal))
	assert.True(t, items[2].ValuedTotal.IsZero(), "fila en cero se incluye con valor 0")
	assert.True(t, decimal.RequireFromString("231").Equal(inventory.TotalValue(items)))
}

func TestQueryBranchInventory_SucursalInvalida(t *testing.T) {
	uc := queryFixture(nil)

	for _, id := range []int64{0, 2, 55} {
		_, err := uc.QueryBranchInventory(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrInvalidBranch, "branch %d", id)
	}
}

func TestQueryBranchInventory_ErrorDeLectura(t *testing.T) {
	uc := inventory.NewBranchInventoryUseCase(
		stubStockRepo{err: errors.New("timeout")},
		stubBranchRepo{branches: map[int64]entity.Branch{1: {ID: 1, Active: true}}},
		nil,
	)
	_, err := uc.QueryBranchInventory(context.Background(), 1)
	assert.Error(t, err)
}

func TestGroupByProduct_AgrupaEnOrdenDeAparicion(t *testing.T) {
	uc := queryFixture(nil)

	products, err := uc.QueryBranchInventoryByProduct(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, int64(100), products[0].ProductID)
	assert.Equal(t, int64(6), products[0].TotalQuantity)
	assert.True(t, decimal.RequireFromString("150").Equal(products[0].TotalValue))
	require.Len(t, products[0].Variants, 2)
	assert.Equal(t, "rosa", products[0].Variants[1].Color)

	assert.Equal(t, int64(200), products[1].ProductID)
	assert.Len(t, products[1].Variants, 1)
}

func TestGroupByProduct_Vacio(t *testing.T) {
	assert.Empty(t, inventory.GroupByProduct(nil))
}

func TestBranchInventoryPDF(t *testing.T) {
	renderer := &stubRenderer{}
	uc := queryFixture(renderer)

	pdf, err := uc.BranchInventoryPDF(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-Centro", string(pdf))
	assert.Equal(t, 3, renderer.gotItems)
	assert.True(t, decimal.RequireFromString("231").Equal(renderer.gotTotal))

	_, err = uc.BranchInventoryPDF(context.Background(), 2)
	assert.ErrorIs(t, err, domain.ErrInvalidBranch)
}

func TestListActiveBranches(t *testing.T) {
	uc := queryFixture(nil)

	branches, err := uc.ListActiveBranches(context.Background())
	require.NoError(t, err)
	require.Len(t, branches, 1)
	assert.Equal(t, "Centro", branches[0].Name)
}
