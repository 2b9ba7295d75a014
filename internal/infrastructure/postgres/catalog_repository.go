package postgres

import (
	"context"

	"github.com/jhoicas/glamstock-api/internal/domain/entity"
	"github.com/jhoicas/glamstock-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo altas del catálogo sobre PostgreSQL.
type CatalogRepo struct {
	q Querier
}

func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

func (r *CatalogRepo) CreateBranch(ctx context.Context, b *entity.Branch) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO branches (name, location, active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`, b.Name, b.Location, b.Active,
	).Scan(&b.ID, &b.CreatedAt)
	return mapError("insert branch", err)
}

func (r *CatalogRepo) CreateProduct(ctx context.Context, p *entity.Product) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO products (sku, name)
		VALUES ($1, $2)
		RETURNING id, created_at`, p.SKU, p.Name,
	).Scan(&p.ID, &p.CreatedAt)
	return mapError("insert product", err)
}

func (r *CatalogRepo) CreateVariant(ctx context.Context, v *entity.Variant) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO variants (product_id, barcode, model, color, purchase_price, sale_price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		v.ProductID, v.Barcode, v.Model, v.Color, v.PurchasePrice, v.SalePrice,
	).Scan(&v.ID, &v.CreatedAt)
	return mapError("insert variant", err)
}

// CreateReason inserta el motivo; si la etiqueta ya existe recupera su id.
func (r *CatalogRepo) CreateReason(ctx context.Context, reason *entity.Reason) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO transaction_reasons (label) VALUES ($1)
		ON CONFLICT (label) DO UPDATE SET label = EXCLUDED.label
		RETURNING id`, reason.Label,
	).Scan(&reason.ID)
	return mapError("insert reason", err)
}
