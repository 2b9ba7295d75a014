package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/glamstock-api/internal/domain"
	"github.com/jhoicas/glamstock-api/internal/domain/entity"
	"github.com/jhoicas/glamstock-api/internal/domain/repository"
)

var (
	_ repository.BranchRepository  = (*BranchRepo)(nil)
	_ repository.ReasonRepository  = (*ReasonRepo)(nil)
	_ repository.CatalogRepository = (*CatalogRepo)(nil)
)

type BranchRepo struct {
	q dbtx
}

func NewBranchRepository(q dbtx) *BranchRepo {
	return &BranchRepo{q: q}
}

func (r *BranchRepo) GetActive(ctx context.Context, id int64) (*entity.Branch, error) {
	var (
		b         entity.Branch
		createdAt int64
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT id, name, location, active, created_at
		FROM branches WHERE id = ? AND active = 1`, id,
	).Scan(&b.ID, &b.Name, &b.Location, &b.Active, &createdAt)
	if err != nil {
		err = mapError("get branch", err)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidBranch
		}
		return nil, err
	}
	b.CreatedAt = fromMillis(createdAt)
	return &b, nil
}

func (r *BranchRepo) ListActive(ctx context.Context) ([]entity.Branch, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, location, active, created_at
		FROM branches WHERE active = 1 ORDER BY id`)
	if err != nil {
		return nil, mapError("list branches", err)
	}
	defer rows.Close()

	var list []entity.Branch
	for rows.Next() {
		var (
			b         entity.Branch
			createdAt int64
		)
		if err := rows.Scan(&b.ID, &b.Name, &b.Location, &b.Active, &createdAt); err != nil {
			return nil, mapError("scan branch", err)
		}
		b.CreatedAt = fromMillis(createdAt)
		list = append(list, b)
	}
	return list, rows.Err()
}

type ReasonRepo struct {
	q dbtx
}

func NewReasonRepository(q dbtx) *ReasonRepo {
	return &ReasonRepo{q: q}
}

func (r *ReasonRepo) ListAll(ctx context.Context) ([]entity.Reason, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, label FROM transaction_reasons ORDER BY id`)
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

// CatalogRepo altas del catálogo (siembra y tests).
type CatalogRepo struct {
	q dbtx
}

func NewCatalogRepository(q dbtx) *CatalogRepo {
	return &CatalogRepo{q: q}
}

func (r *CatalogRepo) CreateBranch(ctx context.Context, b *entity.Branch) error {
	b.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO branches (name, location, active, created_at) VALUES (?, ?, ?, ?)`,
		b.Name, b.Location, b.Active, toMillis(b.CreatedAt))
	if err != nil {
		return mapError("insert branch", err)
	}
	b.ID, err = res.LastInsertId()
	return mapError("insert branch", err)
}

func (r *CatalogRepo) CreateProduct(ctx context.Context, p *entity.Product) error {
	p.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO products (sku, name, created_at) VALUES (?, ?, ?)`,
		p.SKU, p.Name, toMillis(p.CreatedAt))
	if err != nil {
		return mapError("insert product", err)
	}
	p.ID, err = res.LastInsertId()
	return mapError("insert product", err)
}

func (r *CatalogRepo) CreateVariant(ctx context.Context, v *entity.Variant) error {
	v.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO variants (product_id, barcode, model, color, purchase_price, sale_price, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.ProductID, v.Barcode, v.Model, v.Color,
		v.PurchasePrice.String(), v.SalePrice.String(), toMillis(v.CreatedAt))
	if err != nil {
		return mapError("insert variant", err)
	}
	v.ID, err = res.LastInsertId()
	return mapError("insert variant", err)
}

// CreateReason inserta el motivo; si la etiqueta ya existe recupera su id.
func (r *CatalogRepo) CreateReason(ctx context.Context, reason *entity.Reason) error {
	if _, err := r.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO transaction_reasons (label) VALUES (?)`, reason.Label); err != nil {
		return mapError("insert reason", err)
	}
	err := r.q.QueryRowContext(ctx,
		`SELECT id FROM transaction_reasons WHERE label = ?`, reason.Label).Scan(&reason.ID)
	return mapError("insert reason", err)
}
