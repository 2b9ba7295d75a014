package repository

import (
	"context"

	"github.com/jhoicas/glamstock-api/internal/domain/entity"
)

// CatalogRepository alta de sucursales, productos y variantes.
// El catálogo lo administra otro servicio; aquí solo lo usan la siembra y los tests.
type CatalogRepository interface {
	CreateBranch(ctx context.Context, branch *entity.Branch) error
	CreateProduct(ctx context.Context, product *entity.Product) error
	CreateVariant(ctx context.Context, variant *entity.Variant) error
	CreateReason(ctx context.Context, reason *entity.Reason) error
}
