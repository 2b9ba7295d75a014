package repository

import (
	"context"

	"github.com/jhoicas/glamstock-api/internal/domain/entity"
)

// BranchRepository define el puerto de lectura de sucursales (colaborador de catálogo).
type BranchRepository interface {
	// GetActive devuelve domain.ErrInvalidBranch si la sucursal no existe o está inactiva.
	GetActive(ctx context.Context, id int64) (*entity.Branch, error)
	ListActive(ctx context.Context) ([]entity.Branch, error)
}
