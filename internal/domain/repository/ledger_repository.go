package repository

import (
	"context"
	"time"

	"github.com/jhoicas/glamstock-api/internal/domain/entity"
)

// LedgerFilter filtros para el historial del libro de inventario. Campos cero = sin filtro.
type LedgerFilter struct {
	BranchID  int64
	VariantID int64
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// LedgerRepository es el puerto append-only del libro de inventario.
// No expone actualización ni borrado: las entradas son inmutables.
type LedgerRepository interface {
	// Append persiste la entrada y asigna ID y CreatedAt.
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	GetByID(ctx context.Context, id int64) (*entity.LedgerEntry, error)
	// List devuelve las entradas más recientes primero.
	List(ctx context.Context, filter LedgerFilter) ([]entity.LedgerEntry, error)
}
