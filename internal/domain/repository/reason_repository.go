package repository

import (
	"context"

	"github.com/jhoicas/glamstock-api/internal/domain/entity"
)

// ReasonRepository lee el catálogo de motivos de transacción.
type ReasonRepository interface {
	ListAll(ctx context.Context) ([]entity.Reason, error)
}
