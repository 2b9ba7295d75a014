package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/glamstock-api/internal/application/dto"
	"github.com/jhoicas/glamstock-api/internal/domain"
	"github.com/jhoicas/glamstock-api/internal/domain/entity"
	"github.com/jhoicas/glamstock-api/internal/domain/repository"
)

const (
	defaultLedgerLimit = 50
	maxLedgerLimit     = 200
)

// LedgerHistoryUseCase lectura del libro de inventario.
type LedgerHistoryUseCase struct {
	ledgerRepo repository.LedgerRepository
}

func NewLedgerHistoryUseCase(ledgerRepo repository.LedgerRepository) *LedgerHistoryUseCase {
	return &LedgerHistoryUseCase{ledgerRepo: ledgerRepo}
}

// List historial paginado, más reciente primero.
func (uc *LedgerHistoryUseCase) List(ctx context.Context, filter repository.LedgerFilter) (*dto.LedgerListResponse, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLedgerLimit
	}
	if filter.Limit > maxLedgerLimit {
		filter.Limit = maxLedgerLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	entries, err := uc.ledgerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, toLedgerResponse(&entries[i]))
	}
	return &dto.LedgerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// Get una entrada por id de transacción; domain.ErrNotFound si no existe.
func (uc *LedgerHistoryUseCase) Get(ctx context.Context, id int64) (*dto.LedgerEntryResponse, error) {
	if id <= 0 {
		return nil, domain.ErrNotFound
	}
	entry, err := uc.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toLedgerResponse(entry)
	return &out, nil
}

// Replay reconstruye el saldo aplicando los deltas en orden de commit.
// Para cualquier (variante, sucursal): Replay(inicial, entradas) == saldo actual.
func Replay(initial int64, entries []entity.LedgerEntry) int64 {
	qty := initial
	for _, e := range entries {
		qty += e.Delta
	}
	return qty
}

func toLedgerResponse(e *entity.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:        e.ID,
		VariantID: e.VariantID,
		BranchID:  e.BranchID,
		ReasonID:  e.ReasonID,
		UserID:    e.UserID,
		Kind:      e.Kind,
		Quantity:  e.Quantity,
		Delta:     e.Delta,
		UnitPrice: e.UnitPrice,
		CreatedAt: e.CreatedAt,
	}
}
