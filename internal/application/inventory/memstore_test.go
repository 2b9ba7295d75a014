package inventory_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/glamstock-api/internal/domain"
	"github.com/jhoicas/glamstock-api/internal/domain/entity"
	"github.com/jhoicas/glamstock-api/internal/domain/repository"
)

// memStore almacenamiento en memoria con transacciones serializadas por un mutex global.
// Cada Run trabaja sobre una copia y solo la publica si fn termina sin error.
type memStore struct {
	mu       sync.Mutex
	balances map[[2]int64]entity.StockBalance
	ledger   []entity.LedgerEntry
	nextID   int64

	// failAppend simula un fallo del almacenamiento al escribir el libro.
	failAppend error
}

func newMemStore() *memStore {
	return &memStore{balances: make(map[[2]int64]entity.StockBalance), nextID: 1}
}

func (s *memStore) seed(variantID, branchID, qty int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[[2]int64{variantID, branchID}] = entity.StockBalance{
		VariantID: variantID, BranchID: branchID, Quantity: qty, UpdatedAt: time.Now(),
	}
}

func (s *memStore) quantity(variantID, branchID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[[2]int64{variantID, branchID}].Quantity
}

func (s *memStore) entries() []entity.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.LedgerEntry, len(s.ledger))
	copy(out, s.ledger)
	return out
}

func (s *memStore) Run(ctx context.Context, fn func(repository.StockRepository, repository.LedgerRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		store:    s,
		balances: make(map[[2]int64]entity.StockBalance, len(s.balances)),
		nextID:   s.nextID,
	}
	for k, v := range s.balances {
		tx.balances[k] = v
	}
	if err := fn(tx, tx); err != nil {
		return err
	}
	s.balances = tx.balances
	s.ledger = append(s.ledger, tx.appended...)
	s.nextID = tx.nextID
	return nil
}

// memTx implementa ambos repositorios sobre la copia de la transacción.
type memTx struct {
	store    *memStore
	balances map[[2]int64]entity.StockBalance
	appended []entity.LedgerEntry
	nextID   int64
}

func (t *memTx) Get(_ context.Context, variantID, branchID int64) (*entity.StockBalance, error) {
	b, ok := t.balances[[2]int64{variantID, branchID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (t *memTx) GetForUpdate(ctx context.Context, variantID, branchID int64) (*entity.StockBalance, error) {
	return t.Get(ctx, variantID, branchID)
}

func (t *memTx) UpdateQuantity(_ context.Context, variantID, branchID, quantity int64) error {
	k := [2]int64{variantID, branchID}
	b, ok := t.balances[k]
	if !ok {
		return domain.ErrNotFound
	}
	if quantity < 0 {
		return domain.ErrConstraintViolation
	}
	b.Quantity = quantity
	b.UpdatedAt = time.Now()
	t.balances[k] = b
	return nil
}

func (t *memTx) Create(_ context.Context, balance *entity.StockBalance) error {
	k := [2]int64{balance.VariantID, balance.BranchID}
	if _, ok := t.balances[k]; ok {
		return domain.ErrConstraintViolation
	}
	t.balances[k] = *balance
	return nil
}

func (t *memTx) ListValuedByBranch(_ context.Context, _ int64) ([]entity.BranchInventoryRow, error) {
	return nil, errors.New("no soportado en memTx")
}

func (t *memTx) Append(_ context.Context, entry *entity.LedgerEntry) error {
	if t.store.failAppend != nil {
		return t.store.failAppend
	}
	entry.ID = t.nextID
	entry.CreatedAt = time.Now()
	t.nextID++
	t.appended = append(t.appended, *entry)
	return nil
}

func (t *memTx) GetByID(_ context.Context, id int64) (*entity.LedgerEntry, error) {
	for _, e := range append(t.store.ledger, t.appended...) {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (t *memTx) List(_ context.Context, _ repository.LedgerFilter) ([]entity.LedgerEntry, error) {
	out := append([]entity.LedgerEntry(nil), t.store.ledger...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
