package inventory_test

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/glamstock-api/internal/application/inventory"
	"github.com/jhoicas/glamstock-api/internal/domain"
	"github.com/jhoicas/glamstock-api/internal/domain/entity"
	"github.com/jhoicas/glamstock-api/pkg/logger"
)

const (
	testVariant = int64(7)
	testBranch  = int64(1)
	testUser    = int64(42)

	reasonVenta   = int64(1)
	reasonDano    = int64(2)
	reasonConteo  = int64(3)
	reasonUnknown = int64(99)
)

func testReasons() *inventory.ReasonRegistry {
	return inventory.NewReasonRegistry([]entity.Reason{
		{ID: reasonVenta, Label: "venta"},
		{ID: reasonDano, Label: "daño"},
		{ID: reasonConteo, Label: "conteo físico"},
		{ID: 4, Label: "uso interno"},
	})
}

func newEngine(t *testing.T, initial int64) (*inventory.LedgerEngine, *memStore) {
	t.Helper()
	store := newMemStore()
	store.seed(testVariant, testBranch, initial)
	return inventory.NewLedgerEngine(store, testReasons(), nil), store
}

func sale(qty int64, price string) inventory.SaleInput {
	return inventory.SaleInput{
		VariantID: testVariant, BranchID: testBranch, ReasonID: reasonVenta, UserID: testUser,
		Quantity: qty, UnitPrice: decimal.RequireFromString(price),
	}
}

func writeOff(qty int64) inventory.WriteOffInput {
	return inventory.WriteOffInput{
		VariantID: testVariant, BranchID: testBranch, ReasonID: reasonDano, UserID: testUser, Quantity: qty,
	}
}

func adjust(newQty int64) inventory.AdjustInput {
	return inventory.AdjustInput{
		VariantID: testVariant, BranchID: testBranch, ReasonID: reasonConteo, UserID: testUser, NewQuantity: newQty,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario completo: venta, baja rechazada, ajuste
// ──────────────────────────────────────────────────────────────────────────────

func TestLedgerEngine_VentaBajaYAjuste(t *testing.T) {
	engine, store := newEngine(t, 10)
	ctx := context.Background()

	// Venta de 4 a 25.00 → quedan 6
	res, err := engine.RegisterSale(ctx, sale(4, "25.00"))
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.ResultingQuantity)
	assert.Equal(t, int64(6), store.quantity(testVariant, testBranch))

	entries := store.entries()
	require.Len(t, entries, 1)
	assert.Equal(t, res.LedgerID, entries[0].ID)
	assert.Equal(t, entity.LedgerKindSale, entries[0].Kind)
	assert.Equal(t, int64(4), entries[0].Quantity)
	assert.Equal(t, int64(-4), entries[0].Delta)
	assert.True(t, decimal.RequireFromString("25").Equal(entries[0].UnitPrice))
	assert.Equal(t, testUser, entries[0].UserID)

	// Baja de 10 con solo 6 disponibles → rechazada sin cambios
	_, err = engine.RegisterWriteOff(ctx, writeOff(10))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(6), stockErr.Available)
	assert.Equal(t, int64(10), stockErr.Requested)
	assert.Contains(t, err.Error(), "disponible 6, solicitado 10")
	assert.Equal(t, int64(6), store.quantity(testVariant, testBranch))
	assert.Len(t, store.entries(), 1)

	// Ajuste a 20 → la entrada registra 14
	res, err = engine.AdjustAbsolute(ctx, adjust(20))
	require.NoError(t, err)
	assert.Equal(t, int64(20), res.ResultingQuantity)
	assert.Equal(t, int64(20), store.quantity(testVariant, testBranch))

	entries = store.entries()
	require.Len(t, entries, 2)
	last := entries[1]
	assert.Equal(t, entity.LedgerKindAdjustment, last.Kind)
	assert.Equal(t, int64(14), last.Quantity)
	assert.Equal(t, int64(14), last.Delta)
	assert.True(t, last.UnitPrice.IsZero())
	assert.Greater(t, last.ID, entries[0].ID)
}

func TestLedgerEngine_BajaRegistraPrecioCero(t *testing.T) {
	engine, store := newEngine(t, 5)

	res, err := engine.RegisterWriteOff(context.Background(), writeOff(5))
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.ResultingQuantity)

	entries := store.entries()
	require.Len(t, entries, 1)
	assert.Equal(t, entity.LedgerKindWriteOff, entries[0].Kind)
	assert.True(t, entries[0].UnitPrice.IsZero())
	assert.Equal(t, reasonDano, entries[0].ReasonID)
}

func TestLedgerEngine_VentaExactaDejaCero(t *testing.T) {
	engine, store := newEngine(t, 3)

	res, err := engine.RegisterSale(context.Background(), sale(3, "10"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.ResultingQuantity)
	assert.Equal(t, int64(0), store.quantity(testVariant, testBranch))
}

func TestLedgerEngine_AjusteHaciaAbajoDeltaNegativo(t *testing.T) {
	engine, store := newEngine(t, 10)

	_, err := engine.AdjustAbsolute(context.Background(), adjust(4))
	require.NoError(t, err)

	entries := store.entries()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(6), entries[0].Quantity)
	assert.Equal(t, int64(-6), entries[0].Delta)
}

// Un ajuste que no cambia nada igual deja rastro en el libro.
func TestLedgerEngine_AjusteSinDiferenciaSeRegistra(t *testing.T) {
	engine, store := newEngine(t, 8)

	res, err := engine.AdjustAbsolute(context.Background(), adjust(8))
	require.NoError(t, err)
	assert.Equal(t, int64(8), res.ResultingQuantity)

	entries := store.entries()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(0), entries[0].Quantity)
	assert.Equal(t, int64(0), entries[0].Delta)
}

// Repetir el mismo ajuste deja el mismo saldo pero cada llamada tiene su propia entrada.
func TestLedgerEngine_AjusteRepetidoMismoSaldoDistintasEntradas(t *testing.T) {
	engine, store := newEngine(t, 8)
	ctx := context.Background()

	first, err := engine.AdjustAbsolute(ctx, adjust(12))
	require.NoError(t, err)
	second, err := engine.AdjustAbsolute(ctx, adjust(12))
	require.NoError(t, err)

	assert.Equal(t, int64(12), first.ResultingQuantity)
	assert.Equal(t, first.ResultingQuantity, second.ResultingQuantity)
	assert.NotEqual(t, first.LedgerID, second.LedgerID)

	entries := store.entries()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(4), entries[0].Delta)
	assert.Equal(t, int64(0), entries[1].Delta)
}

// Un precio con cero decimales de más no se rechaza.
func TestLedgerEngine_PrecioConCerosFinalesEsValido(t *testing.T) {
	engine, store := newEngine(t, 5)

	_, err := engine.RegisterSale(context.Background(), sale(1, "9.9900"))
	require.NoError(t, err)
	entries := store.entries()
	require.Len(t, entries, 1)
	assert.True(t, decimal.RequireFromString("9.99").Equal(entries[0].UnitPrice))
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores de negocio: sin mutación y sin entrada en el libro
// ──────────────────────────────────────────────────────────────────────────────

func TestLedgerEngine_ErroresDeNegocio(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		run     func(e *inventory.LedgerEngine) error
		wantErr error
	}{
		{"venta sin fila de stock", func(e *inventory.LedgerEngine) error {
			in := sale(1, "1")
			in.BranchID = 2
			_, err := e.RegisterSale(ctx, in)
			return err
		}, domain.ErrNotFound},
		{"ajuste sin fila de stock", func(e *inventory.LedgerEngine) error {
			in := adjust(3)
			in.VariantID = 8
			_, err := e.AdjustAbsolute(ctx, in)
			return err
		}, domain.ErrNotFound},
		{"motivo desconocido", func(e *inventory.LedgerEngine) error {
			in := sale(1, "1")
			in.ReasonID = reasonUnknown
			_, err := e.RegisterSale(ctx, in)
			return err
		}, domain.ErrUnknownReason},
		{"baja con motivo desconocido", func(e *inventory.LedgerEngine) error {
			in := writeOff(1)
			in.ReasonID = reasonUnknown
			_, err := e.RegisterWriteOff(ctx, in)
			return err
		}, domain.ErrUnknownReason},
		{"cantidad cero", func(e *inventory.LedgerEngine) error {
			_, err := e.RegisterSale(ctx, sale(0, "1"))
			return err
		}, domain.ErrInvalidInput},
		{"cantidad negativa", func(e *inventory.LedgerEngine) error {
			_, err := e.RegisterWriteOff(ctx, writeOff(-2))
			return err
		}, domain.ErrInvalidInput},
		{"precio negativo", func(e *inventory.LedgerEngine) error {
			_, err := e.RegisterSale(ctx, sale(1, "-0.01"))
			return err
		}, domain.ErrInvalidInput},
		{"precio con tres decimales", func(e *inventory.LedgerEngine) error {
			_, err := e.RegisterSale(ctx, sale(1, "9.999"))
			return err
		}, domain.ErrInvalidInput},
		{"ajuste negativo", func(e *inventory.LedgerEngine) error {
			_, err := e.AdjustAbsolute(ctx, adjust(-1))
			return err
		}, domain.ErrInvalidInput},
		{"sin usuario", func(e *inventory.LedgerEngine) error {
			in := sale(1, "1")
			in.UserID = 0
			_, err := e.RegisterSale(ctx, in)
			return err
		}, domain.ErrInvalidInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine, store := newEngine(t, 5)
			err := tc.run(engine)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.NotErrorIs(t, err, domain.ErrStoreFailure)
			assert.Equal(t, int64(5), store.quantity(testVariant, testBranch))
			assert.Empty(t, store.entries())
		})
	}
}

// Un fallo del almacenamiento a mitad de la unidad de trabajo revierte el saldo.
func TestLedgerEngine_FalloDeAlmacenamientoRevierte(t *testing.T) {
	engine, store := newEngine(t, 10)
	store.failAppend = errors.New("conexión perdida")

	_, err := engine.RegisterSale(context.Background(), sale(4, "25"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreFailure)
	assert.Contains(t, err.Error(), "conexión perdida")
	assert.Equal(t, int64(10), store.quantity(testVariant, testBranch))
	assert.Empty(t, store.entries())

	store.failAppend = nil
	res, err := engine.RegisterSale(context.Background(), sale(4, "25"))
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.ResultingQuantity)
}

func TestLedgerEngine_ContextoCanceladoEsFalloDeAlmacenamiento(t *testing.T) {
	engine, store := newEngine(t, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.AdjustAbsolute(ctx, adjust(2))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreFailure)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(10), store.quantity(testVariant, testBranch))
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: nunca se vende más de lo disponible
// ──────────────────────────────────────────────────────────────────────────────

func TestLedgerEngine_VentasConcurrentesNoSobrevenden(t *testing.T) {
	const (
		initial = 30
		workers = 50
	)
	engine, store := newEngine(t, initial)

	var ok, rejected atomic.Int64
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			_, err := engine.RegisterSale(context.Background(), sale(1, "9.90"))
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(initial), ok.Load())
	assert.Equal(t, int64(workers-initial), rejected.Load())
	assert.Equal(t, int64(0), store.quantity(testVariant, testBranch))
	assert.Len(t, store.entries(), initial)
}

// Ventas concurrentes de distintas cantidades que suman justo el disponible: todas pasan.
func TestLedgerEngine_VentasConcurrentesAgotanExacto(t *testing.T) {
	quantities := []int64{1, 2, 3, 4, 5, 1, 2, 3, 4, 5}
	var initial int64
	for _, q := range quantities {
		initial += q
	}
	engine, store := newEngine(t, initial)

	var g errgroup.Group
	for _, q := range quantities {
		g.Go(func() error {
			_, err := engine.RegisterSale(context.Background(), sale(q, "9.90"))
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(0), store.quantity(testVariant, testBranch))
	entries := store.entries()
	require.Len(t, entries, len(quantities))
	var sold int64
	for _, e := range entries {
		sold += e.Quantity
	}
	assert.Equal(t, initial, sold)
	assert.Equal(t, int64(0), inventory.Replay(initial, entries))
}

// El saldo actual siempre es reproducible desde el saldo inicial y los deltas del libro.
func TestLedgerEngine_ReplayReproduceSaldo(t *testing.T) {
	engine, store := newEngine(t, 10)
	ctx := context.Background()

	_, _ = engine.RegisterSale(ctx, sale(3, "12.50"))
	_, _ = engine.RegisterWriteOff(ctx, writeOff(50)) // rechazada
	_, _ = engine.AdjustAbsolute(ctx, adjust(15))
	_, _ = engine.RegisterWriteOff(ctx, writeOff(2))
	_, _ = engine.RegisterSale(ctx, sale(13, "12.50"))
	_, _ = engine.AdjustAbsolute(ctx, adjust(0))

	entries := store.entries()
	require.Len(t, entries, 5)
	assert.Equal(t, store.quantity(testVariant, testBranch), inventory.Replay(10, entries))
	for i := 1; i < len(entries); i++ {
		assert.Greater(t, entries[i].ID, entries[i-1].ID, "ids estrictamente crecientes")
	}
}

func TestLedgerEngine_LogueaMovimientoComprometido(t *testing.T) {
	store := newMemStore()
	store.seed(testVariant, testBranch, 10)
	var buf bytes.Buffer
	engine := inventory.NewLedgerEngine(store, testReasons(), logger.NewWriter(&buf, "info"))

	_, err := engine.RegisterSale(context.Background(), sale(2, "5"))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"kind":"SALE"`)
	assert.Contains(t, out, `"variant_id":7`)
	assert.Contains(t, out, `"resulting_quantity":8`)
}
