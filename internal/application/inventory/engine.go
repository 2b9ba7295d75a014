package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/glamstock-api/internal/domain"
	"github.com/jhoicas/glamstock-api/internal/domain/entity"
	"github.com/jhoicas/glamstock-api/internal/domain/repository"
	"github.com/jhoicas/glamstock-api/pkg/logger"
)

const tracerName = "github.com/jhoicas/glamstock-api/internal/application/inventory"

// priceScale decimales admitidos en el precio unitario de una venta.
const priceScale = 2

// SaleInput entrada para RegisterSale.
type SaleInput struct {
	VariantID int64
	BranchID  int64
	ReasonID  int64
	UserID    int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

// WriteOffInput entrada para RegisterWriteOff (bajas por daño, uso interno, pérdida...).
type WriteOffInput struct {
	VariantID int64
	BranchID  int64
	ReasonID  int64
	UserID    int64
	Quantity  int64
}

// AdjustInput entrada para AdjustAbsolute. NewQuantity es el conteo físico.
type AdjustInput struct {
	VariantID   int64
	BranchID    int64
	ReasonID    int64
	UserID      int64
	NewQuantity int64
}

// Result identifica la entrada de libro creada y el saldo que quedó comprometido.
type Result struct {
	LedgerID          int64
	ResultingQuantity int64
}

// LedgerEngine aplica ventas, bajas y ajustes sobre el saldo de (variante, sucursal).
// Cada operación es una sola transacción: bloquea la fila (SELECT FOR UPDATE), valida,
// actualiza el saldo y agrega la entrada al libro; o todo o nada.
type LedgerEngine struct {
	txRunner TxRunner
	reasons  *ReasonRegistry
	log      *logger.Logger
	tracer   trace.Tracer
}

// NewLedgerEngine construye el motor. log puede ser nil.
func NewLedgerEngine(txRunner TxRunner, reasons *ReasonRegistry, log *logger.Logger) *LedgerEngine {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerEngine{
		txRunner: txRunner,
		reasons:  reasons,
		log:      log,
		tracer:   otel.Tracer(tracerName),
	}
}

// RegisterSale descuenta stock por una venta y registra el precio unitario cobrado.
func (e *LedgerEngine) RegisterSale(ctx context.Context, in SaleInput) (Result, error) {
	if in.UnitPrice.IsNegative() {
		return Result{}, fmt.Errorf("%w: precio unitario negativo", domain.ErrInvalidInput)
	}
	// el libro guarda el precio con 2 decimales (NUMERIC(12,2) en Postgres)
	if !in.UnitPrice.Equal(in.UnitPrice.Round(priceScale)) {
		return Result{}, fmt.Errorf("%w: precio unitario con más de %d decimales", domain.ErrInvalidInput, priceScale)
	}
	return e.decrement(ctx, "RegisterSale", decrementInput{
		kind:      entity.LedgerKindSale,
		variantID: in.VariantID,
		branchID:  in.BranchID,
		reasonID:  in.ReasonID,
		userID:    in.UserID,
		quantity:  in.Quantity,
		unitPrice: in.UnitPrice,
	})
}

// RegisterWriteOff descuenta stock sin venta; la entrada queda con precio 0.
func (e *LedgerEngine) RegisterWriteOff(ctx context.Context, in WriteOffInput) (Result, error) {
	return e.decrement(ctx, "RegisterWriteOff", decrementInput{
		kind:      entity.LedgerKindWriteOff,
		variantID: in.VariantID,
		branchID:  in.BranchID,
		reasonID:  in.ReasonID,
		userID:    in.UserID,
		quantity:  in.Quantity,
		unitPrice: decimal.Zero,
	})
}

type decrementInput struct {
	kind      string
	variantID int64
	branchID  int64
	reasonID  int64
	userID    int64
	quantity  int64
	unitPrice decimal.Decimal
}

func (e *LedgerEngine) decrement(ctx context.Context, op string, in decrementInput) (Result, error) {
	if err := validateKeys(in.variantID, in.branchID, in.userID); err != nil {
		return Result{}, err
	}
	if in.quantity <= 0 {
		return Result{}, fmt.Errorf("%w: la cantidad debe ser mayor que 0", domain.ErrInvalidInput)
	}
	if err := e.reasons.Validate(in.reasonID); err != nil {
		return Result{}, err
	}

	ctx, span := e.startSpan(ctx, op, in.variantID, in.branchID)
	defer span.End()
	span.SetAttributes(attribute.Int64("inventory.quantity", in.quantity))

	var res Result
	err := e.txRunner.Run(ctx, func(stockRepo repository.StockRepository, ledgerRepo repository.LedgerRepository) error {
		stock, err := stockRepo.GetForUpdate(ctx, in.variantID, in.branchID)
		if err != nil {
			return err
		}
		if in.quantity > stock.Quantity {
			return &domain.InsufficientStockError{Available: stock.Quantity, Requested: in.quantity}
		}
		newQty := stock.Quantity - in.quantity
		if err := stockRepo.UpdateQuantity(ctx, in.variantID, in.branchID, newQty); err != nil {
			return err
		}
		entry := &entity.LedgerEntry{
			VariantID: in.variantID,
			BranchID:  in.branchID,
			ReasonID:  in.reasonID,
			UserID:    in.userID,
			Kind:      in.kind,
			Quantity:  in.quantity,
			Delta:     -in.quantity,
			UnitPrice: in.unitPrice,
		}
		if err := ledgerRepo.Append(ctx, entry); err != nil {
			return err
		}
		res = Result{LedgerID: entry.ID, ResultingQuantity: newQty}
		return nil
	})
	if err != nil {
		return Result{}, e.fail(span, op, err)
	}

	e.committed(span, op, in.kind, in.variantID, in.branchID, in.reasonID, in.userID, -in.quantity, res)
	return res, nil
}

// AdjustAbsolute fija el saldo al conteo físico. La entrada registra |delta| como cantidad
// y el delta con signo; un ajuste sin diferencia también queda en el libro.
func (e *LedgerEngine) AdjustAbsolute(ctx context.Context, in AdjustInput) (Result, error) {
	const op = "AdjustAbsolute"
	if err := validateKeys(in.VariantID, in.BranchID, in.UserID); err != nil {
		return Result{}, err
	}
	if in.NewQuantity < 0 {
		return Result{}, fmt.Errorf("%w: la cantidad nueva no puede ser negativa", domain.ErrInvalidInput)
	}
	if err := e.reasons.Validate(in.ReasonID); err != nil {
		return Result{}, err
	}

	ctx, span := e.startSpan(ctx, op, in.VariantID, in.BranchID)
	defer span.End()
	span.SetAttributes(attribute.Int64("inventory.new_quantity", in.NewQuantity))

	var (
		res   Result
		delta int64
	)
	err := e.txRunner.Run(ctx, func(stockRepo repository.StockRepository, ledgerRepo repository.LedgerRepository) error {
		stock, err := stockRepo.GetForUpdate(ctx, in.VariantID, in.BranchID)
		if err != nil {
			return err
		}
		delta = in.NewQuantity - stock.Quantity
		if err := stockRepo.UpdateQuantity(ctx, in.VariantID, in.BranchID, in.NewQuantity); err != nil {
			return err
		}
		entry := &entity.LedgerEntry{
			VariantID: in.VariantID,
			BranchID:  in.BranchID,
			ReasonID:  in.ReasonID,
			UserID:    in.UserID,
			Kind:      entity.LedgerKindAdjustment,
			Quantity:  abs(delta),
			Delta:     delta,
			UnitPrice: decimal.Zero,
		}
		if err := ledgerRepo.Append(ctx, entry); err != nil {
			return err
		}
		res = Result{LedgerID: entry.ID, ResultingQuantity: in.NewQuantity}
		return nil
	})
	if err != nil {
		return Result{}, e.fail(span, op, err)
	}

	e.committed(span, op, entity.LedgerKindAdjustment, in.VariantID, in.BranchID, in.ReasonID, in.UserID, delta, res)
	return res, nil
}

func (e *LedgerEngine) startSpan(ctx context.Context, op string, variantID, branchID int64) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "inventory."+op, trace.WithAttributes(
		attribute.Int64("inventory.variant_id", variantID),
		attribute.Int64("inventory.branch_id", branchID),
	))
}

// fail traduce el error de la unidad de trabajo: los de negocio pasan tal cual, el resto es ErrStoreFailure.
func (e *LedgerEngine) fail(span trace.Span, op string, err error) error {
	err = domain.StoreFailure(op, err)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if !domain.IsBusinessError(err) {
		e.log.Warn().Err(err).Str("op", op).Msg("operación de inventario revertida")
	}
	return err
}

func (e *LedgerEngine) committed(span trace.Span, op, kind string, variantID, branchID, reasonID, userID, delta int64, res Result) {
	span.SetAttributes(attribute.Int64("inventory.ledger_id", res.LedgerID))
	e.log.Info().
		Str("op", op).
		Str("kind", kind).
		Int64("ledger_id", res.LedgerID).
		Int64("variant_id", variantID).
		Int64("branch_id", branchID).
		Int64("reason_id", reasonID).
		Int64("user_id", userID).
		Int64("delta", delta).
		Int64("resulting_quantity", res.ResultingQuantity).
		Msg("movimiento de inventario registrado")
}

func validateKeys(variantID, branchID, userID int64) error {
	if variantID <= 0 || branchID <= 0 {
		return fmt.Errorf("%w: variante y sucursal son obligatorias", domain.ErrInvalidInput)
	}
	if userID <= 0 {
		return fmt.Errorf("%w: usuario obligatorio", domain.ErrInvalidInput)
	}
	return nil
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
