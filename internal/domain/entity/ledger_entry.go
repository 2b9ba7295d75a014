package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del libro de inventario.
const (
	LedgerKindSale       = "SALE"       // venta
	LedgerKindWriteOff   = "WRITE_OFF"  // baja (daño, pérdida, uso interno)
	LedgerKindAdjustment = "ADJUSTMENT" // ajuste absoluto (conteo físico)
)

// LedgerEntry es el registro inmutable de un evento que afecta el stock.
// Quantity es siempre positiva (en ajustes, el valor absoluto del delta);
// Delta guarda el cambio con signo aplicado al saldo.
type LedgerEntry struct {
	ID        int64
	VariantID int64
	BranchID  int64
	ReasonID  int64
	UserID    int64
	Kind      string
	Quantity  int64
	Delta     int64
	UnitPrice decimal.Decimal // cero en bajas y ajustes
	CreatedAt time.Time
}
