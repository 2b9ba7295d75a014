package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterSaleRequest body para POST /api/inventory/sales.
// Se acepta el motivo por etiqueta (reason) o por id (reason_id).
// UnitPrice es puntero: una venta sin precio se rechaza, "0" sí es válido.
type RegisterSaleRequest struct {
	VariantID int64            `json:"variant_id" validate:"required,gt=0"`
	BranchID  int64            `json:"branch_id" validate:"required,gt=0"`
	Reason    string           `json:"reason,omitempty" validate:"required_without=ReasonID,max=100"`
	ReasonID  int64            `json:"reason_id,omitempty" validate:"omitempty,gt=0"`
	Quantity  int64            `json:"quantity" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"required"`
}

// RegisterWriteOffRequest body para POST /api/inventory/write-offs.
type RegisterWriteOffRequest struct {
	VariantID int64  `json:"variant_id" validate:"required,gt=0"`
	BranchID  int64  `json:"branch_id" validate:"required,gt=0"`
	Reason    string `json:"reason,omitempty" validate:"required_without=ReasonID,max=100"`
	ReasonID  int64  `json:"reason_id,omitempty" validate:"omitempty,gt=0"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

// AdjustInventoryRequest body para POST /api/inventory/adjustments.
// NewQuantity es puntero para distinguir "0" de "ausente".
type AdjustInventoryRequest struct {
	VariantID   int64  `json:"variant_id" validate:"required,gt=0"`
	BranchID    int64  `json:"branch_id" validate:"required,gt=0"`
	Reason      string `json:"reason,omitempty" validate:"required_without=ReasonID,max=100"`
	ReasonID    int64  `json:"reason_id,omitempty" validate:"omitempty,gt=0"`
	NewQuantity *int64 `json:"new_quantity" validate:"required,gte=0"`
}

// MovementResultResponse respuesta de las operaciones del libro de inventario.
type MovementResultResponse struct {
	LedgerID          int64 `json:"ledger_id"`
	ResultingQuantity int64 `json:"resulting_quantity"`
}

// BranchInventoryItem fila valorizada del inventario de una sucursal.
type BranchInventoryItem struct {
	VariantID     int64           `json:"variant_id"`
	ProductID     int64           `json:"product_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode"`
	Model         string          `json:"model,omitempty"`
	Color         string          `json:"color,omitempty"`
	Quantity      int64           `json:"quantity"`
	UnitSalePrice decimal.Decimal `json:"unit_sale_price"`
	ValuedTotal   decimal.Decimal `json:"valued_total"` // Quantity * UnitSalePrice
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductInventory agrega las variantes de un producto maestro dentro de una sucursal.
type ProductInventory struct {
	ProductID     int64                 `json:"product_id"`
	SKU           string                `json:"sku"`
	Name          string                `json:"name"`
	TotalQuantity int64                 `json:"total_quantity"`
	TotalValue    decimal.Decimal       `json:"total_value"`
	Variants      []BranchInventoryItem `json:"variants"`
}

// BranchResponse salida de una sucursal activa.
type BranchResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

// ReasonResponse salida de un motivo de transacción.
type ReasonResponse struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// LedgerEntryResponse salida de una entrada del libro de inventario.
type LedgerEntryResponse struct {
	ID        int64           `json:"id"`
	VariantID int64           `json:"variant_id"`
	BranchID  int64           `json:"branch_id"`
	ReasonID  int64           `json:"reason_id"`
	UserID    int64           `json:"user_id"`
	Kind      string          `json:"kind"`
	Quantity  int64           `json:"quantity"`
	Delta     int64           `json:"delta"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	CreatedAt time.Time       `json:"created_at"`
}

// LedgerListResponse lista paginada del historial.
type LedgerListResponse struct {
	Items []LedgerEntryResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
