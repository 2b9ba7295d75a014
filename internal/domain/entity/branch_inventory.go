package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BranchInventoryRow es una fila plana del JOIN stock + variante + producto maestro.
type BranchInventoryRow struct {
	VariantID     int64
	ProductID     int64
	SKU           string
	ProductName   string
	Barcode       string
	Model         string
	Color         string
	Quantity      int64
	UnitSalePrice decimal.Decimal
	UpdatedAt     time.Time
}
