package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto maestro del catálogo (agrupa variantes).
type Product struct {
	ID        int64
	SKU       string // código único
	Name      string
	CreatedAt time.Time
}

// Variant presentación concreta de un producto (modelo/color) con su código de barras y precios.
// Es la unidad que se almacena y se vende.
type Variant struct {
	ID            int64
	ProductID     int64
	Barcode       string
	Model         string
	Color         string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal // precio de etiqueta; valoriza el inventario
	CreatedAt     time.Time
}
