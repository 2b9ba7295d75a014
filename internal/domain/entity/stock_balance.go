package entity

import "time"

// StockBalance representa el stock actual de una variante en una sucursal.
// Existe a lo sumo una fila por par (variante, sucursal) y Quantity nunca es negativa.
type StockBalance struct {
	VariantID int64
	BranchID  int64
	Quantity  int64
	UpdatedAt time.Time
}
