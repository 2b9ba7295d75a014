package entity

// Reason es un motivo de transacción (venta, daño, pérdida, uso interno, ajuste por conteo...).
// Catálogo cerrado, sembrado externamente.
type Reason struct {
	ID    int64
	Label string
}
