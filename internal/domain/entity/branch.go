package entity

import "time"

// Branch representa una sucursal donde se almacena inventario.
// Su ciclo de vida lo administra el catálogo; aquí solo se lee.
type Branch struct {
	ID        int64
	Name      string
	Location  string
	Active    bool
	CreatedAt time.Time
}
