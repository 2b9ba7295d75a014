package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrUnknownReason       = errors.New("motivo de transacción desconocido")
	ErrInvalidBranch       = errors.New("sucursal inválida o inactiva")
	ErrConstraintViolation = errors.New("violación de restricción en el almacenamiento")
	// ErrStoreFailure es transitorio: la unidad de trabajo se revirtió completa y el caller puede reintentar.
	ErrStoreFailure = errors.New("fallo del almacenamiento")
)

// InsufficientStockError detalla el stock disponible frente al solicitado.
// errors.Is(err, ErrInsufficientStock) es verdadero.
type InsufficientStockError struct {
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: disponible %d, solicitado %d", ErrInsufficientStock, e.Available, e.Requested)
}

// Is permite comparar contra el sentinel ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// StoreFailure envuelve un error de infraestructura ocurrido dentro de la unidad de trabajo.
// Si err ya es un error de negocio se devuelve tal cual.
func StoreFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsBusinessError(err) || errors.Is(err, ErrStoreFailure) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreFailure, err)
}

// IsBusinessError indica si err es una violación de regla de negocio (determinista, no reintentable).
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnknownReason) ||
		errors.Is(err, ErrInvalidBranch) ||
		errors.Is(err, ErrInvalidInput)
}
