package service

import "errors"

// Sentinel errors let handlers map outcomes to HTTP statuses with errors.Is
// while keeping the user-facing message on the wrapped error.
var (
	// ErrValidacion: rejected before any transaction opens; nothing written.
	ErrValidacion = errors.New("solicitud invalida")
	// ErrNoEncontrado: the referenced record does not exist.
	ErrNoEncontrado = errors.New("no encontrado")
	// ErrVentaTerminal: the sale is already voided; voiding is not repeatable.
	ErrVentaTerminal = errors.New("la venta ya está anulada")
	// ErrStockInsuficiente: only raised when oversell is disabled by config.
	ErrStockInsuficiente = errors.New("stock insuficiente")
)
