package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from the query string of GET /v1/ventas.
type VentaFilter struct {
	Desde      string `form:"desde"`  // YYYY-MM-DD; empty = first day of month
	Hasta      string `form:"hasta"`  // YYYY-MM-DD; empty = today
	Estado     string `form:"estado"` // pendiente | completada | anulada | all
	MetodoPago string `form:"metodo_pago"`
	ClienteID  string `form:"cliente_id"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DetalleVentaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

// RegistrarVentaRequest is the payload of POST /v1/ventas. Unit prices are
// deliberately absent: they are looked up server-side at sale time.
type RegistrarVentaRequest struct {
	MetodoPago string                `json:"metodo_pago" validate:"required,oneof=efectivo tarjeta transferencia"`
	ClienteID  *string               `json:"cliente_id"  validate:"omitempty,uuid"`
	Notas      *string               `json:"notas"`
	Detalles   []DetalleVentaRequest `json:"detalles"    validate:"required,min=1,dive"`
}

// AnularVentaRequest is the optional body of DELETE /v1/ventas/{id}; without
// it the void is recorded with a default reason.
type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"omitempty,min=5"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID         string                 `json:"id"`
	Numero     int                    `json:"numero"`
	Total      decimal.Decimal        `json:"total"`
	Estado     string                 `json:"estado"`
	MetodoPago string                 `json:"metodo_pago"`
	Notas      *string                `json:"notas,omitempty"`
	ClienteID  *string                `json:"cliente_id,omitempty"`
	UsuarioID  string                 `json:"usuario_id"`
	Detalles   []DetalleVentaResponse `json:"detalles"`
	CreatedAt  string                 `json:"created_at"`
}
