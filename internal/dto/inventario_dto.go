package dto

// EntradaStockRequest records goods received into stock.
type EntradaStockRequest struct {
	ProductoID string  `json:"producto_id" validate:"required,uuid"`
	Cantidad   int     `json:"cantidad"    validate:"required,min=1"`
	Notas      *string `json:"notas"`
}

// AjusteStockRequest sets the absolute stock of a product; the ledger records
// the delta versus current stock as an "ajuste" movement.
type AjusteStockRequest struct {
	ProductoID string  `json:"producto_id" validate:"required,uuid"`
	StockNuevo int     `json:"stock_nuevo" validate:"min=0"`
	Notas      *string `json:"notas"`
}

// MovimientoFilter is bound from the query string of GET /v1/inventario/movimientos.
type MovimientoFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	Tipo       string `form:"tipo"        validate:"omitempty,oneof=entrada salida ajuste devolucion"`
	Page       int    `form:"page,default=1"    validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type MovimientoResponse struct {
	ID            string  `json:"id"`
	Tipo          string  `json:"tipo"`
	Cantidad      int     `json:"cantidad"`
	StockAnterior int     `json:"stock_anterior"`
	StockNuevo    int     `json:"stock_nuevo"`
	Notas         *string `json:"notas,omitempty"`
	ProductoID    string  `json:"producto_id"`
	Producto      string  `json:"producto,omitempty"`
	UsuarioID     string  `json:"usuario_id"`
	VentaID       *string `json:"venta_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// AjusteStockResponse reports the outcome of a stock adjustment. Movimiento
// is absent when the counted stock matched the recorded one and no ledger
// entry was written.
type AjusteStockResponse struct {
	ProductoID string              `json:"producto_id"`
	Stock      int                 `json:"stock"`
	Ajustado   bool                `json:"ajustado"`
	Movimiento *MovimientoResponse `json:"movimiento,omitempty"`
}

type MovimientoListResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// AlertaStockResponse flags a product at or below its minimum stock.
type AlertaStockResponse struct {
	ProductoID  string `json:"producto_id"`
	Codigo      string `json:"codigo"`
	Nombre      string `json:"nombre"`
	Stock       int    `json:"stock"`
	StockMinimo int    `json:"stock_minimo"`
}
