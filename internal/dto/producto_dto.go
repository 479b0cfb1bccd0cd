package dto

import "github.com/shopspring/decimal"

// ProductoFilter is bound from the query string of GET /v1/productos.
type ProductoFilter struct {
	Codigo    string `form:"codigo"`
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria" validate:"omitempty,oneof=Tenis Pádel Accesorios"`
	Activo    string `form:"activo"` // "false" = inactivos, "all" = todos, default activos
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CrearProductoRequest struct {
	Codigo       string          `json:"codigo"        validate:"required,max=20"`
	Nombre       string          `json:"nombre"        validate:"required,max=100"`
	Descripcion  *string         `json:"descripcion"`
	PrecioCompra decimal.Decimal `json:"precio_compra" validate:"min=0"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"  validate:"min=0"`
	StockInicial int             `json:"stock_inicial" validate:"min=0"`
	StockMinimo  int             `json:"stock_minimo"  validate:"min=0"`
	Categoria    string          `json:"categoria"     validate:"required,oneof=Tenis Pádel Accesorios"`
	Marca        *string         `json:"marca"`
	Talla        *string         `json:"talla"`
	Color        *string         `json:"color"`
}

// ActualizarProductoRequest uses pointers so absent fields are left untouched.
// Stock is intentionally not updatable here — stock only changes through the
// inventory ledger.
type ActualizarProductoRequest struct {
	Nombre       *string          `json:"nombre"        validate:"omitempty,max=100"`
	Descripcion  *string          `json:"descripcion"`
	PrecioCompra *decimal.Decimal `json:"precio_compra" validate:"omitempty,min=0"`
	PrecioVenta  *decimal.Decimal `json:"precio_venta"  validate:"omitempty,min=0"`
	StockMinimo  *int             `json:"stock_minimo"  validate:"omitempty,min=0"`
	Categoria    *string          `json:"categoria"     validate:"omitempty,oneof=Tenis Pádel Accesorios"`
	Marca        *string          `json:"marca"`
	Talla        *string          `json:"talla"`
	Color        *string          `json:"color"`
}

type ProductoResponse struct {
	ID           string          `json:"id"`
	Codigo       string          `json:"codigo"`
	Nombre       string          `json:"nombre"`
	Descripcion  *string         `json:"descripcion,omitempty"`
	PrecioCompra decimal.Decimal `json:"precio_compra"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
	Stock        int             `json:"stock"`
	StockMinimo  int             `json:"stock_minimo"`
	Categoria    string          `json:"categoria"`
	Marca        *string         `json:"marca,omitempty"`
	Talla        *string         `json:"talla,omitempty"`
	Color        *string         `json:"color,omitempty"`
	Activo       bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// PrecioResponse is the public price-check payload (redis-cached).
type PrecioResponse struct {
	Codigo      string          `json:"codigo"`
	Nombre      string          `json:"nombre"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
}
