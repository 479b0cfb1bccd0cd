package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Valid values for Producto.Categoria.
const (
	CategoriaTenis      = "Tenis"
	CategoriaPadel      = "Pádel"
	CategoriaAccesorios = "Accesorios"
)

// Producto is a catalog item of the store. Stock is materialized here but is
// only ever mutated through the inventory ledger (see MovimientoInventario).
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo      string    `gorm:"uniqueIndex;not null"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	// Money columns are decimal(10,2); never floats.
	PrecioCompra decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioVenta  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock        int             `gorm:"not null;default:0"`
	StockMinimo  int             `gorm:"not null;default:5"`
	Categoria    string          `gorm:"not null;default:'Accesorios'"`
	Marca        *string
	Talla        *string
	Color        *string
	// Imagen holds the stored file name; upload handling lives outside this service.
	Imagen    *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default pluralization for Spanish names.
func (Producto) TableName() string { return "productos" }

// NecesitaReponer reports whether the product is at or below its own minimum.
func (p *Producto) NecesitaReponer() bool { return p.Stock <= p.StockMinimo }
