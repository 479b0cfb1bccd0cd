package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement types. Entrada/devolucion add stock, salida removes it; ajuste may
// go either way (the sign lives in the before/after snapshot, Cantidad is
// always the positive magnitude).
const (
	MovimientoEntrada    = "entrada"
	MovimientoSalida     = "salida"
	MovimientoAjuste     = "ajuste"
	MovimientoDevolucion = "devolucion"
)

// MovimientoInventario is the append-only audit trail of every stock change.
// Rows are never updated or deleted after creation.
type MovimientoInventario struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo string    `gorm:"type:varchar(20);not null;index"`
	// Cantidad is the positive magnitude of the change.
	Cantidad      int `gorm:"not null"`
	StockAnterior int `gorm:"not null"`
	StockNuevo    int `gorm:"not null"`
	Notas         *string
	ProductoID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	UsuarioID     uuid.UUID  `gorm:"type:uuid;not null"`
	VentaID       *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt     time.Time  `gorm:"index"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Usuario  *Usuario  `gorm:"foreignKey:UsuarioID"`
	Venta    *Venta    `gorm:"foreignKey:VentaID"`
}

func (MovimientoInventario) TableName() string { return "movimientos_inventario" }
