package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale states. A sale is created "pendiente", becomes "completada" when its
// lines and ledger movements commit, and "anulada" is the only terminal
// reversal state. Sales are never deleted.
const (
	EstadoVentaPendiente  = "pendiente"
	EstadoVentaCompletada = "completada"
	EstadoVentaAnulada    = "anulada"
)

// Payment method labels. Recorded as-is; no payment processing happens here.
const (
	MetodoPagoEfectivo      = "efectivo"
	MetodoPagoTarjeta       = "tarjeta"
	MetodoPagoTransferencia = "transferencia"
)

// Venta is the append-only financial record of a sale.
// Invariant: when Estado is "completada", Total equals the sum of its
// detalles' subtotals.
type Venta struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// Numero is a human-friendly sequential ticket number (postgres sequence).
	Numero     int             `gorm:"uniqueIndex;not null"`
	Total      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Estado     string          `gorm:"type:varchar(20);not null;default:'pendiente';index"`
	MetodoPago string          `gorm:"type:varchar(20);not null"`
	Notas      *string
	UsuarioID  uuid.UUID  `gorm:"type:uuid;not null"`
	ClienteID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt  time.Time  `gorm:"index"`
	UpdatedAt  time.Time

	Detalles []DetalleVenta `gorm:"foreignKey:VentaID;constraint:OnDelete:CASCADE"`
	Usuario  *Usuario       `gorm:"foreignKey:UsuarioID"`
	Cliente  *Cliente       `gorm:"foreignKey:ClienteID"`
}

func (Venta) TableName() string { return "ventas" }

// DetalleVenta is one line of a sale: quantity and the unit price snapshotted
// at sale time, immutable after creation. The product FK is RESTRICT so a
// product referenced by any sale cannot be hard-deleted.
type DetalleVenta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID;constraint:OnDelete:RESTRICT"`
}

func (DetalleVenta) TableName() string { return "detalle_ventas" }
