package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is an optional participant of a sale; a sale does not require one.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	Apellido  *string
	Email     *string `gorm:"uniqueIndex"`
	Telefono  *string
	Direccion *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cliente) TableName() string { return "clientes" }
