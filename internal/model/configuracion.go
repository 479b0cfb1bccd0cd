package model

import "github.com/google/uuid"

// Configuracion is a key/value table for store-level settings that operators
// can change without a deploy (e.g. "umbral_alerta_stock").
type Configuracion struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Clave       string    `gorm:"uniqueIndex;not null"`
	Valor       string
	Descripcion *string
}

func (Configuracion) TableName() string { return "configuraciones" }
