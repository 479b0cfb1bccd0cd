package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario stores staff accounts. Authentication itself (login/session) is an
// external collaborator; this table exists so sales and movements can
// reference the acting user. Rol: "cajero" | "administrador".
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Rol          string    `gorm:"type:varchar(20);not null;default:'cajero'"`
	Activo       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Usuario) TableName() string { return "usuarios" }
