package repository

import (
	"context"
	"strconv"

	"github.com/19kjuan/invetario-proyecto/internal/model"

	"gorm.io/gorm"
)

// ConfiguracionRepository reads store-level settings from the key/value table.
type ConfiguracionRepository interface {
	Get(ctx context.Context, clave, fallback string) string
	GetInt(ctx context.Context, clave string, fallback int) int
}

type configuracionRepo struct{ db *gorm.DB }

func NewConfiguracionRepository(db *gorm.DB) ConfiguracionRepository {
	return &configuracionRepo{db: db}
}

func (r *configuracionRepo) Get(ctx context.Context, clave, fallback string) string {
	var c model.Configuracion
	if err := r.db.WithContext(ctx).Where("clave = ?", clave).First(&c).Error; err != nil {
		return fallback
	}
	return c.Valor
}

func (r *configuracionRepo) GetInt(ctx context.Context, clave string, fallback int) int {
	v, err := strconv.Atoi(r.Get(ctx, clave, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return v
}
