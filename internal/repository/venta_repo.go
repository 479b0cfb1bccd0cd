package repository

import (
	"context"
	"time"

	"github.com/19kjuan/invetario-proyecto/internal/dto"
	"github.com/19kjuan/invetario-proyecto/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	CreateDetalleTx(tx *gorm.DB, d *model.DetalleVenta) error
	// UpdateTotalesTx finalizes the sale inside the transaction that created it.
	UpdateTotalesTx(tx *gorm.DB, id uuid.UUID, total interface{}, estado string) error
	// AnularTx flips the sale to "anulada" only while it is still open.
	// Returns false when a concurrent request already voided it.
	AnularTx(tx *gorm.DB, id uuid.UUID, notas string) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	NextNumero(ctx context.Context, tx *gorm.DB) (int, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	DB() *gorm.DB // exposes the DB so the service layer can open transactions
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) CreateDetalleTx(tx *gorm.DB, d *model.DetalleVenta) error {
	return tx.Create(d).Error
}

func (r *ventaRepo) UpdateTotalesTx(tx *gorm.DB, id uuid.UUID, total interface{}, estado string) error {
	return tx.Model(&model.Venta{}).Where("id = ?", id).
		Updates(map[string]interface{}{"total": total, "estado": estado}).Error
}

func (r *ventaRepo) AnularTx(tx *gorm.DB, id uuid.UUID, notas string) (bool, error) {
	// The estado guard in the WHERE makes the void single-shot under
	// concurrency: the second updater blocks on the row lock, re-evaluates
	// after the first commits and matches zero rows.
	res := tx.Model(&model.Venta{}).
		Where("id = ? AND estado IN ?", id,
			[]string{model.EstadoVentaPendiente, model.EstadoVentaCompletada}).
		Updates(map[string]interface{}{"estado": model.EstadoVentaAnulada, "notas": notas})
	return res.RowsAffected > 0, res.Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").Preload("Cliente").
		First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	// Postgres sequence keeps numbering atomic across concurrent sales.
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('ventas_numero_seq')").Scan(&num).Error
	return num, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Venta{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.MetodoPago != "" {
		q = q.Where("metodo_pago = ?", filter.MetodoPago)
	}
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}

	// Date range defaults to the current month, like the store's sales screen.
	desde, hasta := rangoFechas(filter.Desde, filter.Hasta, time.Now())
	q = q.Where("created_at >= ? AND created_at < ?", desde, hasta)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Detalles.Producto").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error

	return ventas, total, err
}

// rangoFechas parses desde/hasta (YYYY-MM-DD) into a half-open interval,
// falling back to [first day of month, tomorrow). Bounds are midnights in
// now's location.
func rangoFechas(desde, hasta string, now time.Time) (time.Time, time.Time) {
	inicio := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	manana := now.AddDate(0, 0, 1)
	fin := time.Date(manana.Year(), manana.Month(), manana.Day(), 0, 0, 0, 0, now.Location())

	if d, err := time.ParseInLocation("2006-01-02", desde, now.Location()); err == nil {
		inicio = d
	}
	if h, err := time.ParseInLocation("2006-01-02", hasta, now.Location()); err == nil {
		fin = h.AddDate(0, 0, 1) // inclusive end date
	}
	return inicio, fin
}
