package service

import (
	"context"
	"fmt"

	"github.com/19kjuan/invetario-proyecto/internal/dto"
	"github.com/19kjuan/invetario-proyecto/internal/model"
	"github.com/19kjuan/invetario-proyecto/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventarioService is the inventory ledger: every stock change goes through
// it, producing exactly one append-only MovimientoInventario and applying the
// matching delta to productos.stock in the same unit of work.
type InventarioService interface {
	// RegistrarMovimientoTx appends a movement and applies its delta within
	// the CALLER's transaction, never opening its own. delta is signed;
	// the stored Cantidad is its magnitude.
	RegistrarMovimientoTx(tx *gorm.DB, productoID uuid.UUID, tipo string, delta int, notas string, usuarioID uuid.UUID, ventaID *uuid.UUID) (*model.MovimientoInventario, error)
	// RegistrarEntrada records goods received (stock intake).
	RegistrarEntrada(ctx context.Context, usuarioID uuid.UUID, req dto.EntradaStockRequest) (*dto.MovimientoResponse, error)
	// AjustarStock sets the absolute stock of a product, recording the delta
	// versus current stock as an "ajuste" movement. A request that matches the
	// current stock writes nothing and reports Ajustado=false.
	AjustarStock(ctx context.Context, usuarioID uuid.UUID, req dto.AjusteStockRequest) (*dto.AjusteStockResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
	// ObtenerAlertas lists active products at or below their own minimum.
	ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error)
}

type inventarioService struct {
	productoRepo   repository.ProductoRepository
	movimientoRepo repository.MovimientoRepository
}

func NewInventarioService(productoRepo repository.ProductoRepository, movimientoRepo repository.MovimientoRepository) InventarioService {
	return &inventarioService{productoRepo: productoRepo, movimientoRepo: movimientoRepo}
}

func (s *inventarioService) RegistrarMovimientoTx(tx *gorm.DB, productoID uuid.UUID, tipo string, delta int, notas string, usuarioID uuid.UUID, ventaID *uuid.UUID) (*model.MovimientoInventario, error) {
	// Row lock: the before/after snapshot and the delta must agree even when
	// two sales hit the same product at once.
	p, err := s.productoRepo.FindByIDLockTx(tx, productoID)
	if err != nil {
		return nil, fmt.Errorf("producto %s: %w", productoID, err)
	}

	if err := s.productoRepo.UpdateStockTx(tx, productoID, delta); err != nil {
		return nil, fmt.Errorf("actualizar stock de %s: %w", p.Nombre, err)
	}

	cantidad := delta
	if cantidad < 0 {
		cantidad = -cantidad
	}
	mov := &model.MovimientoInventario{
		Tipo:          tipo,
		Cantidad:      cantidad,
		StockAnterior: p.Stock,
		StockNuevo:    p.Stock + delta,
		ProductoID:    productoID,
		UsuarioID:     usuarioID,
		VentaID:       ventaID,
	}
	if notas != "" {
		mov.Notas = &notas
	}
	if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
		return nil, fmt.Errorf("registrar movimiento: %w", err)
	}
	return mov, nil
}

func (s *inventarioService) RegistrarEntrada(ctx context.Context, usuarioID uuid.UUID, req dto.EntradaStockRequest) (*dto.MovimientoResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("%w: producto_id invalido", ErrValidacion)
	}
	if _, err := s.productoRepo.FindByID(ctx, productoID); err != nil {
		return nil, fmt.Errorf("%w: producto %s", ErrNoEncontrado, req.ProductoID)
	}

	notas := ""
	if req.Notas != nil {
		notas = *req.Notas
	}

	var mov *model.MovimientoInventario
	txErr := runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		var err error
		mov, err = s.RegistrarMovimientoTx(tx, productoID, model.MovimientoEntrada, req.Cantidad, notas, usuarioID, nil)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}
	return movimientoToResponse(mov), nil
}

func (s *inventarioService) AjustarStock(ctx context.Context, usuarioID uuid.UUID, req dto.AjusteStockRequest) (*dto.AjusteStockResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("%w: producto_id invalido", ErrValidacion)
	}
	if _, err := s.productoRepo.FindByID(ctx, productoID); err != nil {
		return nil, fmt.Errorf("%w: producto %s", ErrNoEncontrado, req.ProductoID)
	}

	notas := "Ajuste manual de inventario"
	if req.Notas != nil && *req.Notas != "" {
		notas = *req.Notas
	}

	resp := &dto.AjusteStockResponse{ProductoID: req.ProductoID}
	txErr := runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		// Delta is computed against the locked row inside the transaction, not
		// against a stale earlier read.
		p, err := s.productoRepo.FindByIDLockTx(tx, productoID)
		if err != nil {
			return err
		}
		delta := req.StockNuevo - p.Stock
		if delta == 0 {
			// Nothing to correct; no movement is written.
			resp.Stock = p.Stock
			return nil
		}
		mov, err := s.RegistrarMovimientoTx(tx, productoID, model.MovimientoAjuste, delta, notas, usuarioID, nil)
		if err != nil {
			return err
		}
		resp.Stock = mov.StockNuevo
		resp.Ajustado = true
		resp.Movimiento = movimientoToResponse(mov)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return resp, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	movimientos, total, err := s.movimientoRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovimientoResponse, 0, len(movimientos))
	for i := range movimientos {
		items = append(items, *movimientoToResponse(&movimientos[i]))
	}
	return &dto.MovimientoListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *inventarioService) ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	productos, _, err := s.productoRepo.List(ctx, dto.ProductoFilter{Page: 1, Limit: 1000})
	if err != nil {
		return nil, err
	}
	alertas := make([]dto.AlertaStockResponse, 0)
	for i := range productos {
		p := &productos[i]
		if p.NecesitaReponer() {
			alertas = append(alertas, dto.AlertaStockResponse{
				ProductoID:  p.ID.String(),
				Codigo:      p.Codigo,
				Nombre:      p.Nombre,
				Stock:       p.Stock,
				StockMinimo: p.StockMinimo,
			})
		}
	}
	return alertas, nil
}

func movimientoToResponse(m *model.MovimientoInventario) *dto.MovimientoResponse {
	resp := &dto.MovimientoResponse{
		ID:            m.ID.String(),
		Tipo:          m.Tipo,
		Cantidad:      m.Cantidad,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		Notas:         m.Notas,
		ProductoID:    m.ProductoID.String(),
		UsuarioID:     m.UsuarioID.String(),
		CreatedAt:     m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if m.Producto != nil {
		resp.Producto = m.Producto.Nombre
	}
	if m.VentaID != nil {
		id := m.VentaID.String()
		resp.VentaID = &id
	}
	return resp
}
