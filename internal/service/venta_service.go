package service

import (
	"context"
	"fmt"

	"github.com/19kjuan/invetario-proyecto/internal/dto"
	"github.com/19kjuan/invetario-proyecto/internal/model"
	"github.com/19kjuan/invetario-proyecto/internal/repository"
	"github.com/19kjuan/invetario-proyecto/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	AnularVenta(ctx context.Context, id, usuarioID uuid.UUID, motivo string) error
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

// VentaPolicy captures the two historically ambiguous sale behaviors as
// explicit switches (config-driven) instead of hard-coded leniency.
type VentaPolicy struct {
	// ItemsEstricto rejects the whole sale when a line references an unknown
	// product; false reproduces the historical silent per-line skip.
	ItemsEstricto bool
	// PermitirSobreventa lets stock go negative; false rejects the sale
	// before any write when a line would overdraw stock.
	PermitirSobreventa bool
}

type ventaService struct {
	repo         repository.VentaRepository
	inventario   InventarioService
	productoRepo repository.ProductoRepository
	clienteRepo  repository.ClienteRepository
	usuarioRepo  repository.UsuarioRepository
	dispatcher   *worker.Dispatcher
	policy       VentaPolicy
}

func NewVentaService(
	repo repository.VentaRepository,
	inventario InventarioService,
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	usuarioRepo repository.UsuarioRepository,
	dispatcher *worker.Dispatcher,
	policy VentaPolicy,
) VentaService {
	return &ventaService{
		repo:         repo,
		inventario:   inventario,
		productoRepo: productoRepo,
		clienteRepo:  clienteRepo,
		usuarioRepo:  usuarioRepo,
		dispatcher:   dispatcher,
		policy:       policy,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// One ACID transaction:
//  1. Create the venta in "pendiente" with total 0
//  2. Per line, in submitted order: lock the product row, snapshot its
//     current sale price (never taken from the client), create the detalle,
//     and write a "salida" ledger movement that decrements stock
//  3. Set total = sum of subtotals and estado = "completada"
//  4. COMMIT — any failure rolls back every write of the attempt
//  5. (async, best-effort) enqueue receipt PDF and low-stock alert jobs

func (s *ventaService) RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	if len(req.Detalles) == 0 {
		return nil, fmt.Errorf("%w: la venta no tiene detalles", ErrValidacion)
	}
	for _, d := range req.Detalles {
		if d.Cantidad < 1 {
			return nil, fmt.Errorf("%w: cantidad debe ser positiva", ErrValidacion)
		}
	}

	// Optional customer — validated up front, also yields the receipt email.
	var clienteID *uuid.UUID
	var clienteEmail *string
	if req.ClienteID != nil && *req.ClienteID != "" {
		cid, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("%w: cliente_id invalido", ErrValidacion)
		}
		cliente, err := s.clienteRepo.FindByID(ctx, cid)
		if err != nil {
			return nil, fmt.Errorf("%w: cliente %s", ErrNoEncontrado, *req.ClienteID)
		}
		clienteID = &cliente.ID
		clienteEmail = cliente.Email
	}

	type lineaVenta struct {
		productoID uuid.UUID
		cantidad   int
	}
	lineas := make([]lineaVenta, 0, len(req.Detalles))
	for _, d := range req.Detalles {
		pid, err := uuid.Parse(d.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("%w: producto_id invalido", ErrValidacion)
		}
		lineas = append(lineas, lineaVenta{productoID: pid, cantidad: d.Cantidad})
	}

	var venta model.Venta
	var alertas []uuid.UUID

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumero(ctx, tx)
		if err != nil {
			return err
		}

		venta = model.Venta{
			Numero:     numero,
			Total:      decimal.Zero,
			Estado:     model.EstadoVentaPendiente,
			MetodoPago: req.MetodoPago,
			Notas:      req.Notas,
			UsuarioID:  usuarioID,
			ClienteID:  clienteID,
		}
		if err := s.repo.CreateTx(tx, &venta); err != nil {
			return err
		}

		total := decimal.Zero
		for _, l := range lineas {
			// Price and stock are read under the row lock, inside the
			// transaction — the client never supplies a price.
			p, err := s.productoRepo.FindByIDLockTx(tx, l.productoID)
			if err != nil {
				if s.policy.ItemsEstricto {
					return fmt.Errorf("%w: producto %s", ErrNoEncontrado, l.productoID)
				}
				// Historical behavior: the unknown line is skipped, the rest
				// of the sale proceeds.
				log.Warn().
					Str("producto_id", l.productoID.String()).
					Int("numero_venta", numero).
					Msg("detalle de venta omitido: producto inexistente")
				continue
			}
			if !s.policy.PermitirSobreventa && p.Stock < l.cantidad {
				return fmt.Errorf("%w: %s (stock %d, solicitado %d)",
					ErrStockInsuficiente, p.Nombre, p.Stock, l.cantidad)
			}

			precio := p.PrecioVenta
			subtotal := precio.Mul(decimal.NewFromInt(int64(l.cantidad)))

			detalle := model.DetalleVenta{
				VentaID:        venta.ID,
				ProductoID:     p.ID,
				Cantidad:       l.cantidad,
				PrecioUnitario: precio,
				Subtotal:       subtotal,
			}
			if err := s.repo.CreateDetalleTx(tx, &detalle); err != nil {
				return err
			}

			mov, err := s.inventario.RegistrarMovimientoTx(
				tx, p.ID, model.MovimientoSalida, -l.cantidad,
				fmt.Sprintf("Venta #%d", numero), usuarioID, &venta.ID,
			)
			if err != nil {
				return err
			}
			if mov.StockNuevo <= p.StockMinimo {
				alertas = append(alertas, p.ID)
			}

			detalle.Producto = p
			venta.Detalles = append(venta.Detalles, detalle)
			total = total.Add(subtotal)
		}

		venta.Total = total
		venta.Estado = model.EstadoVentaCompletada
		return s.repo.UpdateTotalesTx(tx, venta.ID, total, model.EstadoVentaCompletada)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Fire & forget: a failed enqueue never fails the committed sale.
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueRecibo(ctx, worker.ReciboJobPayload{
			VentaID:      venta.ID.String(),
			ClienteEmail: clienteEmail,
		}); err != nil {
			log.Warn().Err(err).Int("numero", venta.Numero).Msg("no se pudo encolar el recibo")
		}
		for _, pid := range alertas {
			if err := s.dispatcher.EnqueueAlertaStock(ctx, worker.AlertaStockJobPayload{
				ProductoID: pid.String(),
			}); err != nil {
				log.Warn().Err(err).Str("producto_id", pid.String()).Msg("no se pudo encolar la alerta de stock")
			}
		}
	}

	return ventaToResponse(&venta), nil
}

// ── AnularVenta ───────────────────────────────────────────────────────────────
// Terminal reversal: restores each line's stock with a "devolucion" movement
// and marks the sale "anulada", appending the reason and acting user to its
// notes. The sale row itself is never deleted.

func (s *ventaService) AnularVenta(ctx context.Context, id, usuarioID uuid.UUID, motivo string) error {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: venta %s", ErrNoEncontrado, id)
	}
	if venta.Estado != model.EstadoVentaPendiente && venta.Estado != model.EstadoVentaCompletada {
		return ErrVentaTerminal
	}

	anuladaPor := usuarioID.String()
	if u, err := s.usuarioRepo.FindByID(ctx, usuarioID); err == nil {
		anuladaPor = u.Username
	}
	if motivo == "" {
		motivo = "Sin motivo especificado"
	}

	notaAnulacion := fmt.Sprintf("Anulada por %s - %s", anuladaPor, motivo)
	if venta.Notas != nil && *venta.Notas != "" {
		notaAnulacion = *venta.Notas + "\n" + notaAnulacion
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// The conditional flip goes first: it takes the venta row lock, so a
		// concurrent void that committed between our read above and this point
		// matches zero rows and the reversal below never runs twice.
		ok, err := s.repo.AnularTx(tx, id, notaAnulacion)
		if err != nil {
			return err
		}
		if !ok {
			return ErrVentaTerminal
		}
		for _, detalle := range venta.Detalles {
			_, err := s.inventario.RegistrarMovimientoTx(
				tx, detalle.ProductoID, model.MovimientoDevolucion, detalle.Cantidad,
				fmt.Sprintf("Anulación de venta #%d", venta.Numero), usuarioID, &venta.ID,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *ventaService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: venta %s", ErrNoEncontrado, id)
	}
	return ventaToResponse(venta), nil
}

// ListVentas returns a paginated list of sales filtered by date range, estado,
// payment method and customer.
func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		items = append(items, *ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	detalles := make([]dto.DetalleVentaResponse, 0, len(v.Detalles))
	for _, d := range v.Detalles {
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		detalles = append(detalles, dto.DetalleVentaResponse{
			ProductoID:     d.ProductoID.String(),
			Producto:       nombre,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		})
	}
	resp := &dto.VentaResponse{
		ID:         v.ID.String(),
		Numero:     v.Numero,
		Total:      v.Total,
		Estado:     v.Estado,
		MetodoPago: v.MetodoPago,
		Notas:      v.Notas,
		UsuarioID:  v.UsuarioID.String(),
		Detalles:   detalles,
		CreatedAt:  v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if v.ClienteID != nil {
		id := v.ClienteID.String()
		resp.ClienteID = &id
	}
	return resp
}
