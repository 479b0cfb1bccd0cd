package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/19kjuan/invetario-proyecto/internal/dto"
	"github.com/19kjuan/invetario-proyecto/internal/model"
	"github.com/19kjuan/invetario-proyecto/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ProductoService is catalog management. Stock is set here only at creation
// (through an "entrada" ledger movement); afterwards it changes exclusively
// via InventarioService and VentaService.
type ProductoService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	ObtenerPrecioPorCodigo(ctx context.Context, codigo string) (*dto.PrecioResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	ListarBajoStock(ctx context.Context) ([]dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

const (
	precioCachePrefix = "precio:"
	precioCacheTTL    = 5 * time.Minute
	umbralStockClave  = "umbral_alerta_stock"
	umbralStockDef    = 5
)

type productoService struct {
	repo       repository.ProductoRepository
	inventario InventarioService
	configRepo repository.ConfiguracionRepository
	rdb        *redis.Client
}

func NewProductoService(
	repo repository.ProductoRepository,
	inventario InventarioService,
	configRepo repository.ConfiguracionRepository,
	rdb *redis.Client,
) ProductoService {
	return &productoService{repo: repo, inventario: inventario, configRepo: configRepo, rdb: rdb}
}

func (s *productoService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	// The check spans inactive products too: the unique index on codigo does
	// not care about the activo flag, and surfacing it here gives the caller
	// a validation message instead of a storage error.
	existe, err := s.repo.ExisteCodigo(ctx, req.Codigo)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, fmt.Errorf("%w: ya existe un producto con codigo %s", ErrValidacion, req.Codigo)
	}

	p := &model.Producto{
		Codigo:       req.Codigo,
		Nombre:       req.Nombre,
		Descripcion:  req.Descripcion,
		PrecioCompra: req.PrecioCompra,
		PrecioVenta:  req.PrecioVenta,
		StockMinimo:  req.StockMinimo,
		Categoria:    req.Categoria,
		Marca:        req.Marca,
		Talla:        req.Talla,
		Color:        req.Color,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	// Initial stock enters through the ledger so the audit trail starts at
	// the product's first unit.
	if req.StockInicial > 0 {
		txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			_, err := s.inventario.RegistrarMovimientoTx(
				tx, p.ID, model.MovimientoEntrada, req.StockInicial,
				"Stock inicial", usuarioID, nil,
			)
			return err
		})
		if txErr != nil {
			return nil, txErr
		}
		p.Stock = req.StockInicial
	}

	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: producto %s", ErrNoEncontrado, id)
	}
	return productoToResponse(p), nil
}

// ObtenerPrecioPorCodigo serves the public price check, cached in Redis.
// Cache misses and Redis outages both fall through to the database.
func (s *productoService) ObtenerPrecioPorCodigo(ctx context.Context, codigo string) (*dto.PrecioResponse, error) {
	key := precioCachePrefix + codigo

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp dto.PrecioResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, fmt.Errorf("%w: producto con codigo %s", ErrNoEncontrado, codigo)
	}
	resp := &dto.PrecioResponse{Codigo: p.Codigo, Nombre: p.Nombre, PrecioVenta: p.PrecioVenta}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, data, precioCacheTTL).Err(); err != nil {
				log.Debug().Err(err).Str("codigo", codigo).Msg("no se pudo cachear el precio")
			}
		}
	}
	return resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		items = append(items, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ListarBajoStock uses the store-wide threshold from configuraciones
// (operators can raise it during restock season) rather than the per-product
// minimum the alert worker uses.
func (s *productoService) ListarBajoStock(ctx context.Context) ([]dto.ProductoResponse, error) {
	umbral := umbralStockDef
	if s.configRepo != nil {
		umbral = s.configRepo.GetInt(ctx, umbralStockClave, umbralStockDef)
	}
	productos, err := s.repo.ListBajoStock(ctx, umbral)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		items = append(items, *productoToResponse(&productos[i]))
	}
	return items, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: producto %s", ErrNoEncontrado, id)
	}

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.PrecioCompra != nil {
		p.PrecioCompra = *req.PrecioCompra
	}
	if req.PrecioVenta != nil {
		p.PrecioVenta = *req.PrecioVenta
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if req.Categoria != nil {
		p.Categoria = *req.Categoria
	}
	if req.Marca != nil {
		p.Marca = req.Marca
	}
	if req.Talla != nil {
		p.Talla = req.Talla
	}
	if req.Color != nil {
		p.Color = req.Color
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidarPrecio(ctx, p.Codigo)
	return productoToResponse(p), nil
}

// Eliminar hard-deletes a product no sale references; the RESTRICT foreign
// key makes postgres refuse otherwise, and we fall back to a soft delete.
func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: producto %s", ErrNoEncontrado, id)
	}
	if err := s.repo.HardDelete(ctx, id); err != nil {
		if err := s.repo.SoftDelete(ctx, id); err != nil {
			return err
		}
	}
	s.invalidarPrecio(ctx, p.Codigo)
	return nil
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("%w: producto %s", ErrNoEncontrado, id)
	}
	return s.repo.Reactivar(ctx, id)
}

func (s *productoService) invalidarPrecio(ctx context.Context, codigo string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, precioCachePrefix+codigo).Err(); err != nil {
		log.Debug().Err(err).Str("codigo", codigo).Msg("no se pudo invalidar el cache de precio")
	}
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:           p.ID.String(),
		Codigo:       p.Codigo,
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		PrecioCompra: p.PrecioCompra,
		PrecioVenta:  p.PrecioVenta,
		Stock:        p.Stock,
		StockMinimo:  p.StockMinimo,
		Categoria:    p.Categoria,
		Marca:        p.Marca,
		Talla:        p.Talla,
		Color:        p.Color,
		Activo:       p.Activo,
	}
}
