package service_test

import (
	"context"
	"testing"

	"github.com/19kjuan/invetario-proyecto/internal/dto"
	"github.com/19kjuan/invetario-proyecto/internal/model"
	"github.com/19kjuan/invetario-proyecto/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildProductoSvc(config *stubConfigRepo) (service.ProductoService, *stubProductoRepo, *stubMovimientoRepo) {
	productoRepo := newStubProductoRepo()
	movimientoRepo := &stubMovimientoRepo{}
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoRepo)
	svc := service.NewProductoService(productoRepo, inventarioSvc, config, nil)
	return svc, productoRepo, movimientoRepo
}

func TestCrearProducto_StockInicialEntraPorLedger(t *testing.T) {
	svc, productoRepo, movimientoRepo := buildProductoSvc(nil)
	usuario := uuid.New()

	resp, err := svc.Crear(context.Background(), usuario, dto.CrearProductoRequest{
		Codigo:       "RAQ-010",
		Nombre:       "Raqueta Bullpadel Vertex",
		PrecioCompra: decimal.NewFromInt(180),
		PrecioVenta:  decimal.NewFromInt(320),
		StockInicial: 6,
		StockMinimo:  2,
		Categoria:    model.CategoriaPadel,
	})
	require.NoError(t, err)

	assert.Equal(t, 6, resp.Stock)
	assert.True(t, resp.Activo)

	p, err := productoRepo.FindByCodigo(context.Background(), "RAQ-010")
	require.NoError(t, err)
	assert.Equal(t, 6, p.Stock)

	// The audit trail starts at the product's first unit.
	entradas := movimientoRepo.movimientosDe(p.ID, model.MovimientoEntrada)
	require.Len(t, entradas, 1)
	assert.Equal(t, 6, entradas[0].Cantidad)
	assert.Equal(t, 0, entradas[0].StockAnterior)
	assert.Equal(t, 6, entradas[0].StockNuevo)
}

func TestCrearProducto_SinStockInicial(t *testing.T) {
	svc, _, movimientoRepo := buildProductoSvc(nil)

	resp, err := svc.Crear(context.Background(), uuid.New(), dto.CrearProductoRequest{
		Codigo:      "ACC-010",
		Nombre:      "Antivibrador",
		PrecioVenta: decimal.NewFromInt(4),
		Categoria:   model.CategoriaAccesorios,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Stock)
	assert.Empty(t, movimientoRepo.movimientos)
}

func TestCrearProducto_CodigoDuplicado(t *testing.T) {
	svc, productoRepo, _ := buildProductoSvc(nil)
	seedProducto(productoRepo, "Raqueta Wilson Pro", "RAQ-001", 10, 2, 100)

	_, err := svc.Crear(context.Background(), uuid.New(), dto.CrearProductoRequest{
		Codigo:      "RAQ-001",
		Nombre:      "Otra raqueta",
		PrecioVenta: decimal.NewFromInt(90),
		Categoria:   model.CategoriaTenis,
	})
	assert.ErrorIs(t, err, service.ErrValidacion)
}

func TestCrearProducto_CodigoDeProductoInactivo(t *testing.T) {
	svc, productoRepo, _ := buildProductoSvc(nil)
	p := seedProducto(productoRepo, "Raqueta Wilson Pro", "RAQ-001", 10, 2, 100)
	p.Activo = false

	// A deactivated product still owns its codigo: the unique index spans
	// inactive rows, so validation has to reject this before the insert.
	_, err := svc.Crear(context.Background(), uuid.New(), dto.CrearProductoRequest{
		Codigo:      "RAQ-001",
		Nombre:      "Otra raqueta",
		PrecioVenta: decimal.NewFromInt(90),
		Categoria:   model.CategoriaTenis,
	})
	assert.ErrorIs(t, err, service.ErrValidacion)
}

func TestObtenerPrecioPorCodigo(t *testing.T) {
	svc, productoRepo, _ := buildProductoSvc(nil)
	seedProducto(productoRepo, "Raqueta Wilson Pro", "RAQ-001", 10, 2, 100)

	resp, err := svc.ObtenerPrecioPorCodigo(context.Background(), "RAQ-001")
	require.NoError(t, err)
	assert.Equal(t, "RAQ-001", resp.Codigo)
	assert.Equal(t, "Raqueta Wilson Pro", resp.Nombre)
	assert.Equal(t, "100", resp.PrecioVenta.String())

	_, err = svc.ObtenerPrecioPorCodigo(context.Background(), "NO-EXISTE")
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}

func TestActualizarProducto_Parcial(t *testing.T) {
	svc, productoRepo, _ := buildProductoSvc(nil)
	p := seedProducto(productoRepo, "Raqueta Wilson Pro", "RAQ-001", 10, 2, 100)

	nuevoPrecio := decimal.NewFromInt(120)
	resp, err := svc.Actualizar(context.Background(), p.ID, dto.ActualizarProductoRequest{
		PrecioVenta: &nuevoPrecio,
	})
	require.NoError(t, err)

	// Only the supplied field changed; stock is untouchable from here.
	assert.Equal(t, "120", resp.PrecioVenta.String())
	assert.Equal(t, "Raqueta Wilson Pro", resp.Nombre)
	assert.Equal(t, 10, resp.Stock)
}

func TestListarBajoStock_UmbralConfigurable(t *testing.T) {
	config := &stubConfigRepo{valores: map[string]string{"umbral_alerta_stock": "10"}}
	svc, productoRepo, _ := buildProductoSvc(config)
	bajo := seedProducto(productoRepo, "Grip", "ACC-002", 7, 2, 5)
	seedProducto(productoRepo, "Pelota", "PEL-002", 50, 10, 3)

	productos, err := svc.ListarBajoStock(context.Background())
	require.NoError(t, err)
	require.Len(t, productos, 1)
	assert.Equal(t, bajo.Codigo, productos[0].Codigo)
}

func TestEliminarProducto(t *testing.T) {
	svc, productoRepo, _ := buildProductoSvc(nil)

	// Never sold: the row is removed outright.
	p := seedProducto(productoRepo, "Gorra", "ACC-004", 5, 2, 20)
	require.NoError(t, svc.Eliminar(context.Background(), p.ID))
	_, existe := productoRepo.productos[p.ID]
	assert.False(t, existe)

	// Referenced by a sale: hard delete is refused, falls back to deactivation.
	q := seedProducto(productoRepo, "Visera", "ACC-005", 5, 2, 18)
	productoRepo.vendidos[q.ID] = true
	require.NoError(t, svc.Eliminar(context.Background(), q.ID))
	require.False(t, productoRepo.productos[q.ID].Activo)

	require.NoError(t, svc.Reactivar(context.Background(), q.ID))
	assert.True(t, productoRepo.productos[q.ID].Activo)
}
