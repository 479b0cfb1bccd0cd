package service_test

import (
	"context"
	"testing"

	"github.com/19kjuan/invetario-proyecto/internal/dto"
	"github.com/19kjuan/invetario-proyecto/internal/model"
	"github.com/19kjuan/invetario-proyecto/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildInventarioSvc() (service.InventarioService, *stubProductoRepo, *stubMovimientoRepo) {
	productoRepo := newStubProductoRepo()
	movimientoRepo := &stubMovimientoRepo{}
	return service.NewInventarioService(productoRepo, movimientoRepo), productoRepo, movimientoRepo
}

func TestRegistrarEntrada(t *testing.T) {
	svc, productoRepo, movimientoRepo := buildInventarioSvc()
	p := seedProducto(productoRepo, "Tubo pelotas", "PEL-001", 5, 10, 12)
	usuario := uuid.New()

	resp, err := svc.RegistrarEntrada(context.Background(), usuario, dto.EntradaStockRequest{
		ProductoID: p.ID.String(),
		Cantidad:   24,
	})
	require.NoError(t, err)

	assert.Equal(t, model.MovimientoEntrada, resp.Tipo)
	assert.Equal(t, 24, resp.Cantidad)
	assert.Equal(t, 5, resp.StockAnterior)
	assert.Equal(t, 29, resp.StockNuevo)
	assert.Equal(t, 29, productoRepo.productos[p.ID].Stock)
	assert.Len(t, movimientoRepo.movimientos, 1)
}

func TestRegistrarEntrada_ProductoInexistente(t *testing.T) {
	svc, _, _ := buildInventarioSvc()
	_, err := svc.RegistrarEntrada(context.Background(), uuid.New(), dto.EntradaStockRequest{
		ProductoID: uuid.NewString(),
		Cantidad:   10,
	})
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}

func TestAjustarStock_Reduce(t *testing.T) {
	svc, productoRepo, movimientoRepo := buildInventarioSvc()
	p := seedProducto(productoRepo, "Grip", "ACC-002", 10, 2, 5)

	// Physical count found 4 units.
	resp, err := svc.AjustarStock(context.Background(), uuid.New(), dto.AjusteStockRequest{
		ProductoID: p.ID.String(),
		StockNuevo: 4,
	})
	require.NoError(t, err)

	assert.True(t, resp.Ajustado)
	assert.Equal(t, 4, resp.Stock)
	require.NotNil(t, resp.Movimiento)
	assert.Equal(t, model.MovimientoAjuste, resp.Movimiento.Tipo)
	assert.Equal(t, 6, resp.Movimiento.Cantidad) // magnitude of the correction
	assert.Equal(t, 10, resp.Movimiento.StockAnterior)
	assert.Equal(t, 4, resp.Movimiento.StockNuevo)
	assert.Equal(t, 4, productoRepo.productos[p.ID].Stock)
	assert.Len(t, movimientoRepo.movimientos, 1)
}

func TestAjustarStock_Aumenta(t *testing.T) {
	svc, productoRepo, _ := buildInventarioSvc()
	p := seedProducto(productoRepo, "Gorra", "ACC-004", 3, 2, 20)

	resp, err := svc.AjustarStock(context.Background(), uuid.New(), dto.AjusteStockRequest{
		ProductoID: p.ID.String(),
		StockNuevo: 8,
	})
	require.NoError(t, err)
	assert.True(t, resp.Ajustado)
	require.NotNil(t, resp.Movimiento)
	assert.Equal(t, 5, resp.Movimiento.Cantidad)
	assert.Equal(t, 8, productoRepo.productos[p.ID].Stock)
}

func TestAjustarStock_SinCambio(t *testing.T) {
	svc, productoRepo, movimientoRepo := buildInventarioSvc()
	p := seedProducto(productoRepo, "Gorra", "ACC-004", 8, 2, 20)

	resp, err := svc.AjustarStock(context.Background(), uuid.New(), dto.AjusteStockRequest{
		ProductoID: p.ID.String(),
		StockNuevo: 8,
	})
	require.NoError(t, err)

	// Count matched: no ledger entry is written and no movement is reported.
	assert.Empty(t, movimientoRepo.movimientos)
	assert.False(t, resp.Ajustado)
	assert.Nil(t, resp.Movimiento)
	assert.Equal(t, 8, resp.Stock)
	assert.Equal(t, 8, productoRepo.productos[p.ID].Stock)
}

func TestListarMovimientos_FiltraPorTipo(t *testing.T) {
	svc, productoRepo, _ := buildInventarioSvc()
	p := seedProducto(productoRepo, "Pelota", "PEL-002", 10, 2, 3)
	usuario := uuid.New()

	_, err := svc.RegistrarEntrada(context.Background(), usuario, dto.EntradaStockRequest{
		ProductoID: p.ID.String(), Cantidad: 5,
	})
	require.NoError(t, err)
	_, err = svc.AjustarStock(context.Background(), usuario, dto.AjusteStockRequest{
		ProductoID: p.ID.String(), StockNuevo: 12,
	})
	require.NoError(t, err)

	resp, err := svc.ListarMovimientos(context.Background(), dto.MovimientoFilter{Tipo: model.MovimientoEntrada})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, model.MovimientoEntrada, resp.Data[0].Tipo)
}

func TestObtenerAlertas(t *testing.T) {
	svc, productoRepo, _ := buildInventarioSvc()
	seedProducto(productoRepo, "Raqueta Head", "RAQ-002", 20, 2, 250) // sobrada
	bajo := seedProducto(productoRepo, "Grip", "ACC-002", 1, 3, 5)    // 1 <= 3
	justo := seedProducto(productoRepo, "Gorra", "ACC-004", 2, 2, 20) // 2 <= 2

	alertas, err := svc.ObtenerAlertas(context.Background())
	require.NoError(t, err)
	require.Len(t, alertas, 2)

	ids := []string{alertas[0].ProductoID, alertas[1].ProductoID}
	assert.Contains(t, ids, bajo.ID.String())
	assert.Contains(t, ids, justo.ID.String())
}
