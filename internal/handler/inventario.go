package handler

import (
	"net/http"

	"github.com/19kjuan/invetario-proyecto/internal/apierror"
	"github.com/19kjuan/invetario-proyecto/internal/dto"
	"github.com/19kjuan/invetario-proyecto/internal/middleware"
	"github.com/19kjuan/invetario-proyecto/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// RegistrarEntrada godoc
// @Summary      Registrar entrada de stock
// @Description  Registra recepción de mercancía y suma al stock del producto.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.EntradaStockRequest true "Entrada"
// @Success      201  {object} dto.MovimientoResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/inventario/entradas [post]
func (h *InventarioHandler) RegistrarEntrada(c *gin.Context) {
	var req dto.EntradaStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RegistrarEntrada(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AjustarStock godoc
// @Summary      Ajustar stock
// @Description  Fija el stock absoluto de un producto tras un conteo físico y registra el delta como ajuste.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AjusteStockRequest true "Ajuste"
// @Success      200  {object} dto.AjusteStockResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/inventario/ajustes [post]
func (h *InventarioHandler) AjustarStock(c *gin.Context) {
	var req dto.AjusteStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.AjustarStock(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarMovimientos returns the inventory audit trail, newest first.
func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerAlertas lists products at or below their per-product minimum.
func (h *InventarioHandler) ObtenerAlertas(c *gin.Context) {
	resp, err := h.svc.ObtenerAlertas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar alertas"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"alertas": resp, "total": len(resp)})
}
