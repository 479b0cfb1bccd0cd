package router

import (
	"time"

	"github.com/19kjuan/invetario-proyecto/internal/config"
	"github.com/19kjuan/invetario-proyecto/internal/handler"
	"github.com/19kjuan/invetario-proyecto/internal/middleware"
	"github.com/19kjuan/invetario-proyecto/internal/repository"
	"github.com/19kjuan/invetario-proyecto/internal/service"
	"github.com/19kjuan/invetario-proyecto/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)
	configRepo := repository.NewConfiguracionRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoRepo)
	productoSvc := service.NewProductoService(productoRepo, inventarioSvc, configRepo, rdb)
	clienteSvc := service.NewClienteService(clienteRepo)
	ventaSvc := service.NewVentaService(
		ventaRepo,
		inventarioSvc,
		productoRepo,
		clienteRepo,
		usuarioRepo,
		dispatcher,
		service.VentaPolicy{
			ItemsEstricto:      cfg.VentaItemsEstricto,
			PermitirSobreventa: cfg.PermitirSobreventa,
		},
	)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productosH := handler.NewProductosHandler(productoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	healthH := handler.NewHealthHandler(db, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", healthH.Check)

	// Price check — no auth required (counter display)
	r.GET("/v1/productos/precio/:codigo", productosH.ObtenerPrecio)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Sales — any staff can sell; only administrador can void
		v1.POST("/ventas", middleware.RequireRole(middleware.RolCajero, middleware.RolAdministrador), ventasH.RegistrarVenta)
		v1.GET("/ventas", middleware.RequireRole(middleware.RolCajero, middleware.RolAdministrador), ventasH.ListarVentas)
		v1.GET("/ventas/:id", middleware.RequireRole(middleware.RolCajero, middleware.RolAdministrador), ventasH.ObtenerVenta)
		v1.DELETE("/ventas/:id", middleware.RequireRole(middleware.RolAdministrador), ventasH.AnularVenta)

		// Catalog reads — all authenticated staff
		v1.GET("/productos", middleware.RequireRole(middleware.RolCajero, middleware.RolAdministrador), productosH.Listar)
		v1.GET("/productos/bajo-stock", middleware.RequireRole(middleware.RolCajero, middleware.RolAdministrador), productosH.ListarBajoStock)
		v1.GET("/productos/:id", middleware.RequireRole(middleware.RolCajero, middleware.RolAdministrador), productosH.ObtenerPorID)

		// Catalog writes — administrador only
		prods := v1.Group("/productos", middleware.RequireRole(middleware.RolAdministrador))
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Eliminar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
		}

		// Ledger reads are open to all staff; writes are administrador only
		v1.GET("/inventario/movimientos", middleware.RequireRole(middleware.RolCajero, middleware.RolAdministrador), inventarioH.ListarMovimientos)
		v1.GET("/inventario/alertas", middleware.RequireRole(middleware.RolCajero, middleware.RolAdministrador), inventarioH.ObtenerAlertas)
		inv := v1.Group("/inventario", middleware.RequireRole(middleware.RolAdministrador))
		{
			inv.POST("/entradas", inventarioH.RegistrarEntrada)
			inv.POST("/ajustes", inventarioH.AjustarStock)
		}

		clientes := v1.Group("/clientes", middleware.RequireRole(middleware.RolCajero, middleware.RolAdministrador))
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.ObtenerPorID)
			clientes.PUT("/:id", clientesH.Actualizar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
