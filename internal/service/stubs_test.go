package service_test

import (
	"context"
	"errors"
	"strconv"

	"github.com/19kjuan/invetario-proyecto/internal/dto"
	"github.com/19kjuan/invetario-proyecto/internal/model"
	"github.com/19kjuan/invetario-proyecto/internal/repository"
	"github.com/19kjuan/invetario-proyecto/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory stubs. All Tx methods accept a nil *gorm.DB: service transactions
// degrade to plain function calls when DB() returns nil.

// ── stubProductoRepo ──────────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
	// vendidos marks products referenced by a sale; HardDelete fails for
	// them the way the RESTRICT foreign key does in postgres.
	vendidos map[uuid.UUID]bool
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{
		productos: make(map[uuid.UUID]*model.Producto),
		vendidos:  make(map[uuid.UUID]bool),
	}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return p, nil
}

func (r *stubProductoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.Codigo == codigo && p.Activo {
			return p, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubProductoRepo) ExisteCodigo(_ context.Context, codigo string) (bool, error) {
	for _, p := range r.productos {
		if p.Codigo == codigo {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		if p.Activo {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) ListBajoStock(_ context.Context, umbral int) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo && p.Stock <= umbral {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = false
	}
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = true
	}
	return nil
}

func (r *stubProductoRepo) HardDelete(_ context.Context, id uuid.UUID) error {
	if r.vendidos[id] {
		return errors.New("violates foreign key constraint")
	}
	delete(r.productos, id)
	return nil
}

func (r *stubProductoRepo) FindByIDLockTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	cp := *p // snapshot, like a row read under lock
	return &cp, nil
}

func (r *stubProductoRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.productos[id]
	if !ok {
		return errors.New("record not found")
	}
	p.Stock += delta
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── stubVentaRepo ─────────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
	seq    int
	// staleVenta, when set, is returned by the next FindByID in place of the
	// stored row: a snapshot read that predates a concurrent commit.
	staleVenta *model.Venta
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) CreateDetalleTx(_ *gorm.DB, d *model.DetalleVenta) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (r *stubVentaRepo) UpdateTotalesTx(_ *gorm.DB, id uuid.UUID, total interface{}, estado string) error {
	v, ok := r.ventas[id]
	if !ok {
		return errors.New("record not found")
	}
	if t, ok := total.(decimal.Decimal); ok {
		v.Total = t
	}
	v.Estado = estado
	return nil
}

// AnularTx mirrors the conditional UPDATE: it re-checks the stored estado, not
// whatever snapshot the caller read earlier.
func (r *stubVentaRepo) AnularTx(_ *gorm.DB, id uuid.UUID, notas string) (bool, error) {
	v, ok := r.ventas[id]
	if !ok {
		return false, nil
	}
	if v.Estado != model.EstadoVentaPendiente && v.Estado != model.EstadoVentaCompletada {
		return false, nil
	}
	v.Estado = model.EstadoVentaAnulada
	v.Notas = &notas
	return true, nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	if r.staleVenta != nil && r.staleVenta.ID == id {
		v := r.staleVenta
		r.staleVenta = nil
		return v, nil
	}
	v, ok := r.ventas[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return v, nil
}

func (r *stubVentaRepo) NextNumero(_ context.Context, _ *gorm.DB) (int, error) {
	r.seq++
	return r.seq, nil
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	out := make([]model.Venta, 0, len(r.ventas))
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── stubMovimientoRepo ────────────────────────────────────────────────────────

// failAfter > 0 makes CreateTx fail once that many movements have been
// written, to simulate a mid-transaction write failure.
type stubMovimientoRepo struct {
	movimientos []model.MovimientoInventario
	failAfter   int
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoInventario) error {
	if r.failAfter > 0 && len(r.movimientos) >= r.failAfter {
		return errors.New("write failed")
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, filter dto.MovimientoFilter) ([]model.MovimientoInventario, int64, error) {
	out := make([]model.MovimientoInventario, 0, len(r.movimientos))
	for _, m := range r.movimientos {
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		if filter.ProductoID != "" && m.ProductoID.String() != filter.ProductoID {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.MovimientoRepository = (*stubMovimientoRepo)(nil)

// movimientosDe filters the recorded movements by product and type.
func (r *stubMovimientoRepo) movimientosDe(productoID uuid.UUID, tipo string) []model.MovimientoInventario {
	var out []model.MovimientoInventario
	for _, m := range r.movimientos {
		if m.ProductoID == productoID && m.Tipo == tipo {
			out = append(out, m)
		}
	}
	return out
}

// ── stubClienteRepo ───────────────────────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return c, nil
}

func (r *stubClienteRepo) List(_ context.Context, _ dto.ClienteFilter) ([]model.Cliente, int64, error) {
	out := make([]model.Cliente, 0, len(r.clientes))
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// ── stubUsuarioRepo ───────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── stubConfigRepo ────────────────────────────────────────────────────────────

type stubConfigRepo struct {
	valores map[string]string
}

func (r *stubConfigRepo) Get(_ context.Context, clave, fallback string) string {
	if v, ok := r.valores[clave]; ok {
		return v
	}
	return fallback
}

func (r *stubConfigRepo) GetInt(_ context.Context, clave string, fallback int) int {
	if v, ok := r.valores[clave]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

var _ repository.ConfiguracionRepository = (*stubConfigRepo)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

func seedProducto(repo *stubProductoRepo, nombre, codigo string, stock, stockMinimo int, precio float64) *model.Producto {
	p := &model.Producto{
		ID:          uuid.New(),
		Codigo:      codigo,
		Nombre:      nombre,
		PrecioVenta: decimal.NewFromFloat(precio),
		Stock:       stock,
		StockMinimo: stockMinimo,
		Categoria:   model.CategoriaTenis,
		Activo:      true,
	}
	repo.productos[p.ID] = p
	return p
}

type ventaFixture struct {
	svc            service.VentaService
	ventaRepo      *stubVentaRepo
	productoRepo   *stubProductoRepo
	movimientoRepo *stubMovimientoRepo
	clienteRepo    *stubClienteRepo
	usuarioRepo    *stubUsuarioRepo
	usuarioID      uuid.UUID
}

func buildVentaSvc(policy service.VentaPolicy) *ventaFixture {
	f := &ventaFixture{
		ventaRepo:      newStubVentaRepo(),
		productoRepo:   newStubProductoRepo(),
		movimientoRepo: &stubMovimientoRepo{},
		clienteRepo:    newStubClienteRepo(),
		usuarioRepo:    newStubUsuarioRepo(),
	}
	vendedor := &model.Usuario{ID: uuid.New(), Username: "vendedor1", Rol: "cajero", Activo: true}
	_ = f.usuarioRepo.Create(context.Background(), vendedor)
	f.usuarioID = vendedor.ID

	inventarioSvc := service.NewInventarioService(f.productoRepo, f.movimientoRepo)
	f.svc = service.NewVentaService(
		f.ventaRepo, inventarioSvc, f.productoRepo,
		f.clienteRepo, f.usuarioRepo, nil, policy,
	)
	return f
}

// Historical defaults: lenient item handling, oversell allowed.
func buildVentaSvcDefault() *ventaFixture {
	return buildVentaSvc(service.VentaPolicy{ItemsEstricto: false, PermitirSobreventa: true})
}
