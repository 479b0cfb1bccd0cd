package infra

import (
	"fmt"

	"github.com/19kjuan/invetario-proyecto/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// to create / update all tables, then applies idempotent SQL patches for the
// DDL GORM cannot express (sequences, RESTRICT foreign keys, seed rows).
// migrations/ holds the equivalent reference DDL for provisioning a database
// outside the application.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates/updates the schema. Also used by integration tests
// against a throwaway database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Cliente{},
		&model.Producto{},
		&model.Venta{},
		&model.DetalleVenta{},
		&model.MovimientoInventario{},
		&model.Configuracion{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully
// handle. Each statement uses IF NOT EXISTS / DO NOTHING semantics so
// re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Ticket numbering for ventas.numero (see VentaRepository.NextNumero).
		`CREATE SEQUENCE IF NOT EXISTS ventas_numero_seq`,

		// detalle_ventas → productos must be RESTRICT: a product referenced by
		// any sale can never be hard-deleted. AutoMigrate may have created the
		// constraint without the action on upgraded schemas.
		`DO $$ BEGIN
		  IF NOT EXISTS (
		    SELECT 1 FROM pg_constraint
		    WHERE conname = 'fk_detalle_ventas_producto'
		      AND conrelid = to_regclass('detalle_ventas')
		  ) THEN
		    ALTER TABLE detalle_ventas
		      ADD CONSTRAINT fk_detalle_ventas_producto
		      FOREIGN KEY (producto_id) REFERENCES productos(id) ON DELETE RESTRICT;
		  END IF;
		END $$`,

		// Ledger queries almost always filter by product and order by date.
		`CREATE INDEX IF NOT EXISTS idx_movimientos_producto_fecha
		   ON movimientos_inventario (producto_id, created_at DESC)`,

		// Default store settings.
		`INSERT INTO configuraciones (clave, valor, descripcion)
		 VALUES ('umbral_alerta_stock', '5', 'Stock a partir del cual un producto aparece en bajo-stock')
		 ON CONFLICT (clave) DO NOTHING`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
