// Package storage elige el backend (PostgreSQL o SQLite) según la configuración
// y expone los repositorios que consumen cmd/api y cmd/seed.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/glamstock-api/internal/application/inventory"
	"github.com/jhoicas/glamstock-api/internal/domain/repository"
	"github.com/jhoicas/glamstock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/glamstock-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/glamstock-api/pkg/config"
	"github.com/jhoicas/glamstock-api/pkg/logger"
)

// Storage repositorios sobre un mismo backend.
type Storage struct {
	TxRunner inventory.TxRunner
	Stock    repository.StockRepository
	Ledger   repository.LedgerRepository
	Branches repository.BranchRepository
	Reasons  repository.ReasonRepository
	Catalog  repository.CatalogRepository

	close func()
}

// Open conecta al backend de cfg.Driver y, si cfg.Migrate, aplica las migraciones embebidas.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*Storage, error) {
	if log == nil {
		log = logger.Nop()
	}
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		log.Info().Str("driver", cfg.Driver).Msg("almacenamiento listo")
		return &Storage{
			TxRunner: postgres.NewTxRunner(pool),
			Stock:    postgres.NewStockRepository(pool),
			Ledger:   postgres.NewLedgerRepository(pool),
			Branches: postgres.NewBranchRepository(pool),
			Reasons:  postgres.NewReasonRepository(pool),
			Catalog:  postgres.NewCatalogRepository(pool),
			close:    pool.Close,
		}, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath, cfg.Migrate)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.Driver).Str("path", cfg.SQLitePath).Msg("almacenamiento listo")
		return &Storage{
			TxRunner: sqlite.NewTxRunner(store),
			Stock:    sqlite.NewStockRepository(store.DB()),
			Ledger:   sqlite.NewLedgerRepository(store.DB()),
			Branches: sqlite.NewBranchRepository(store.DB()),
			Reasons:  sqlite.NewReasonRepository(store.DB()),
			Catalog:  sqlite.NewCatalogRepository(store.DB()),
			close:    func() { _ = store.Close() },
		}, nil
	}
	return nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.Driver)
}

// Close libera el pool o el archivo.
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}
