// seed carga un catálogo de demostración (sucursales, productos, variantes y saldos)
// e imprime tokens JWT de desarrollo para cada rol.
//
// Uso: go run ./cmd/seed
// Usa la misma configuración que la API (DB_DRIVER, DATABASE_URL, SQLITE_PATH, JWT_SECRET...).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/glamstock-api/internal/domain/entity"
	"github.com/jhoicas/glamstock-api/internal/infrastructure/storage"
	"github.com/jhoicas/glamstock-api/pkg/config"
	"github.com/jhoicas/glamstock-api/pkg/jwt"
	"github.com/jhoicas/glamstock-api/pkg/logger"
)

type demoVariant struct {
	barcode, model, color string
	purchase, sale        string
	stock                 []int64 // una cantidad por sucursal
}

type demoProduct struct {
	sku, name string
	variants  []demoVariant
}

var demoBranches = []entity.Branch{
	{Name: "Centro", Location: "Calle 10 #4-20", Active: true},
	{Name: "Unicentro", Location: "Local 214", Active: true},
}

var demoCatalog = []demoProduct{
	{sku: "LAB-001", name: "Labial mate", variants: []demoVariant{
		{barcode: "7701234567890", model: "Mate", color: "Rojo", purchase: "12000", sale: "25000", stock: []int64{10, 4}},
		{barcode: "7701234567891", model: "Mate", color: "Nude", purchase: "12000", sale: "25000", stock: []int64{6, 0}},
	}},
	{sku: "BAS-010", name: "Base líquida", variants: []demoVariant{
		{barcode: "7701234567900", color: "Beige", purchase: "30000", sale: "58900", stock: []int64{3, 8}},
	}},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "glamstock-seed"})

	ctx := context.Background()
	cfg.DB.Migrate = true
	store, err := storage.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer store.Close()

	existing, err := store.Branches.ListActive(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listar sucursales")
	}
	if len(existing) > 0 {
		log.Info().Int("branches", len(existing)).Msg("catálogo ya sembrado, se omite")
	} else if err := seedCatalog(ctx, store); err != nil {
		log.Fatal().Err(err).Msg("sembrar catálogo")
	} else {
		log.Info().Msg("catálogo de demostración sembrado")
	}

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío, no se generan tokens")
		return
	}
	for i, role := range []string{"admin", "bodeguero", "vendedor"} {
		tok, err := jwt.Generate(cfg.JWT.Secret, int64(i+1), role, cfg.JWT.Issuer, cfg.JWT.Expiration)
		if err != nil {
			log.Fatal().Err(err).Str("role", role).Msg("generar token")
		}
		fmt.Printf("%-10s Bearer %s\n", role, tok)
	}
}

func seedCatalog(ctx context.Context, store *storage.Storage) error {
	branches := make([]entity.Branch, len(demoBranches))
	copy(branches, demoBranches)
	for i := range branches {
		if err := store.Catalog.CreateBranch(ctx, &branches[i]); err != nil {
			return fmt.Errorf("sucursal %s: %w", branches[i].Name, err)
		}
	}

	for _, dp := range demoCatalog {
		product := entity.Product{SKU: dp.sku, Name: dp.name}
		if err := store.Catalog.CreateProduct(ctx, &product); err != nil {
			return fmt.Errorf("producto %s: %w", dp.sku, err)
		}
		for _, dv := range dp.variants {
			variant := entity.Variant{
				ProductID:     product.ID,
				Barcode:       dv.barcode,
				Model:         dv.model,
				Color:         dv.color,
				PurchasePrice: decimal.RequireFromString(dv.purchase),
				SalePrice:     decimal.RequireFromString(dv.sale),
			}
			if err := store.Catalog.CreateVariant(ctx, &variant); err != nil {
				return fmt.Errorf("variante %s: %w", dv.barcode, err)
			}
			for i, qty := range dv.stock {
				balance := entity.StockBalance{VariantID: variant.ID, BranchID: branches[i].ID, Quantity: qty}
				if err := store.Stock.Create(ctx, &balance); err != nil {
					return fmt.Errorf("saldo %s en %s: %w", dv.barcode, branches[i].Name, err)
				}
			}
		}
	}
	return nil
}
