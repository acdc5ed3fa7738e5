// seed puebla la base con proveedores y productos de demostración.
//
// Uso: go run ./cmd/seed
// Usa la misma configuración que la API (DATABASE_URL / DB_*). Las tablas con datos no se tocan.
package main

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-admin/internal/application/usecase"
	"github.com/jhoicas/tienda-admin/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda-admin/pkg/config"
	"github.com/jhoicas/tienda-admin/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name}).Component("seed")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if _, err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("esquema de base de datos")
	}

	tx := postgres.NewTxRunner(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	productRepo := postgres.NewProductRepository(pool)

	res, err := seed(ctx, supplierRepo, productRepo,
		usecase.NewSupplierUseCase(tx, supplierRepo),
		usecase.NewProductUseCase(tx, productRepo),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("sembrar datos")
	}
	log.Info().
		Int("proveedores", res.Suppliers).
		Int("productos", res.Products).
		Msg("datos de prueba listos")
}
