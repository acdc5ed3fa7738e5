package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/tienda-admin/internal/application/analytics"
	"github.com/jhoicas/tienda-admin/internal/application/auth"
	"github.com/jhoicas/tienda-admin/internal/application/report"
	"github.com/jhoicas/tienda-admin/internal/application/usecase"
	"github.com/jhoicas/tienda-admin/internal/domain/repository"
	"github.com/jhoicas/tienda-admin/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/tienda-admin/internal/infrastructure/pdf"
	"github.com/jhoicas/tienda-admin/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/tienda-admin/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/tienda-admin/internal/interfaces/http"
	"github.com/jhoicas/tienda-admin/pkg/config"
	"github.com/jhoicas/tienda-admin/pkg/logger"
)

// storage repositorios del backend elegido (APP_STORAGE).
type storage struct {
	tx        repository.TxRunner
	users     repository.UserRepository
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var st storage
	switch cfg.App.Storage {
	case config.StorageMemory:
		mem := memory.NewStore()
		st = storage{tx: mem, users: mem.Users(), products: mem.Products(), suppliers: mem.Suppliers(), close: func() {}}
		log.Warn().Msg("persistencia en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		applied, err := postgres.EnsureSchema(ctx, pool)
		if err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("esquema de base de datos")
		}
		log.Info().Strs("scripts", applied).Msg("esquema verificado")
		st = storage{
			tx:        postgres.NewTxRunner(pool),
			users:     postgres.NewUserRepository(pool),
			products:  postgres.NewProductRepository(pool),
			suppliers: postgres.NewSupplierRepository(pool),
			close:     pool.Close,
		}
	}
	defer st.close()

	// Sesiones: Redis si hay REDIS_URL; si no, en memoria (una sola instancia).
	var sessions repository.SessionStore
	if cfg.Redis.URL != "" {
		redisStore, err := infraredis.NewSessionStore(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisStore.Close()
		sessions = redisStore
		log.Info().Msg("sesiones en Redis")
	} else {
		sessions = memory.NewSessionStore()
		log.Warn().Msg("REDIS_URL vacío: sesiones en memoria del proceso")
	}

	authUC := auth.NewAuthUseCase(st.tx, st.users, sessions, auth.SessionConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.Session.TTLMinutes) * time.Minute,
	})
	userUC := usecase.NewUserUseCase(st.tx, st.users)
	productUC := usecase.NewProductUseCase(st.tx, st.products)
	supplierUC := usecase.NewSupplierUseCase(st.tx, st.suppliers)
	dashboardUC := appanalytics.NewDashboardUseCase(st.products, st.suppliers, st.users)

	// PDF: catálogo de productos
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	reportUC := report.NewCatalogReportUseCase(st.products, st.suppliers, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http").Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Tienda Admin API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		ProductUC:   productUC,
		SupplierUC:  supplierUC,
		DashboardUC: dashboardUC,
		ReportUC:    reportUC,
		Cookie: httpRouter.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
		},
		AppName: cfg.App.Name,
		Env:     cfg.App.Env,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
