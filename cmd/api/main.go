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
	ulimiter "github.com/ulule/limiter/v3"

	_ "github.com/jhoicas/imprenta-api/docs"
	"github.com/jhoicas/imprenta-api/internal/application/caja"
	"github.com/jhoicas/imprenta-api/internal/application/consumption"
	"github.com/jhoicas/imprenta-api/internal/application/ledger"
	"github.com/jhoicas/imprenta-api/internal/application/production"
	"github.com/jhoicas/imprenta-api/internal/application/supply"
	"github.com/jhoicas/imprenta-api/internal/domain/repository"
	"github.com/jhoicas/imprenta-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/imprenta-api/internal/infrastructure/pdf"
	"github.com/jhoicas/imprenta-api/internal/infrastructure/postgres"
	"github.com/jhoicas/imprenta-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/imprenta-api/internal/interfaces/http"
	"github.com/jhoicas/imprenta-api/pkg/config"
	"github.com/jhoicas/imprenta-api/pkg/logger"
)

// repositories adaptadores de persistencia según STORAGE.
type repositories struct {
	tx          ledger.TxRunner
	movements   repository.MovementRepository
	balances    repository.BalanceRepository
	cortes      repository.CorteRepository
	supplies    repository.MachineSupplyRepository
	productions repository.ProductionRepository
	close       func()
}

func openRepositories(ctx context.Context, cfg *config.Config, log *logger.Logger) repositories {
	if cfg.Storage == "memory" {
		log.Warn().Msg("STORAGE=memory: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return repositories{
			tx:          store,
			movements:   store.Movements(),
			balances:    store.Balances(),
			cortes:      store.Cortes(),
			supplies:    store.Supplies(),
			productions: store.Productions(),
			close:       func() {},
		}
	}

	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Named("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	return repositories{
		tx:          postgres.NewTxRunner(pool),
		movements:   postgres.NewMovementRepository(pool),
		balances:    postgres.NewBalanceRepository(pool),
		cortes:      postgres.NewCorteRepository(pool),
		supplies:    postgres.NewMachineSupplyRepository(pool),
		productions: postgres.NewProductionRepository(pool),
		close:       pool.Close,
	}
}

// @title        Imprenta API
// @version      1.0
// @description  Caja, cortes de caja e insumos con consumo automático por metros impresos.
// @BasePath     /

// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 "Bearer" seguido de un espacio y el JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Storage).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	repos := openRepositories(ctx, cfg, log)
	defer repos.close()

	recorder := ledger.NewRecorder(repos.tx, repos.movements, repos.balances)
	engine := consumption.NewEngine(repos.supplies, recorder, consumption.Config{
		FallbackToAll: cfg.Consumo.FallbackToAll,
	}, log.Named("consumo"))

	// PDF: ticket imprimible del corte de caja
	pdfGenerator := infrapdf.NewCortePDFGenerator(cfg.App.Name, time.Local)
	cajaUC := caja.NewUseCase(recorder, repos.cortes, pdfGenerator, caja.Config{
		DefaultCashRegisterID: cfg.Caja.DefaultID,
		NotesThreshold:        cfg.Caja.NotesThreshold,
	})
	supplyUC := supply.NewUseCase(repos.supplies, recorder)
	productionUC := production.NewUseCase(repos.productions, engine, log.Named("produccion"))

	jobs := scheduler.New(supplyUC, log.Named("scheduler"))
	if err := jobs.ScheduleStockAlerts(cfg.Scheduler.StockAlerts); err != nil {
		log.Fatal().Err(err).Msg("programar alertas de stock")
	}
	jobs.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Imprenta API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	var limiter *ulimiter.Limiter
	if cfg.HTTP.RateLimit > 0 {
		limiter = httpRouter.NewIPLimiter(cfg.HTTP.RateLimit)
	}
	httpRouter.Router(app, httpRouter.RouterDeps{
		CajaUC:       cajaUC,
		SupplyUC:     supplyUC,
		ProductionUC: productionUC,
		JWTSecret:    cfg.JWT.Secret,
		JWTIssuer:    cfg.JWT.Issuer,
		Limiter:      limiter,
		Log:          log,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownGrace)*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	jobs.Stop(shutdownCtx)

	log.Info().Msg("aplicación detenida")
}
