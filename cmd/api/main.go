package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/jhoicas/inventario-consola/internal/application/auth"
	"github.com/jhoicas/inventario-consola/internal/application/dashboard"
	"github.com/jhoicas/inventario-consola/internal/application/pagination"
	"github.com/jhoicas/inventario-consola/internal/application/ports"
	"github.com/jhoicas/inventario-consola/internal/application/reports"
	"github.com/jhoicas/inventario-consola/internal/application/usecase"
	"github.com/jhoicas/inventario-consola/internal/domain/inventory"
	"github.com/jhoicas/inventario-consola/internal/domain/repository"
	"github.com/jhoicas/inventario-consola/internal/infrastructure/backend"
	"github.com/jhoicas/inventario-consola/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-consola/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/inventario-consola/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-consola/internal/infrastructure/realtime"
	httpRouter "github.com/jhoicas/inventario-consola/internal/interfaces/http"
	"github.com/jhoicas/inventario-consola/pkg/config"
	"github.com/jhoicas/inventario-consola/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

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
		Str("backend", cfg.Backend.BaseURL).
		Str("realtime", cfg.Realtime.Mode).
		Msg("iniciando consola")

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: tablero y alertas confirman cada token contra el backend")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	m := metrics.New(metrics.DefaultNamespace)

	// Backend REST: breaker + token del usuario (o de servicio) desde el contexto.
	breaker := backend.NewBreaker(backend.BreakerConfig{
		Name:             "backend",
		FailureThreshold: cfg.Breaker.FailureThreshold,
		OpenTimeout:      cfg.Breaker.OpenTimeout,
	}, log.Component("breaker"), m.BreakerStateChanged)
	client := backend.New(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	}, auth.ContextCredentials{}, breaker, m, log.Component("backend"))

	productRepo := backend.NewProductClient(client)
	movementRepo := backend.NewMovementClient(client)
	summaryRepo := backend.NewDashboardClient(client)
	authRepo := backend.NewAuthClient(client)
	reportRepo := backend.NewReportClient(client)

	movementWalker := pagination.New(movementRepo.ListPage, inventory.MovementKey, pagination.Config{
		Resource: "movimientos",
		PageSize: cfg.Backend.PageSize,
		MaxPages: cfg.Backend.MaxPages,
	}, log.Component("pagination"), m)

	authUC := auth.NewAuthUseCase(authRepo, auth.JWTConfig{Secret: cfg.JWT.Secret})
	productUC := usecase.NewProductUseCase(productRepo, log.Component("productos"))
	movementUC := usecase.NewMovementUseCase(movementRepo, productRepo, movementWalker, log.Component("movimientos"))
	alertUC := usecase.NewAlertUseCase(productRepo, usecase.DefaultAlertFeedSize, log.Component("alertas"))
	reportUC := reports.NewUseCase(productRepo, movementWalker, reportRepo,
		infrapdf.NewMarotoPDFGenerator(cfg.App.Name), log.Component("reportes"))
	dashboardUC := dashboard.NewUseCase(summaryRepo, productRepo, movementWalker, log.Component("dashboard"))

	store := snapshotStore(ctx, cfg, log)
	reloader := dashboard.NewReloader(dashboardUC, store, dashboard.ReloaderConfig{
		ServiceToken: cfg.Backend.ServiceToken,
		Timeout:      dashboard.DefaultReloadTimeout,
	}, log.Component("reloader"), m)
	reloader.Start(ctx)
	pushUC := usecase.NewPushUseCase(alertUC, reloader, log.Component("push"))

	if listener := pushListener(cfg, log); listener != nil {
		go func() {
			handle := func(ctx context.Context, ev ports.PushEvent) {
				m.PushReceived(ev.Kind)
				pushUC.Handle(ctx, ev)
			}
			if err := listener.Run(ctx, handle); err != nil {
				log.Error().Err(err).Msg("canal push detenido")
			}
		}()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 90, // reportes recorren todos los movimientos
		IdleTimeout:  time.Second * 60,
	})
	httpLog := log.Zerolog()
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			httpLog.Error().
				Interface("panic", e).
				Str("path", c.Path()).
				Msg("panic en handler")
		},
	}))
	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Consola de Inventario API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "epoch": reloader.Epoch()})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ProductUC:  productUC,
		MovementUC: movementUC,
		AlertUC:    alertUC,
		Dashboard:  reloader,
		Reports:    reportUC,
		JWTSecret:  cfg.JWT.Secret,
		TokenCheck: auth.NewBackendTokenCheck(summaryRepo, auth.DefaultTokenCheckTTL),
	})

	// Primer tablero en segundo plano (requiere token de servicio).
	reloader.Trigger("arranque")

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	stop()
	reloader.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// snapshotStore Redis si REDIS_ADDR está configurado; si no (o no responde), memoria.
func snapshotStore(ctx context.Context, cfg *config.Config, log *logger.Logger) repository.SnapshotRepository {
	if cfg.Redis.Addr == "" {
		return cache.NewMemorySnapshotStore(cfg.Redis.SnapshotTTL)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rdb, err := cache.NewRedisClient(pingCtx, cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis no disponible, snapshot en memoria")
		return cache.NewMemorySnapshotStore(cfg.Redis.SnapshotTTL)
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("snapshot del tablero en redis")
	return cache.NewRedisSnapshotStore(rdb, cache.DefaultSnapshotKey, cfg.Redis.SnapshotTTL)
}

// pushListener canal push según REALTIME_MODE; nil = desactivado.
func pushListener(cfg *config.Config, log *logger.Logger) ports.PushListener {
	switch cfg.Realtime.Mode {
	case config.RealtimeStomp:
		return realtime.NewStompListener(realtime.StompConfig{
			URL:          cfg.Realtime.WSURL,
			ProductTopic: cfg.Realtime.ProductTopic,
			AlertTopic:   cfg.Realtime.AlertTopic,
			Token:        cfg.Backend.ServiceToken,
			HeartBeat:    cfg.Realtime.HeartBeat,
		}, log.Component("stomp"))
	case config.RealtimeKafka:
		return realtime.NewKafkaListener(realtime.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			GroupID:      cfg.Kafka.GroupID,
			ProductTopic: cfg.Kafka.ProductTopic,
			AlertTopic:   cfg.Kafka.AlertTopic,
		}, log.Component("kafka"))
	default:
		log.Info().Msg("canal push desactivado")
		return nil
	}
}
