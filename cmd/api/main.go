package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Lelo88/inventory-api-golang/internal/config"
	"github.com/Lelo88/inventory-api-golang/internal/db"
	"github.com/Lelo88/inventory-api-golang/internal/docs"
	"github.com/Lelo88/inventory-api-golang/internal/health"
	"github.com/Lelo88/inventory-api-golang/internal/httpx"
	"github.com/Lelo88/inventory-api-golang/internal/logging"
	"github.com/Lelo88/inventory-api-golang/internal/products"
	"github.com/Lelo88/inventory-api-golang/internal/units"
)

const (
	janitorEvery = time.Minute
	janitorIdle  = 5 * time.Minute
)

// appPool es lo que la app usa del pool: queries, transacciones, ping y cierre.
type appPool interface {
	db.DBTX
	Ping(ctx context.Context) error
	Close()
}

// appDeps permite reemplazar las dependencias externas en tests.
type appDeps struct {
	loadConfig func() (config.Config, error)
	newLogger  func(options logging.Options) (*zap.Logger, error)
	newPool    func(ctx context.Context, url string) (appPool, error)
	serve      func(ctx context.Context, server *http.Server, shutdownTimeout time.Duration) error
}

var (
	loadConfigFn = config.Load
	newLoggerFn  = logging.New
	newPoolFn    = func(ctx context.Context, url string) (appPool, error) {
		pool, err := db.NewPool(ctx, url)
		if err != nil {
			return nil, err
		}
		return pool, nil
	}
	serveFn = serve
	// Si falla el arranque puede no haber logger todavía.
	fatalf = func(args ...any) { log.Fatal(args...) }
)

func main() {
	// Contexto raíz del proceso: se cancela con SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := appDeps{
		loadConfig: loadConfigFn,
		newLogger:  newLoggerFn,
		newPool:    newPoolFn,
		serve:      serveFn,
	}
	if err := run(ctx, deps); err != nil {
		fatalf(err)
	}
}

func run(ctx context.Context, deps appDeps) error {
	cfg, err := deps.loadConfig()
	if err != nil {
		return err
	}

	logger, err := deps.newLogger(logging.Options{Mode: cfg.LogMode, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	pool, err := deps.newPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database connection failed", zap.Error(err))
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           buildRouter(ctx, pool, logger, cfg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("listening", zap.String("addr", server.Addr), zap.String("log_mode", cfg.LogMode))
	if err := deps.serve(ctx, server, cfg.ShutdownTimeout); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return err
	}

	logger.Info("server stopped")
	return nil
}

// serve atiende hasta que ctx se cancele y después apaga el server ordenadamente.
// Si el listener falla, el errgroup cancela groupCtx y el shutdown no queda esperando.
func serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

func buildRouter(ctx context.Context, pool appPool, logger *zap.Logger, cfg config.Config) http.Handler {
	router := chi.NewRouter()

	// Middlewares base para trazabilidad y estabilidad.
	router.Use(httpx.RequestID)
	router.Use(middleware.RealIP)
	router.Use(httpx.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		router.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	// Errores de routing se manejan a nivel router.
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusNotFound, "not_found", "resource not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	health.RegisterRoutes(router, health.New(pool).WithLogger(logger))
	docs.RegisterRoutes(router)

	// Health y docs quedan fuera del rate limit.
	router.Group(func(api chi.Router) {
		if cfg.RateLimitRPS > 0 {
			limiter := httpx.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
			limiter.StartJanitor(ctx, janitorEvery, janitorIdle)
			api.Use(limiter.Middleware)
		}

		products.RegisterRoutes(api, products.NewHandler(products.NewService(products.NewRepository(pool)), logger))
		units.RegisterRoutes(api, units.NewHandler(units.NewService(units.NewRepository(pool)), logger))
	})

	return router
}
