// Package server boots the whole application: configuration, database,
// cache, storage, queue workers, the scheduler and the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agrovia/agrovia/app/controllers"
	"github.com/agrovia/agrovia/app/jobs"
	"github.com/agrovia/agrovia/app/repositories"
	"github.com/agrovia/agrovia/app/routes"
	"github.com/agrovia/agrovia/app/services"
	"github.com/agrovia/agrovia/config"
	"github.com/agrovia/agrovia/pkg/cache"
	"github.com/agrovia/agrovia/pkg/database"
	"github.com/agrovia/agrovia/pkg/logger"
	"github.com/agrovia/agrovia/pkg/queue"
	"github.com/agrovia/agrovia/pkg/router"
	"github.com/agrovia/agrovia/pkg/schedule"
	"github.com/agrovia/agrovia/pkg/storage"
	"github.com/agrovia/agrovia/pkg/upload"
)

// Boot connects every subsystem except HTTP. Shared between Start and
// the CLI commands that need a fully wired application.
func Boot() error {
	config.Load()

	if err := database.Connect(); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		return err
	}
	storage.Connect()

	// The queue shares the Redis connection with the cache when both run
	// on Redis; otherwise jobs stay in-process.
	if rs, ok := cache.Default().(interface{ Client() *redis.Client }); ok {
		queue.SetDriver(queue.NewRedisDriver(rs.Client()))
	}
	jobs.Register()
	return nil
}

// Start boots the application and serves HTTP until SIGINT/SIGTERM.
func Start() error {
	if err := Boot(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue.StartWorkers(ctx, 2)

	// Expired file-cache entries accumulate on disk; sweep hourly.
	schedule.Every(1).Hours().Run("cache.sweep", func() {
		if err := cache.Sweep(); err != nil {
			logger.Warn("schedule: cache sweep", "error", err)
		}
	})
	schedule.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Handler wires repositories, services and controllers into the route
// table and returns the root handler.
func Handler() http.Handler {
	return Router().Handler()
}

// Router builds the full application router. The CLI uses it to print
// the route table without starting a listener.
func Router() *router.Router {
	intake := upload.New(storage.Default())

	rt := router.New()
	routes.Register(rt, routes.Controllers{
		Auth:         controllers.NewAuthController(services.NewAuthService(repositories.NewUserRepository(database.DB))),
		Quote:        controllers.NewQuoteController(services.NewQuoteService(repositories.NewQuoteRepository(database.DB), intake)),
		Product:      controllers.NewProductController(services.NewCatalogService(repositories.NewProductRepository(database.DB), intake)),
		Message:      controllers.NewMessageController(services.NewInboxService(repositories.NewMessageRepository(database.DB))),
		Market:       controllers.NewMarketController(services.NewMarketService(nil)),
		Subscription: controllers.NewSubscriptionController(services.NewSubscriptionService(repositories.NewSubscriptionRepository(database.DB))),
		Setting:      controllers.NewSettingController(services.NewSettingService(repositories.NewSettingRepository(database.DB))),
	})
	return rt
}
