package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ehr/recordspanel/internal/config"
	"github.com/ehr/recordspanel/internal/dashboard"
	"github.com/ehr/recordspanel/internal/domain/account"
	"github.com/ehr/recordspanel/internal/platform/auth"
	"github.com/ehr/recordspanel/internal/platform/db"
	"github.com/ehr/recordspanel/internal/platform/middleware"
)

const shutdownTimeout = 10 * time.Second

// newServer builds the HTTP panel. The store is returned so the caller can
// run the initial fetch.
func newServer(cfg *config.Config, logger zerolog.Logger, be *backend) (*echo.Echo, *dashboard.Store) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	e.Use(middleware.Audit(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"backend": cfg.Backend,
		})
	})
	if be.Pool != nil {
		e.GET("/health/db", db.HealthHandler(be.Pool))
	}

	apiV1 := e.Group("/api/v1")
	protected := apiV1.Group("")
	if cfg.IsDev() {
		protected.Use(auth.DevAuthMiddleware())
	} else {
		protected.Use(auth.JWTMiddleware(auth.JWTConfig{
			Secret: []byte(cfg.AuthJWTSecret),
		}))
	}

	accountSvc := account.NewService(be.Registrar, logger)
	account.NewHandler(accountSvc).RegisterRoutes(apiV1, protected)

	store := dashboard.NewStore(be.Records, logger)
	dashboard.NewHandler(store, dashboard.NewForm(store)).RegisterRoutes(protected)

	return e, store
}

func runServer(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer be.Close()
	logger.Info().Str("backend", cfg.Backend).Msg("backend ready")

	e, store := newServer(cfg, logger, be)

	loadCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	if err := store.ListAll(loadCtx); err != nil {
		logger.Warn().Err(err).Msg("initial record fetch failed")
	}
	cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
