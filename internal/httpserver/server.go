package httpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/modelglue/embedshim/internal/config"
	publicroutes "github.com/modelglue/embedshim/internal/httpserver/public"
)

// Server wraps the Fiber app and configuration.
type Server struct {
	app *fiber.App
	cfg *config.Config
}

// New constructs a server with baseline middleware ready.
func New(cfg *config.Config, embedder publicroutes.Embedder) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedding adapter is required")
	}

	bodyLimit := cfg.Server.BodyLimitMB * 1024 * 1024
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ServerHeader:          "embedshim",
		BodyLimit:             bodyLimit,
		ReadTimeout:           cfg.Server.ReadTimeout,
	})

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(recover.New())

	registerHealthRoutes(app)
	publicroutes.Register(app, embedder, cfg.Upstream.DefaultModel)

	return &Server{
		app: app,
		cfg: cfg,
	}, nil
}

// Listen blocks until context cancellation or a fatal listen error occurs.
func (s *Server) Listen(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(s.cfg.Server.ListenAddr)
	}()

	select {
	case <-ctx.Done():
		timeout := s.cfg.Server.GracefulShutdownDelay
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := s.app.ShutdownWithContext(shutdownCtx)
		if err == nil {
			err = <-errCh
		}
		return err
	case err := <-errCh:
		return err
	}
}

// App exposes the underlying Fiber app for handler tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// registerHealthRoutes reports liveness of the shim process only. Upstream
// reachability is deliberately not probed here so orchestration tooling does
// not restart a healthy gateway when only the inference service is degraded.
func registerHealthRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "ok",
		})
	})
}
