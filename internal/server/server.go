package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mohammad-safakhou/khobor/config"
	"github.com/mohammad-safakhou/khobor/engine"
	"github.com/mohammad-safakhou/khobor/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options wires the HTTP surface. Gatherer may be nil when metrics are disabled.
type Options struct {
	Desk        *engine.Desk
	Metrics     *telemetry.Metrics
	Gatherer    prometheus.Gatherer
	MetricsPath string
	Logger      *log.Logger
}

// New builds the echo instance with every route registered.
func New(opts Options) *echo.Echo {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewMetrics(nil)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))
	e.Use(countRequests(metrics))
	// Unified HTTP error handler with structured JSON and logging
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code, body := errorResponse(err)
		req := c.Request()
		logger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, body)
		}
	}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	registerDocs(e)
	if opts.Gatherer != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		e.GET(path, echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := e.Group("/api")
	sh := &SessionsHandler{Desk: opts.Desk}
	sh.Register(api.Group("/sessions"))
	return e
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg config.ServerConfig, opts Options) error {
	if opts.Logger == nil {
		opts.Logger = log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	}
	e := New(opts)
	addr := cfg.Address
	if addr == "" {
		addr = ":10001"
	}

	errCh := make(chan error, 1)
	opts.Logger.Printf("listening on %s", addr)
	go func() {
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func countRequests(m *telemetry.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			code := c.Response().Status
			if err != nil {
				code, _ = errorResponse(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
			return err
		}
	}
}
