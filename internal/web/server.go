package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"snsbuilder/internal/shell"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	readHeaderTimeout = 10 * time.Second
	// Generation with web search takes a while.
	writeTimeout = 3 * time.Minute
)

type Server struct {
	echo *echo.Echo
	addr string
	log  *slog.Logger
}

func New(addr string, generator shell.StrategyGenerator, log *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = &echo.TemplateRenderer{Template: parseTemplates()}
	e.Server.ReadHeaderTimeout = readHeaderTimeout
	e.Server.WriteTimeout = writeTimeout

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"requestID", v.RequestID,
			}

			if v.Error != nil {
				log.ErrorContext(ctx, "Request failed", append(attrs, "error", v.Error)...)
				return nil
			}

			log.InfoContext(ctx, "Request is handled", attrs...)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	registerRoutes(e, NewHandler(generator, log))

	return &Server{echo: e, addr: addr, log: log}
}

func registerRoutes(e *echo.Echo, h *Handler) {
	e.GET("/", h.Index)
	e.POST("/", h.Submit)
	e.POST("/api/strategy", h.Strategy)
	e.GET("/healthz", h.Health)
}

// ServeHTTP lets the server be driven without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start blocks until the server is shut down.
func (s *Server) Start() error {
	s.log.Info("Starting HTTP server",
		"addr", s.addr)

	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start http server: %w", err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}
