package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rickgao/voldash/internal/server/handler"
	"github.com/rickgao/voldash/internal/server/middleware"
)

// NewRouter registers every route. ws may be nil to disable the stream.
func NewRouter(h handler.HandlerItf, ws http.Handler, requestTimeout time.Duration, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Error())

	r.GET("/health", h.Health)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Timeout(requestTimeout))
	{
		v1.GET("/tags", h.GetTags)
		v1.GET("/state", h.GetState)
		v1.PUT("/state/tag", h.PutStateTag)
		v1.GET("/records", h.GetRecords)
		v1.GET("/hot-sections", h.GetHotSections)
		v1.GET("/dashboard", h.GetDashboard)
		v1.GET("/instruments/:code", h.GetInstrument)
	}

	if ws != nil {
		r.GET("/ws", gin.WrapH(ws))
	}
	return r
}

// Server runs the HTTP listener.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
	errCh  chan error
}

// New creates a Server listening on port.
func New(port int, h http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort("", strconv.Itoa(port)),
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
		errCh:  make(chan error, 1),
	}
}

// Start binds the port and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", "err", err)
			s.errCh <- err
		}
	}()

	s.logger.Info("http server started", "addr", ln.Addr().String())
	return nil
}

// Errors reports a fatal serve error.
func (s *Server) Errors() <-chan error {
	return s.errCh
}

// Stop drains in-flight requests within ctx.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}
