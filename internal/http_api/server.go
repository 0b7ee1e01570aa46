package http_api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kyro-pay/gateway/internal/models"
	"github.com/kyro-pay/gateway/pkg/logger"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout = 10 * time.Second
	// RequestTimeout bounds a single API request, on-chain verification included
	RequestTimeout = 60 * time.Second
)

// HTTPServer is the HTTP server struct that will serve the API
type HTTPServer struct {
	// logger is the logger instance
	logger *logger.Logger

	// router is the HTTP router
	router *gin.Engine
	// port is the port on which the server will listen
	port int

	// server is the underlying HTTP server
	server *http.Server

	// gateway is the payment application service
	gateway models.GatewayI
	// metrics serves /metrics when set
	metrics http.Handler
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-User-ID, X-Workspace")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// requestLogger logs every request through the application logger
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if status >= http.StatusInternalServerError {
			log.Error("HTTP request", fields...)
			return
		}
		log.Debug("HTTP request", fields...)
	}
}

// NewHTTPServer creates a new HTTP server instance. metrics may be nil.
func NewHTTPServer(gateway models.GatewayI, port int, metrics http.Handler, logger *logger.Logger) *HTTPServer {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	// Add CORS middleware
	router.Use(corsMiddleware())

	server := &HTTPServer{
		router:  router,
		port:    port,
		gateway: gateway,
		metrics: metrics,
		logger:  logger,
	}

	// Define routes
	server.routes()

	return server
}

// Handler exposes the router, mainly for tests
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Start serves the API until Shutdown is called
func (s *HTTPServer) Start() error {
	addr := fmt.Sprintf("0.0.0.0:%v", s.port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Starting HTTP server", "address", addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start the HTTP server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	s.logger.Info("HTTP server shut down successfully")
	return nil
}
