package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"xmlsearch/internal/api"
	"xmlsearch/internal/config"
	"xmlsearch/internal/logging"
)

// Server HTTP 服务器
type Server struct {
	router *gin.Engine
	api    *api.Handler
	http   *http.Server
	logger *slog.Logger
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig, logger *slog.Logger, version string) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if devMode {
		router.Use(gin.Logger(), logging.ContextMiddleware(logger))
	} else {
		router.Use(logging.GinMiddleware(logger))
	}
	router.MaxMultipartMemory = cfg.Upload.MaxBytes

	handler := api.NewHandler(api.Options{
		MaxUploadBytes: cfg.Upload.MaxBytes,
		DocumentTTL:    time.Duration(cfg.Upload.DocumentTTLMins) * time.Minute,
		DownloadTTL:    time.Duration(cfg.Export.DownloadTTLMins) * time.Minute,
		Version:        version,
	})

	s := &Server{
		router: router,
		api:    handler,
		logger: logger,
	}
	s.setupRoutes()

	timeout := time.Duration(cfg.Server.RequestTimeout) * time.Second
	s.http = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Expose-Headers", "Content-Disposition, X-Match-Count")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	s.api.RegisterRoutes(s.router.Group("/api"))

	s.router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
}

// Handler 返回路由（测试用）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器，阻塞直到 ctx 结束后优雅关闭
func (s *Server) Run(ctx context.Context, addr string) error {
	s.http.Addr = addr

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.String("addr", addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
