package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/autoclock/scheduler/internal/api/middleware"
	"github.com/autoclock/scheduler/pkg/config"
	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

func NewServer(
	cfg *config.Config,
	common *CommonAPI,
	users *UserAPI,
	catalog *CatalogAPI,
	policies *PolicyAPI,
	tasks *TaskAPI,
	logger *zap.Logger,
) *Server {
	s := &Server{logger: logger}

	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.ErrorHandlingMiddleware(logger))
	s.router.Use(middleware.Cors(cfg.Server.AllowOrigins))

	NewCommonAPIWrap(common).BindAll(s.router)
	NewUserAPIWrap(users).BindAll(s.router)
	NewCatalogAPIWrap(catalog).BindAll(s.router)
	NewPolicyAPIWrap(policies).BindAll(s.router)
	NewTaskAPIWrap(tasks).BindAll(s.router)

	s.http = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}
	return s
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run 阻塞直到 Shutdown 被调用
func (s *Server) Run() error {
	s.logger.Info("starting API server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "API server")
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
