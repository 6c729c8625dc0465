package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "voice-analysis-toolkit/docs" // Generated swagger docs
	"voice-analysis-toolkit/internal/api/middleware"
	v1routes "voice-analysis-toolkit/internal/api/v1/routes"
	"voice-analysis-toolkit/internal/api/v1/services"
	"voice-analysis-toolkit/internal/app"
	"voice-analysis-toolkit/web"
	"voice-analysis-toolkit/web/handlers"
)

// Config represents API server configuration
type Config struct {
	Addr          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	Environment   string
	UploadDir     string
	SessionMaxAge int
	SecureCookies bool
}

// Server is the web UI plus the v1 JSON API
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer builds the router from the wired application
func NewServer(application *app.Application) (*Server, error) {
	cfg := application.Config
	logger := application.Logger.Named("server")
	config := Config{
		Addr:          cfg.Addr(),
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		IdleTimeout:   cfg.Server.IdleTimeout,
		Environment:   cfg.App.Environment,
		UploadDir:     cfg.Server.UploadDir,
		SessionMaxAge: int(cfg.Session.TTL.Seconds()),
		SecureCookies: cfg.IsProduction(),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	uploads, err := services.NewLocalUploadService(config.UploadDir, application.Logger)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(application.Logger))
	router.Use(middleware.ErrorHandler(application.Logger))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(middleware.Metrics(application.Metrics))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":                 "healthy",
			"timestamp":              time.Now().Unix(),
			"transcription_provider": application.Registry.DefaultProviderName(),
			"analysis_backend":       application.Backend.Name(),
		})
	})
	router.GET("/metrics", gin.WrapH(application.Metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	container := &v1routes.ServiceContainer{
		SessionService: application.Controller,
		UploadService:  uploads,
		ProviderService: services.NewProviderService(
			application.Registry,
			application.ProviderMetrics,
			application.Orchestrator,
			application.Backend,
		),
	}
	if cfg.History.Enabled {
		container.HistoryService = services.NewHistoryService(application.History)
	}

	session := middleware.Session(config.SessionMaxAge, config.SecureCookies)
	v1routes.RegisterRoutes(router.Group("/api/v1", session), container)

	err = web.Register(router.Group("/", session), handlers.PageData{
		Title:             cfg.App.Title,
		Description:       cfg.App.Description,
		MaxFileSizeMB:     cfg.Limits.MaxFileSizeMB,
		MaxFileLengthMins: cfg.Limits.MaxFileLengthMins,
		AllowedExtensions: cfg.Limits.AllowedExtensions,
	})
	if err != nil {
		return nil, err
	}

	return &Server{
		config: config,
		router: router,
		httpServer: &http.Server{
			Addr:         config.Addr,
			Handler:      router,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		logger: logger,
	}, nil
}

// Start listens in the background. The returned channel yields the listen
// error, if any, and is closed once the server stops.
func (s *Server) Start() <-chan error {
	s.logger.Info("Starting web server",
		zap.String("address", s.config.Addr),
		zap.String("environment", s.config.Environment))

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return errCh
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down web server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}
	s.logger.Info("Web server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
