package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"musespark-backend/internal/config"
	"musespark-backend/internal/genai"
	"musespark-backend/internal/handler"
	"musespark-backend/internal/metrics"
	"musespark-backend/internal/service"
	"musespark-backend/internal/storage"
	"musespark-backend/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE:  runServe,
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	}); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	chatModel, err := genai.NewChatModel(ctx, cfg.LLM)
	if err != nil {
		return fmt.Errorf("init chat model: %w", err)
	}
	client, err := genai.NewClient(ctx, chatModel, genai.Options{
		Breaker:       cfg.Breaker,
		SuggestionTTL: cfg.Suggestion.CacheTTL,
		Metrics:       m,
	})
	if err != nil {
		return fmt.Errorf("init generation client: %w", err)
	}

	app := service.New(service.Options{
		Storage:        store,
		Generator:      client,
		Metrics:        m,
		TitleMaxLength: cfg.Session.TitleMaxLength,
		RootLabel:      cfg.Session.RootLabel,
		RemoteTimeout:  cfg.LLM.Timeout,
	})
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()
	go app.Run(appCtx)

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        setupRouter(cfg, handler.NewHandler(app), m),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("服务器启动在端口 %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("服务器正在关闭...")
	// Stopping the app first ends every event stream.
	stopApp()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("服务器关闭失败: %v", err)
	}
	logger.Info("服务器已关闭")
	return nil
}

func setupRouter(cfg *config.Config, h *handler.Handler, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(handler.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(handler.Metrics(m))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api")
	if cfg.RateLimit.Enabled {
		api.Use(handler.RateLimit(handler.NewRateLimiter(cfg.RateLimit)))
	}
	h.Register(api)

	return router
}
