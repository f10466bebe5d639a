package cli

import (
	"context"
	"fmt"
	"io"
	"labsite/internal/api"
	"labsite/internal/model"
	"labsite/internal/notify"
	"labsite/internal/storage"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(version)
		},
	}
}

func runServe(version string) error {
	// 初始化配置
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	stores, err := model.InitStores(&cfg)
	if err != nil {
		return fmt.Errorf("initialise stores: %w", err)
	}

	store, err := storage.NewStorage(cfg)
	if err != nil {
		return fmt.Errorf("initialise storage: %w", err)
	}

	notifier, err := notify.NewFromConfig(&cfg)
	if err != nil {
		return fmt.Errorf("initialise notifier: %w", err)
	}
	if closer, ok := notifier.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logrus.WithError(err).Warn("failed to close notifier")
			}
		}()
	}

	if cfg.JWTSecret == "" {
		logrus.Warn("JWT_SECRET is not set; sessions will not survive a restart")
	}

	httpHandler, err := api.NewHTTPHandler(cfg, api.Dependencies{
		Stores:   stores,
		Storage:  store,
		Notifier: notifier,
	})
	if err != nil {
		return fmt.Errorf("initialise http handler: %w", err)
	}

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)
	r := api.NewRouter(httpHandler)

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	// 创建HTTP服务器
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{
			"host":     serverHost,
			"version":  version,
			"db_type":  cfg.DBType,
			"storage":  cfg.StorageType,
			"notifier": cfg.NotifierType,
		}).Info("服务器启动")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("服务器启动失败: %w", err)
	case <-ctx.Done():
		logrus.Info("shutdown signal received, draining connections")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logrus.Info("server stopped")
	return nil
}
