package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-picker/pkg/auth"
	"restaurant-picker/pkg/config"
	"restaurant-picker/pkg/handlers"
	"restaurant-picker/pkg/log"
	"restaurant-picker/pkg/middleware"
	"restaurant-picker/pkg/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	if err := start(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "server run into an error: %s\n", err)
		os.Exit(1)
	}
}

func start(configPath string) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := log.NewZapLogger("restaurant-picker", log.ParseLevel(cfg.LogLevel))
	defer logger.Sync()

	// Initialize store
	dataStore, err := store.New(cfg.DataDir, logger.Named("store"))
	if err != nil {
		logger.Errorw("failed to initialize store", "error", err)
		return err
	}

	authService := auth.New(&cfg.Auth, dataStore)
	h := handlers.New(logger.Named("http"), dataStore, authService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger.Named("access")))
	r.Use(middleware.CORS(cfg.CORS.AllowOrigins))
	h.Routes(r)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	logger.Infow("server starting",
		"addr", srv.Addr,
		"data_dir", cfg.DataDir,
		"token_format", cfg.Auth.TokenFormat)

	return run(srv, logger)
}

func run(srv *http.Server, logger *zap.SugaredLogger) error {
	// expect a signal to gracefully shutdown the server
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()

	var err error
	select {
	case s := <-sig:
		logger.Infow("shutdown signal received", "signal", s.String())
	case err = <-errChan:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if sdErr := srv.Shutdown(ctx); sdErr != nil {
		return fmt.Errorf("server shutdown: %w", sdErr)
	}
	logger.Infow("server stopped")

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
