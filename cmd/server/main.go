package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"socialMediaAPI/internal/auth"
	"socialMediaAPI/internal/config"
	"socialMediaAPI/internal/db"
	grpcserver "socialMediaAPI/internal/grpc"
	"socialMediaAPI/internal/httpapi"
	"socialMediaAPI/internal/logging"
	"socialMediaAPI/internal/service"
	"socialMediaAPI/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var dev bool

	flagSet := pflag.NewFlagSet("server", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to a YAML config file (SOCIAL_* env vars override it)")
	flagSet.BoolVar(&dev, "dev", false, "fall back to a built-in JWT secret when none is configured")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	// Load configuration
	load := config.Load
	if dev {
		load = config.LoadWithDefaults
	}
	cfg, err := load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "config", cfg.String())
	if cfg.UsesDevSecret() {
		logger.Warn("using the built-in development JWT secret; set SOCIAL_AUTH_JWT_SECRET in production")
	}

	// Open DB
	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			logger.Error("close db", "err", err)
		}
	}()

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	svc, err := service.New(
		repository.NewUserRepository(d),
		repository.NewPostRepository(d),
		repository.NewVoteRepository(d),
		tokens,
		service.Options{BcryptCost: cfg.Auth.BcryptCost, Logger: logger},
	)
	if err != nil {
		return err
	}

	// Start HTTP
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           httpapi.NewRouter(svc, httpapi.Options{Logger: logger, CORSOrigins: cfg.HTTP.CORSOrigins, DB: d}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "address", cfg.HTTP.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Start gRPC
	var shutdownGRPC func(context.Context) error
	if cfg.GRPC.Address != "" {
		shutdownGRPC, err = grpcserver.StartGRPC(cfg, svc, logger)
		if err != nil {
			return fmt.Errorf("start grpc: %w", err)
		}
		logger.Info("grpc server listening", "address", cfg.GRPC.Address)
	}

	// Wait for signal
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigc:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-serveErr:
		logger.Error("http server failed", "err", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http shutdown", "err", err)
	}
	if shutdownGRPC != nil {
		if err := shutdownGRPC(ctx); err != nil {
			logger.Error("grpc shutdown", "err", err)
		}
	}
	return nil
}
