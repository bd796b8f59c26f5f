package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loocal/internal/config"
	"loocal/internal/database"
	"loocal/internal/discount"
	"loocal/internal/handler"
	"loocal/internal/repository"
	"loocal/internal/router"
	"loocal/internal/service"
	"loocal/internal/transport"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting loocal API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	discountRepo := repository.NewDiscountRepository(pool, logger)
	addressRepo := repository.NewAddressRepository(pool, logger)
	companyRepo := repository.NewCompanyRepository(pool, logger)

	// Resolve the transport fee table: S3 first, local file next, the
	// built-in service area as the fallback.
	resolver := transport.NewResolver(loadTransportConfig(ctx, cfg.Transport, logger), logger)

	// Initialize discount validator
	validator := discount.NewValidator(discountRepo, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(
		orderRepo, productRepo, addressRepo, companyRepo, validator, resolver, logger,
	)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	discountHandler := handler.NewDiscountHandler(validator, logger)
	paymentHandler := handler.NewPaymentHandler(orderService, cfg.Payment.IntegritySecret, logger)

	// Initialize router
	mux := router.New(productHandler, orderHandler, discountHandler, paymentHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// loadTransportConfig resolves the fee-table source. Loader failures
// fall back to the built-in service area rather than refusing to boot.
func loadTransportConfig(ctx context.Context, cfg config.TransportConfig, logger zerolog.Logger) *transport.Config {
	if cfg.S3Enabled {
		loader, err := transport.NewS3Loader(ctx, cfg.S3Bucket, cfg.S3Region, logger)
		if err == nil {
			tc, loadErr := loader.Load(ctx, cfg.S3Key)
			if loadErr == nil {
				return tc
			}
			err = loadErr
		}
		logger.Warn().Err(err).Msg("failed to load fee table from S3, falling back")
	}

	if cfg.FeeTablePath != "" {
		tc, err := transport.NewFileLoader(logger).Load(ctx, cfg.FeeTablePath)
		if err == nil {
			return tc
		}
		logger.Warn().Err(err).Str("file", cfg.FeeTablePath).Msg("failed to load fee table file, using built-in table")
	}

	return transport.DefaultConfig()
}
