package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"carteira/internal/amqp"
	"carteira/internal/cli"
	apphttp "carteira/internal/http"
	"carteira/internal/insight"
	"carteira/internal/ledger"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	repo, cleanup := cli.InitRepository(logger, cfg)
	defer func() {
		if err := cleanup(); err != nil {
			logger.Error("Storage cleanup failed", "error", err)
		}
	}()

	store, err := ledger.NewStore(context.Background(), repo)
	if err != nil {
		logger.Error("Failed to initialize ledger store", "error", err)
		os.Exit(1)
	}

	// Mutation events feed the spreadsheet mirror worker; without a
	// broker the app runs standalone.
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		store.SetPublisher(amqpClient)
		logger.Info("Transaction event publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	var insights *insight.Client
	if cfg.InsightAPIURL != "" {
		insights = insight.NewClient(cfg.InsightAPIURL, cfg.InsightAPIKey)
		logger.Info("Insight client enabled", "url", cfg.InsightAPIURL)
	} else {
		logger.Info("Insight client disabled - no INSIGHT_API_URL provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, store, insights)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting carteira server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
