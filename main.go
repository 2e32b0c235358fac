package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	appLogger "github.com/touristique/touristique/internal/pkg/logger"

	"github.com/touristique/touristique/internal/pkg/config"
	"github.com/touristique/touristique/internal/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	if err := appLogger.Init(zap.InfoLevel); err != nil {
		return err
	}
	logger := appLogger.Log
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	otelShutdown, err := server.InitObservability("touristique", ":9092", logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	srv, err := server.New(cfg, logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	router, err := server.SetupRouter(cfg, srv.GetStore(), logger)
	if err != nil {
		return err
	}

	if err := server.SetupAssets(router); err != nil {
		logger.Error("Failed to setup assets", zap.Error(err))
		return err
	}

	srv.SetRouter(router)

	server.StartPprofServer(":6060", logger)

	httpServer := srv.HTTPServer()

	done := make(chan bool, 1)
	go server.GracefulShutdown(httpServer, logger, done)

	logger.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := httpServer.ListenAndServe(); err != nil {
		logger.Error("Server error", zap.Error(err))
	}

	<-done
	logger.Info("Graceful shutdown complete")

	return nil
}
