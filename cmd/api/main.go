package main

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/yigit/freshman/internal/pkg/logger"
	"github.com/yigit/freshman/internal/server"
)

// @title Kite Freshman API
// @version 1.0
// @description Freshman binding, classmates and real-identity approvals
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	configPath := pflag.StringP("config", "c", "configs/config.yaml", "path to the YAML configuration file")
	pflag.Parse()

	srv, err := server.NewServer(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
