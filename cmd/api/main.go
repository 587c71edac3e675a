package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/aminejml/permigo/internal/pkg/logger"
	"github.com/aminejml/permigo/internal/server"
)

// @title Permigo API
// @version 1.0
// @description Driving school exam preparation and licensing platform API

// @contact.name API Support
// @contact.email support@permigo.app

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	// Local development convenience, missing .env is fine
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("No .env file found, using environment variables")
	}

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
