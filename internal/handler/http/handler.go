package http

import (
	"github.com/go-playground/validator/v10"

	"github.com/savekeep/savekeep/internal/config"
	"github.com/savekeep/savekeep/internal/logger"
	"github.com/savekeep/savekeep/internal/service"
)

type Handler struct {
	services *service.Services

	app     config.App
	origins []string

	validate *validator.Validate

	logger *logger.Logger
}

func NewHandler(services *service.Services, app config.App, srv config.Server, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		app:      app,
		origins:  srv.AllowedOrigins,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}
