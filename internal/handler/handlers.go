package handler

import (
	"github.com/savekeep/savekeep/internal/config"
	"github.com/savekeep/savekeep/internal/handler/http"
	"github.com/savekeep/savekeep/internal/logger"
	"github.com/savekeep/savekeep/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.Server.HTTPAddress == "" && cfg.Server.TLSAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{
		HTTP: http.NewHandler(services, cfg.App, cfg.Server, logger),
	}, nil
}
