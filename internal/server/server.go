package server

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/savekeep/savekeep/internal/config"
	"github.com/savekeep/savekeep/internal/handler"
	"github.com/savekeep/savekeep/internal/logger"
)

type server struct {
	httpServer *httpServer
	tlsServer  *httpServer
	logger     *logger.Logger
}

func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := new(server)

	// both listeners share one router
	router := handlers.HTTP.Init()

	if cfg.HTTPAddress != "" {
		servers.httpServer = newHTTPServer(router, cfg.HTTPAddress, cfg, logger)
	}
	if cfg.TLSAddress != "" {
		servers.tlsServer = newTLSServer(router, cfg, logger)
	}

	if servers.httpServer == nil && servers.tlsServer == nil {
		return nil, errNoServersAreCreated
	}

	servers.logger = logger

	return servers, nil
}

func (s *server) RunServer() {
	if err := s.run(); err != nil {
		s.logger.Info().Msgf("Error running server: %v \n", err)
	}
}

func (s *server) Shutdown() {
	if s.httpServer != nil {
		s.httpServer.Shutdown()
	}

	if s.tlsServer != nil {
		s.tlsServer.Shutdown()
	}
}

func (s *server) run() error {
	// check if any listener was created
	if s.httpServer == nil && s.tlsServer == nil {
		return errors.New("no servers to run")
	}

	idleConnectionsClosed := make(chan struct{})
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	// listen for stop signals
	go func() {
		<-ctx.Done()

		// finish started listeners
		s.Shutdown()

		close(idleConnectionsClosed)
	}()

	// launch all created listeners
	if s.httpServer != nil {
		s.logger.Info().Msg("Launching HTTP server")
		go s.httpServer.RunServer()
	}
	if s.tlsServer != nil {
		s.logger.Info().Msg("Launching HTTPS server")
		go s.tlsServer.RunServer()
	}

	<-idleConnectionsClosed
	s.logger.Info().Msg("server Shutdown gracefully")

	return nil
}
