package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/savekeep/savekeep/internal/config"
	"github.com/savekeep/savekeep/internal/logger"
)

type httpServer struct {
	server *http.Server

	// certFile and keyFile select the TLS listener when non-empty.
	certFile string
	keyFile  string

	logger *logger.Logger
}

func newHTTPServer(router http.Handler, addr string, cfg config.Server, logger *logger.Logger) *httpServer {
	return &httpServer{
		server: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  cfg.RequestTimeout,
			WriteTimeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
}

func newTLSServer(router http.Handler, cfg config.Server, logger *logger.Logger) *httpServer {
	s := newHTTPServer(router, cfg.TLSAddress, cfg, logger)
	s.certFile = cfg.CertFile
	s.keyFile = cfg.KeyFile
	return s
}

func (h *httpServer) RunServer() {
	var err error
	if h.certFile != "" {
		err = h.server.ListenAndServeTLS(h.certFile, h.keyFile)
	} else {
		err = h.server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		h.logger.Error().Err(err).Str("address", h.server.Addr).Msg("HTTP server stopped")
	}
}

func (h *httpServer) Shutdown() {
	if err := h.server.Shutdown(context.Background()); err != nil {
		h.logger.Error().Err(err).Msg("HTTP server Shutdown")
	}
}
