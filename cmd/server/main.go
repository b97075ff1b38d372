package main

import (
	"context"
	"fmt"

	"github.com/savekeep/savekeep/internal/codes"
	"github.com/savekeep/savekeep/internal/config"
	"github.com/savekeep/savekeep/internal/handler"
	"github.com/savekeep/savekeep/internal/logger"
	"github.com/savekeep/savekeep/internal/mailer"
	"github.com/savekeep/savekeep/internal/server"
	"github.com/savekeep/savekeep/internal/service"
	"github.com/savekeep/savekeep/internal/store"
	"github.com/savekeep/savekeep/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("savekeep-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var db *store.DB
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err = store.NewConnectPostgres(ctx, cfg.Storage, log)
	default:
		db, err = store.NewConnectSQLite(ctx, cfg.Storage, log)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error migrating database")
	}

	storages, err := store.NewStorages(db, cfg.Storage, cfg.App.QuotaBytes, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	mail, err := mailer.NewMailer(cfg.Mailer, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating mailer")
	}

	cache := codes.NewCache(codes.TTL)

	services := service.NewServices(storages, cache, mail, *cfg, log)

	handlers, err := handler.NewHandlers(services, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	workers.NewWorkers(storages, cfg.Janitor, log).Run(ctx)

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
