// SPDX-License-Identifier: Apache-2.0

package service

import (
	"github.com/savekeep/savekeep/internal/codes"
	"github.com/savekeep/savekeep/internal/config"
	"github.com/savekeep/savekeep/internal/logger"
	"github.com/savekeep/savekeep/internal/mailer"
	"github.com/savekeep/savekeep/internal/store"
)

type Services struct {
	AccountService AccountService
	FileService    FileService
}

func NewServices(storages *store.Storages, cache *codes.Cache, mail mailer.Mailer, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AccountService: NewAccountService(storages, cache, mail, cfg.App, logger),
		FileService:    NewFileService(storages.Files, logger),
	}
}
