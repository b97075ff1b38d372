// SPDX-License-Identifier: Apache-2.0

package store

import (
	"github.com/savekeep/savekeep/internal/config"
	"github.com/savekeep/savekeep/internal/logger"
)

// Storages bundles every persistence component the service layer depends
// on: the three SQL repositories plus the on-disk file store.
type Storages struct {
	Users         UserRepository
	Tokens        TokenRepository
	Verifications VerificationRepository
	Files         FileStore
}

// NewStorages wires all repositories to the given database connection and
// creates the file store beneath cfg.DataDir.
func NewStorages(db *DB, cfg config.Storage, quota int64, logger *logger.Logger) (*Storages, error) {
	logger.Debug().Msg("creating storages")

	files, err := NewFileStore(cfg, quota, logger)
	if err != nil {
		return nil, err
	}

	return &Storages{
		Users:         NewUserRepository(db, logger),
		Tokens:        NewTokenRepository(db, logger),
		Verifications: NewVerificationRepository(db, logger),
		Files:         files,
	}, nil
}
