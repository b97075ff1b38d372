// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/savekeep/savekeep/internal/logger"
	"github.com/savekeep/savekeep/internal/store"
	"github.com/savekeep/savekeep/models"
)

// maxPathLength caps inbound file and game path strings.
const maxPathLength = 512

// fileService is the concrete implementation of [FileService]. Input
// validation lives here; sandbox resolution and quota enforcement live in
// the file store it wraps.
type fileService struct {
	files  store.FileStore
	logger *logger.Logger
}

// NewFileService constructs a [FileService] over the given file store.
func NewFileService(files store.FileStore, logger *logger.Logger) FileService {
	return &fileService{
		files:  files,
		logger: logger,
	}
}

// Upload decodes base64Data and writes it to filename inside the user's
// category tree. Hidden filenames (leading dot), over-length paths, and
// undecodable payloads fail fast without touching the store.
func (f *fileService) Upload(ctx context.Context, userID string, category models.Category, filename, base64Data string) error {
	if err := validatePath(filename); err != nil {
		return err
	}
	if strings.HasPrefix(filename, ".") {
		return ErrInvalidDataProvided
	}

	data, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return ErrInvalidDataProvided
	}

	return f.files.Upload(ctx, userID, category, filename, data)
}

// Games lists the user's top-level game directories in one category.
func (f *fileService) Games(ctx context.Context, userID string, category models.Category, annotate bool) ([]models.GameInfo, error) {
	if !category.Valid() {
		return nil, ErrInvalidDataProvided
	}

	return f.files.ListGames(ctx, userID, category, annotate)
}

// GameFiles lists the files of one game directory.
func (f *fileService) GameFiles(ctx context.Context, userID string, category models.Category, game string) ([]string, error) {
	if err := validatePath(game); err != nil {
		return nil, err
	}

	return f.files.ListGameFiles(ctx, userID, category, game)
}

// Delete removes one game directory recursively.
func (f *fileService) Delete(ctx context.Context, userID string, category models.Category, game string) error {
	if err := validatePath(game); err != nil {
		return err
	}

	return f.files.DeleteGame(ctx, userID, category, game)
}

// Rename moves a game directory to a new name.
func (f *fileService) Rename(ctx context.Context, userID string, category models.Category, game, newGame string) error {
	if err := validatePath(game); err != nil {
		return err
	}
	if err := validatePath(newGame); err != nil {
		return err
	}

	return f.files.RenameGame(ctx, userID, category, game, newGame)
}

// Download resolves path for retrieval: a byte stream for files, a lazy
// listing for directories.
func (f *fileService) Download(ctx context.Context, userID string, category models.Category, path string) (models.Download, error) {
	if err := validatePath(path); err != nil {
		return models.Download{}, err
	}

	return f.files.Open(ctx, userID, category, path)
}

func validatePath(path string) error {
	if path == "" || len(path) > maxPathLength {
		return ErrInvalidDataProvided
	}

	return nil
}
