// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/savekeep/savekeep/internal/config"
	"github.com/savekeep/savekeep/internal/logger"
	"github.com/savekeep/savekeep/models"
)

// fileStore is the on-disk implementation of [FileStore]. Each user owns two
// directory trees, one per category:
//
//	<root>/saves/<userID>/<game>/...
//	<root>/extdata/<userID>/<game>/...
//
// Every path supplied by callers is cleaned and verified to stay inside the
// user's own tree before it touches the filesystem. Quota accounting is an
// in-process walk over both trees, so usage never drifts from what is
// actually on disk.
type fileStore struct {
	root   string
	quota  int64
	logger *logger.Logger
}

// NewFileStore constructs a [FileStore] rooted at cfg.DataDir, creating the
// category directories if they do not yet exist. quota is the per-account
// byte ceiling; zero disables enforcement.
func NewFileStore(cfg config.Storage, quota int64, logger *logger.Logger) (FileStore, error) {
	logger.Debug().Msg("creating file store")

	root, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("error resolving data directory: %w", err)
	}

	for _, category := range models.Categories() {
		if err := os.MkdirAll(filepath.Join(root, string(category)), 0o755); err != nil {
			return nil, fmt.Errorf("error creating data directory: %w", err)
		}
	}

	return &fileStore{
		root:   root,
		quota:  quota,
		logger: logger,
	}, nil
}

// Upload writes data under the user's category tree and bumps the game
// directory's modification time, which is what the annotated game listing
// reports as "last played".
func (f *fileStore) Upload(ctx context.Context, userID string, category models.Category, relativePath string, data []byte) error {
	log := logger.FromContext(ctx)

	target, err := f.resolve(userID, category, relativePath)
	if err != nil {
		return err
	}

	if f.quota > 0 {
		usage, err := f.Usage(ctx, userID)
		if err != nil {
			return err
		}
		if usage+int64(len(data)) > f.quota {
			return ErrQuotaExceeded
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		log.Err(err).Str("func", "*fileStore.Upload").Msg("error creating parent directories")
		return fmt.Errorf("error creating parent directories: %w", err)
	}

	if err := os.WriteFile(target, data, 0o644); err != nil {
		log.Err(err).Str("func", "*fileStore.Upload").Msg("error writing file")
		return fmt.Errorf("error writing file: %w", err)
	}

	// treat any upload as activity on the whole game
	if gameDir, ok := f.gameDir(userID, category, relativePath); ok {
		now := time.Now()
		if err := os.Chtimes(gameDir, now, now); err != nil {
			log.Warn().Err(err).Str("func", "*fileStore.Upload").Msg("error touching game directory")
		}
	}

	return nil
}

// ListGames enumerates the top-level game directories of one category,
// hidden entries excluded. With annotate set, each entry carries the
// directory's modification time and its recursive size. A user whose tree
// was never created fails with [ErrFileNotFound].
func (f *fileStore) ListGames(ctx context.Context, userID string, category models.Category, annotate bool) ([]models.GameInfo, error) {
	userRoot, err := f.resolve(userID, category, ".")
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(userRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("error listing games: %w", err)
	}

	games := make([]models.GameInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		game := models.GameInfo{Name: entry.Name()}
		if annotate {
			info, err := entry.Info()
			if err != nil {
				return nil, fmt.Errorf("error reading game directory: %w", err)
			}
			game.ModTime = info.ModTime()
			game.Size = treeSize(filepath.Join(userRoot, entry.Name()))
		}
		games = append(games, game)
	}

	return games, nil
}

// ListGameFiles returns the names of the immediate entries of one game
// directory, hidden entries excluded. A path that does not exist or is not
// a directory fails with [ErrFileNotFound].
func (f *fileStore) ListGameFiles(ctx context.Context, userID string, category models.Category, game string) ([]string, error) {
	gameRoot, err := f.resolve(userID, category, game)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(gameRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("error reading game directory: %w", err)
	}
	if !info.IsDir() {
		return nil, ErrFileNotFound
	}

	entries, err := os.ReadDir(gameRoot)
	if err != nil {
		return nil, fmt.Errorf("error reading game directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		files = append(files, entry.Name())
	}

	return files, nil
}

// DeleteGame recursively removes one game directory.
func (f *fileStore) DeleteGame(ctx context.Context, userID string, category models.Category, game string) error {
	gameRoot, err := f.resolve(userID, category, game)
	if err != nil {
		return err
	}

	if _, err := os.Stat(gameRoot); err != nil {
		if os.IsNotExist(err) {
			return ErrFileNotFound
		}
		return fmt.Errorf("error reading game directory: %w", err)
	}

	if err := os.RemoveAll(gameRoot); err != nil {
		return fmt.Errorf("error deleting game: %w", err)
	}

	return nil
}

// RenameGame moves a game directory within the user's sandbox. The
// destination must not already exist.
func (f *fileStore) RenameGame(ctx context.Context, userID string, category models.Category, game, newGame string) error {
	oldPath, err := f.resolve(userID, category, game)
	if err != nil {
		return err
	}
	newPath, err := f.resolve(userID, category, newGame)
	if err != nil {
		return err
	}

	if _, err := os.Stat(oldPath); err != nil {
		if os.IsNotExist(err) {
			return ErrFileNotFound
		}
		return fmt.Errorf("error reading game directory: %w", err)
	}

	if _, err := os.Stat(newPath); err == nil {
		return ErrGameExists
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking rename target: %w", err)
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("error renaming game: %w", err)
	}

	return nil
}

// Open resolves path for download. A regular file yields an open byte
// stream the caller must close. A directory yields a lazy enumeration of
// the relative paths beneath it, so a client can discover what to fetch
// without the server buffering the listing.
func (f *fileStore) Open(ctx context.Context, userID string, category models.Category, path string) (models.Download, error) {
	target, err := f.resolve(userID, category, path)
	if err != nil {
		return models.Download{}, err
	}

	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Download{}, ErrFileNotFound
		}
		return models.Download{}, fmt.Errorf("error reading download target: %w", err)
	}

	if info.IsDir() {
		return models.Download{
			Files: walkFiles(target),
		}, nil
	}

	file, err := os.Open(target)
	if err != nil {
		return models.Download{}, fmt.Errorf("error opening file: %w", err)
	}

	return models.Download{
		File: file,
		Name: info.Name(),
		Size: info.Size(),
	}, nil
}

// Usage sums the recursive byte usage of the user across both categories.
func (f *fileStore) Usage(ctx context.Context, userID string) (int64, error) {
	var total int64
	for _, category := range models.Categories() {
		userRoot, err := f.resolve(userID, category, ".")
		if err != nil {
			return 0, err
		}
		total += treeSize(userRoot)
	}

	return total, nil
}

// DeleteUserData removes both category trees of the user.
func (f *fileStore) DeleteUserData(ctx context.Context, userID string) error {
	for _, category := range models.Categories() {
		userRoot, err := f.resolve(userID, category, ".")
		if err != nil {
			return err
		}
		if err := os.RemoveAll(userRoot); err != nil {
			return fmt.Errorf("error deleting user data: %w", err)
		}
	}

	return nil
}

// resolve maps a caller-supplied relative path into the user's category
// tree. Cleaned paths that climb out of the tree, absolute paths, and
// malformed user or category identifiers all fail with [ErrPathEscape].
func (f *fileStore) resolve(userID string, category models.Category, rel string) (string, error) {
	if !category.Valid() {
		return "", ErrPathEscape
	}
	if userID == "" || !filepath.IsLocal(userID) || strings.ContainsAny(userID, `/\`) {
		return "", ErrPathEscape
	}

	userRoot := filepath.Join(f.root, string(category), userID)

	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if cleaned == "." {
		return userRoot, nil
	}
	if !filepath.IsLocal(cleaned) {
		return "", ErrPathEscape
	}

	return filepath.Join(userRoot, cleaned), nil
}

// gameDir returns the top-level game directory a relative upload path
// belongs to.
func (f *fileStore) gameDir(userID string, category models.Category, rel string) (string, bool) {
	cleaned := filepath.ToSlash(filepath.Clean(filepath.FromSlash(rel)))
	game, _, found := strings.Cut(cleaned, "/")
	if !found || game == "" {
		return "", false
	}

	path, err := f.resolve(userID, category, game)
	if err != nil {
		return "", false
	}

	return path, true
}

// treeSize walks a directory summing regular file sizes. A missing or
// partially unreadable tree counts what it can reach.
func treeSize(root string) int64 {
	var total int64
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})

	return total
}

// walkFiles lazily enumerates the relative slash-separated paths of all
// regular files beneath root. The sequence is restartable: each range
// re-walks the tree.
func walkFiles(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}
			if !yield(filepath.ToSlash(rel)) {
				return fs.SkipAll
			}
			return nil
		})
	}
}
