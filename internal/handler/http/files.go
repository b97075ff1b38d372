package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/savekeep/savekeep/internal/logger"
	"github.com/savekeep/savekeep/internal/service"
	"github.com/savekeep/savekeep/internal/store"
	"github.com/savekeep/savekeep/internal/utils"
	"github.com/savekeep/savekeep/models"
)

func (h *Handler) upload(category models.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromRequest(r)

		var req models.UploadRequest
		if !h.decode(w, r, &req, "Invalid request. You didn't send a valid filename.") {
			return
		}

		userID, ok := h.requireUser(w, r, req.Token)
		if !ok {
			return
		}

		err := h.services.FileService.Upload(ctx, userID, category, req.Filename, req.Data)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrQuotaExceeded):
				log.Err(err).Msg("upload over storage quota")
				respondError(w, http.StatusInsufficientStorage, "You have exceeded your storage limit.")
			case errors.Is(err, store.ErrPathEscape):
				log.Err(err).Msg("upload path escapes the sandbox")
				respondError(w, http.StatusBadRequest, msgPathEscape)
			case errors.Is(err, service.ErrInvalidDataProvided):
				log.Err(err).Msg("invalid upload request")
				respondError(w, http.StatusBadRequest, "Invalid request. You didn't send a valid filename.")
			default:
				log.Err(err).Msg("unexpected error during upload")
				respondError(w, http.StatusInternalServerError, msgSomethingWentWrong)
			}
			return
		}

		utils.WriteJSON(w, models.SuccessResponse{
			Success: true,
			Message: "The file was saved! Thank you",
		}, http.StatusCreated)
	}
}

func (h *Handler) listGames(category models.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromRequest(r)

		var req models.GameRequest
		if !h.decode(w, r, &req, "Invalid game.") {
			return
		}

		userID, ok := h.requireUser(w, r, req.Token)
		if !ok {
			return
		}

		// Clients with limited URI encoding send the game in the body; the
		// URL parameter is the fallback.
		game := req.Game
		if game == "" {
			game = chi.URLParam(r, "game")
		}

		if game == "" {
			games, err := h.services.FileService.Games(ctx, userID, category, req.ForWeb)
			if err != nil {
				// A user who never uploaded has no tree yet; the body
				// stays an empty listing either way.
				if errors.Is(err, store.ErrFileNotFound) {
					utils.WriteJSON(w, models.GamesResponse{Games: []any{}}, http.StatusNotFound)
					return
				}
				log.Err(err).Msg("game listing failed")
				respondError(w, statusFromError(err), msgSomethingWentWrong)
				return
			}

			resp := models.GamesResponse{Games: []any{}}
			for _, g := range games {
				if req.ForWeb {
					resp.Games = append(resp.Games, []any{
						g.Name,
						g.ModTime.UTC().Format("2006-01-02T15:04:05.000Z"),
						g.Size,
					})
				} else {
					resp.Games = append(resp.Games, g.Name)
				}
			}

			utils.WriteJSON(w, resp, http.StatusOK)
			return
		}

		files, err := h.services.FileService.GameFiles(ctx, userID, category, game)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrFileNotFound):
				log.Err(err).Msg("game not found")
				respondError(w, http.StatusNotFound, "Game not found.")
			case errors.Is(err, store.ErrPathEscape):
				log.Err(err).Msg("game path escapes the sandbox")
				respondError(w, http.StatusBadRequest, msgPathEscape)
			case errors.Is(err, service.ErrInvalidDataProvided):
				log.Err(err).Msg("invalid game name")
				respondError(w, http.StatusBadRequest, "Invalid game.")
			default:
				log.Err(err).Msg("save listing failed")
				respondError(w, http.StatusInternalServerError, msgSomethingWentWrong)
			}
			return
		}

		if files == nil {
			files = []string{}
		}
		utils.WriteJSON(w, models.SavesResponse{Saves: files}, http.StatusOK)
	}
}

func (h *Handler) deleteGame(category models.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromRequest(r)

		var req models.GameRequest
		if !h.decode(w, r, &req, msgInvalidToken) {
			return
		}

		userID, ok := h.requireUser(w, r, req.Token)
		if !ok {
			return
		}

		game := req.Game
		if game == "" {
			game = chi.URLParam(r, "game")
		}
		if game == "" {
			respondError(w, http.StatusBadRequest, "I need a game.")
			return
		}

		err := h.services.FileService.Delete(ctx, userID, category, game)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrFileNotFound):
				log.Err(err).Msg("game not found")
				respondError(w, http.StatusNotFound, "Game not found.")
			case errors.Is(err, store.ErrPathEscape):
				log.Err(err).Msg("game path escapes the sandbox")
				respondError(w, http.StatusBadRequest, msgPathEscape)
			case errors.Is(err, service.ErrInvalidDataProvided):
				log.Err(err).Msg("invalid game name")
				respondError(w, http.StatusBadRequest, "I need a game.")
			default:
				log.Err(err).Msg("unexpected error during game deletion")
				respondError(w, http.StatusInternalServerError, msgSomethingWentWrong)
			}
			return
		}

		utils.WriteJSON(w, models.SuccessResponse{Success: true}, http.StatusOK)
	}
}

func (h *Handler) renameGame(category models.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromRequest(r)

		var req models.GameRequest
		if !h.decode(w, r, &req, msgInvalidToken) {
			return
		}

		userID, ok := h.requireUser(w, r, req.Token)
		if !ok {
			return
		}

		if req.Game == "" || req.NewGame == "" {
			respondError(w, http.StatusBadRequest, "I need a game and a new game name.")
			return
		}

		err := h.services.FileService.Rename(ctx, userID, category, req.Game, req.NewGame)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrFileNotFound):
				log.Err(err).Msg("game not found")
				respondError(w, http.StatusNotFound, "Game not found.")
			case errors.Is(err, store.ErrGameExists):
				log.Err(err).Msg("rename target already exists")
				respondError(w, http.StatusConflict, "I can't rename a game to a game that already exists.")
			case errors.Is(err, store.ErrPathEscape):
				log.Err(err).Msg("game path escapes the sandbox")
				respondError(w, http.StatusBadRequest, msgPathEscape)
			case errors.Is(err, service.ErrInvalidDataProvided):
				log.Err(err).Msg("invalid game name")
				respondError(w, http.StatusBadRequest, "I need a game and a new game name.")
			default:
				log.Err(err).Msg("unexpected error during game rename")
				respondError(w, http.StatusInternalServerError, msgSomethingWentWrong)
			}
			return
		}

		utils.WriteJSON(w, models.SuccessResponse{Success: true}, http.StatusOK)
	}
}

func (h *Handler) download(category models.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromRequest(r)

		var req models.GameRequest
		if !h.decode(w, r, &req, "Invalid game, save or file.") {
			return
		}

		userID, ok := h.requireUser(w, r, req.Token)
		if !ok {
			return
		}

		target := path.Join(req.Game, req.File)
		if req.Game == "" && req.File == "" {
			raw := chi.URLParam(r, "*")
			unescaped, err := url.PathUnescape(raw)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid game, save or file.")
				return
			}
			target = unescaped
		}

		dl, err := h.services.FileService.Download(ctx, userID, category, target)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrFileNotFound):
				log.Err(err).Msg("download target not found")
				respondError(w, http.StatusNotFound, "File not found.")
			case errors.Is(err, store.ErrPathEscape):
				log.Err(err).Msg("download path escapes the sandbox")
				respondError(w, http.StatusBadRequest, msgPathEscape)
			case errors.Is(err, service.ErrInvalidDataProvided):
				log.Err(err).Msg("invalid download request")
				respondError(w, http.StatusBadRequest, "Invalid game, save or file.")
			default:
				log.Err(err).Msg("unexpected error during download")
				respondError(w, http.StatusInternalServerError, msgSomethingWentWrong)
			}
			return
		}

		// Directories list their files recursively instead of streaming.
		if dl.Files != nil {
			files := []string{}
			for file := range dl.Files {
				files = append(files, file)
			}
			utils.WriteJSON(w, models.FilesResponse{Files: files}, http.StatusOK)
			return
		}

		defer dl.File.Close()

		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Name))
		http.ServeContent(w, r, dl.Name, time.Time{}, dl.File)
	}
}
