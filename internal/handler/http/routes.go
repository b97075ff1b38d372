package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/savekeep/savekeep/models"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS", "PUT", "DELETE"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.withBodyLimit)
	router.Use(h.withCookieToken)

	// access
	router.Post("/register", h.register)
	router.Post("/getToken", h.getToken)
	router.HandleFunc("/getUserID", h.getUserID)
	router.Post("/shorthandToken", h.shorthandToken)
	router.Post("/checkShorthandTokenExists", h.checkShorthandTokenExists)

	// account management
	router.Post("/changePassword", h.changePassword)
	router.Post("/forgotPassword", h.forgotPassword)
	router.Post("/verifyEmail", h.verifyEmail)
	router.Post("/changeEmail", h.changeEmail)
	router.Post("/deleteAccount", h.deleteAccount)

	// save management, one route set per category
	for suffix, category := range map[string]models.Category{
		"Saves":   models.CategorySaves,
		"Extdata": models.CategoryExtdata,
	} {
		router.Post("/upload"+suffix, h.upload(category))
		router.Post("/get"+suffix, h.listGames(category))
		router.Post("/get"+suffix+"/{game}", h.listGames(category))
		router.Post("/delete"+suffix, h.deleteGame(category))
		router.Post("/delete"+suffix+"/{game}", h.deleteGame(category))
		router.Post("/rename"+suffix, h.renameGame(category))
		router.HandleFunc("/download"+suffix, h.download(category))
		router.HandleFunc("/download"+suffix+"/*", h.download(category))
	}

	// misc
	router.HandleFunc("/areyouawake", h.areYouAwake)
	router.Post("/setTokenCookie", h.setTokenCookie)
	router.HandleFunc("/deleteTokenCookie", h.deleteTokenCookie)

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
