package http

import (
	"errors"
	"net/http"

	"github.com/savekeep/savekeep/internal/service"
	"github.com/savekeep/savekeep/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrInvalidCode:         http.StatusBadRequest,
	service.ErrAccountNotFound:     http.StatusBadRequest,
	service.ErrInvalidCredentials:  http.StatusUnauthorized,
	service.ErrInvalidToken:        http.StatusUnauthorized,
	service.ErrResetInProgress:     http.StatusForbidden,
	service.ErrEmailTaken:          http.StatusConflict,

	store.ErrPathEscape:    http.StatusBadRequest,
	store.ErrFileNotFound:  http.StatusNotFound,
	store.ErrGameExists:    http.StatusConflict,
	store.ErrQuotaExceeded: http.StatusInsufficientStorage,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
