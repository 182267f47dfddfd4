package api

import (
	"errors"
	"net/http"

	"board/pkg/storage"
)

// statusOf maps domain failures onto HTTP statuses: not-found 404, duplicates
// 409, invalid input and constraint violations 400, ownership failures 403.
// Anything outside the domain taxonomy is a 500.
func statusOf(err error) int {
	switch {
	case errors.Is(err, storage.ErrUserNotFound),
		errors.Is(err, storage.ErrPostNotFound),
		errors.Is(err, storage.ErrCategoryNotFound),
		errors.Is(err, storage.ErrCommentNotFound),
		errors.Is(err, storage.ErrBookmarkNotFound):
		return http.StatusNotFound

	case errors.Is(err, storage.ErrDuplicateEmail),
		errors.Is(err, storage.ErrDuplicateNickname),
		errors.Is(err, storage.ErrDuplicateCategory):
		return http.StatusConflict

	case errors.Is(err, storage.ErrMissingField),
		errors.Is(err, storage.ErrCategoryInUse):
		return http.StatusBadRequest

	case errors.Is(err, storage.ErrNotAuthorized):
		return http.StatusForbidden

	default:
		return http.StatusInternalServerError
	}
}

// writeError sends the mapped status to the client. Domain failures carry
// their message; unexpected storage errors are not leaked.
func writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		http.Error(w, "Internal Server Error", status)
		return
	}
	http.Error(w, err.Error(), status)
}
