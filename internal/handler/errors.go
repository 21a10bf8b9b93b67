package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/gowtham-garimella/pixora/internal/httputil"
	"github.com/gowtham-garimella/pixora/internal/model"
	"github.com/gowtham-garimella/pixora/internal/transport/http/middleware"
)

// writeServiceError maps domain errors onto status codes. Anything
// unrecognized is logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, model.ErrUsernameTooShort):
		httputil.WriteBadRequest(w, "Username must be at least 3 characters")
	case errors.Is(err, model.ErrPasswordRequired):
		httputil.WriteBadRequest(w, "Password is required")
	case errors.Is(err, model.ErrDisplayNameTooShort):
		httputil.WriteBadRequest(w, "Display name too short")
	case errors.Is(err, model.ErrPostFieldsNeeded):
		httputil.WriteBadRequest(w, "imageUrl and caption required")
	case errors.Is(err, model.ErrInvalidScope):
		httputil.WriteBadRequest(w, "scope must be 'all' or 'mine'")
	case errors.Is(err, model.ErrTextRequired):
		httputil.WriteBadRequest(w, "Comment text required")
	case errors.Is(err, model.ErrFileTooLarge):
		httputil.WriteBadRequest(w, "Avatar exceeds 5MB limit")
	case errors.Is(err, model.ErrInvalidImageType):
		httputil.WriteBadRequest(w, "Unsupported image type. Allowed: jpeg, png, gif")

	case errors.Is(err, model.ErrInvalidCredentials):
		httputil.WriteUnauthorized(w, "Invalid username or password")

	case errors.Is(err, model.ErrNotPostOwner):
		httputil.WriteForbidden(w, "Not your post")
	case errors.Is(err, model.ErrNotCommentOwner):
		httputil.WriteForbidden(w, "Not allowed to delete this comment")

	case errors.Is(err, model.ErrUserNotFound):
		httputil.WriteNotFound(w, "User not found")
	case errors.Is(err, model.ErrPostNotFound):
		httputil.WriteNotFound(w, "Post not found")
	case errors.Is(err, model.ErrCommentNotFound):
		httputil.WriteNotFound(w, "Comment not found")

	case errors.Is(err, model.ErrUsernameExists):
		httputil.WriteConflict(w, "Username already taken")

	default:
		userID, _ := middleware.GetUserIDFromContext(r.Context())
		log.Error().Err(err).Str("op", op).Int64("user_id", userID).Msg("Request failed")
		httputil.WriteInternalError(w, "Internal server error")
	}
}

// pathID parses a positive int64 URL parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// currentUser returns the authenticated user's ID, writing a 401 when absent.
func currentUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
	}
	return userID, ok
}
