package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gowtham-garimella/pixora/internal/httputil"
	"github.com/gowtham-garimella/pixora/internal/model"
	"github.com/gowtham-garimella/pixora/internal/service"
)

type UserHandler struct {
	userService     *service.UserService
	activityService *service.ActivityService
	mediaService    *service.MediaService // nil when media storage is not configured
}

func NewUserHandler(userService *service.UserService, activityService *service.ActivityService, mediaService *service.MediaService) *UserHandler {
	return &UserHandler{
		userService:     userService,
		activityService: activityService,
		mediaService:    mediaService,
	}
}

// Me handles GET /me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	me, err := h.userService.Me(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "get me")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, me)
}

// UpdateMe handles PUT /me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req model.UpdateProfileRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, r, err, "update profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// UploadAvatar handles POST /me/avatar (multipart, field "avatar").
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if h.mediaService == nil {
		httputil.WriteNotFound(w, "Avatar upload is not enabled")
		return
	}

	maxFormSize := int64(model.MaxAvatarSizeBytes) + 1024*1024 // form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			writeServiceError(w, r, model.ErrFileTooLarge, "upload avatar")
		case errors.Is(err, http.ErrNotMultipart):
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
		default:
			httputil.WriteBadRequest(w, "Invalid form data")
		}
		return
	}

	file, header, err := r.FormFile(model.AvatarFormField)
	if err != nil {
		httputil.WriteBadRequest(w, "avatar file is required")
		return
	}
	defer file.Close()

	upload, err := h.mediaService.UploadAvatar(r.Context(), file, header)
	if err != nil {
		writeServiceError(w, r, err, "upload avatar")
		return
	}

	user, previous, err := h.userService.SetAvatar(r.Context(), userID, upload.URL)
	if err != nil {
		writeServiceError(w, r, err, "set avatar")
		return
	}
	if previous != "" && previous != upload.URL {
		h.mediaService.DeleteAvatarURL(r.Context(), previous)
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// Activity handles GET /me/activity?limit=N
func (h *UserHandler) Activity(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httputil.WriteBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.activityService.Recent(r.Context(), userID, limit)
	if err != nil {
		writeServiceError(w, r, err, "get activity")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, entries)
}
