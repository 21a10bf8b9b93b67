package handler

import (
	"net/http"

	"github.com/gowtham-garimella/pixora/internal/httputil"
	"github.com/gowtham-garimella/pixora/internal/model"
	"github.com/gowtham-garimella/pixora/internal/service"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// List handles GET /posts?scope=all|mine
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	views, err := h.postService.List(r.Context(), userID, r.URL.Query().Get("scope"))
	if err != nil {
		writeServiceError(w, r, err, "list posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, views)
}

// Create handles POST /posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req model.CreatePostRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	view, err := h.postService.Create(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, err, "create post")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, view)
}

// Delete handles DELETE /posts/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	postID, ok := pathID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post id")
		return
	}

	if err := h.postService.Delete(r.Context(), postID, userID); err != nil {
		writeServiceError(w, r, err, "delete post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Like handles POST /posts/{id}/like
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	postID, ok := pathID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post id")
		return
	}

	view, err := h.postService.Like(r.Context(), postID, userID)
	if err != nil {
		writeServiceError(w, r, err, "like post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, view)
}

// Unlike handles POST /posts/{id}/unlike
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	postID, ok := pathID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post id")
		return
	}

	view, err := h.postService.Unlike(r.Context(), postID, userID)
	if err != nil {
		writeServiceError(w, r, err, "unlike post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, view)
}
