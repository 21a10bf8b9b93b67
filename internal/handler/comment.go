package handler

import (
	"net/http"

	"github.com/gowtham-garimella/pixora/internal/httputil"
	"github.com/gowtham-garimella/pixora/internal/model"
	"github.com/gowtham-garimella/pixora/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create handles POST /posts/{id}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	postID, ok := pathID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post id")
		return
	}

	var req model.CreateCommentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	view, err := h.commentService.Add(r.Context(), postID, userID, req)
	if err != nil {
		writeServiceError(w, r, err, "add comment")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, view)
}

// Delete handles DELETE /posts/{id}/comments/{commentId}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	postID, ok := pathID(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post id")
		return
	}
	commentID, ok := pathID(r, "commentId")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid comment id")
		return
	}

	view, err := h.commentService.Delete(r.Context(), postID, commentID, userID)
	if err != nil {
		writeServiceError(w, r, err, "delete comment")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, view)
}
