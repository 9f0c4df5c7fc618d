package api

import (
	"fmt"
	"net/http"

	"github.com/andrebq/blogd/internal/reply"
	"github.com/andrebq/blogd/store"
)

type (
	createCommentRequest struct {
		Comment string `json:"comment"`
	}

	listCommentsResponse struct {
		Comments []store.Comment `json:"comments"`
	}
)

func (h *handlers) createComment(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req createCommentRequest
	err := reply.Decode(r, &req)
	if err != nil || len(req.Comment) == 0 {
		reply.JSON(w, http.StatusBadRequest, reply.ErrorBody{Error: "Comment is required"})
		return
	}
	_, err = h.blog.CreateComment(r.Context(), id, user.ID, req.Comment, h.now())
	if err != nil {
		storageError(w, r, err)
		return
	}
	reply.JSON(w, http.StatusCreated, fmt.Sprintf("Comment successfully added to postId %v", id))
}

func (h *handlers) listComments(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	comments, err := h.blog.ListComments(r.Context(), id)
	if err != nil {
		storageError(w, r, err)
		return
	}
	reply.JSON(w, http.StatusOK, listCommentsResponse{Comments: comments})
}
