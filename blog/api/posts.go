package api

import (
	"net/http"

	"github.com/andrebq/blogd/internal/reply"
)

type (
	createPostRequest struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
)

func (h *handlers) createPost(w http.ResponseWriter, r *http.Request) {
	// the user is checked first, but the post does not record its author
	if _, ok := h.currentUser(w, r); !ok {
		return
	}
	var req createPostRequest
	err := reply.Decode(r, &req)
	if err != nil || len(req.Title) == 0 || len(req.Content) == 0 {
		reply.JSON(w, http.StatusBadRequest, reply.ErrorBody{Error: "Title and content are required"})
		return
	}
	_, err = h.blog.CreatePost(r.Context(), req.Title, req.Content, h.now())
	if err != nil {
		storageError(w, r, err)
		return
	}
	reply.JSON(w, http.StatusCreated, "Post Successfully Added.")
}
