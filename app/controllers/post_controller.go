package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"miniblog/app/logger"
	"miniblog/app/models"
	"miniblog/app/repositories"
	"miniblog/app/services"

	"github.com/gorilla/mux"
)

// PostController handles HTTP requests for blog posts. One instance serves
// every path prefix the router mounts it under.
type PostController struct {
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService) *PostController {
	return &PostController{postService: postService}
}

// Index lists all posts, newest first.
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPosts(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("Error fetching posts", "error", err)
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendJSON(w, http.StatusOK, posts)
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Warn("Rejected post body", "error", err)
		sendError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	post, err := pc.postService.CreatePost(r.Context(), &req)
	if err != nil {
		if services.IsValidation(err) {
			log.Warn("Rejected post", "error", err)
			sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error("Error creating post", "error", err)
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendJSON(w, http.StatusCreated, post)
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id := mux.Vars(r)["id"]

	post, err := pc.postService.DeletePost(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Info("Post not found for delete", "id", id)
			sendError(w, models.MsgPostNotFound, http.StatusNotFound)
			return
		}
		log.Error("Error deleting post", "id", id, "error", err)
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendJSON(w, http.StatusOK, models.DeleteResponse{
		Message:     models.MsgPostDeleted,
		DeletedPost: post,
	})
}
