package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devlink/backend/internal/middleware"
	"github.com/devlink/backend/internal/models"
	"github.com/devlink/backend/internal/services"
)

type PostHandler struct {
	posts services.PostService
}

func NewPostHandler(posts services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	post, err := h.posts.Create(ctx, userID, req.Text)
	if err != nil {
		log.Printf("[CreatePost] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	posts, err := h.posts.List(ctx)
	if err != nil {
		log.Printf("[ListPosts] error=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	post, err := h.posts.GetByID(ctx, postID)
	if err != nil {
		if err == services.ErrPostNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Post not found"))
			return
		}
		log.Printf("[GetPost] post=%s error=%v", postID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.posts.Delete(ctx, userID, postID); err != nil {
		switch err {
		case services.ErrPostNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Post not found"))
		case services.ErrNotPostOwner:
			// Kept at 401 rather than 403 to match the original wire contract.
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("User not authorized"))
		default:
			log.Printf("[DeletePost] user=%s post=%s error=%v", userID, postID, err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewMessageResponse("Post removed"))
}

func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	likes, err := h.posts.Like(ctx, userID, postID)
	if err != nil {
		switch err {
		case services.ErrPostNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Post not found"))
		case services.ErrAlreadyLiked:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Post already liked"))
		default:
			log.Printf("[LikePost] user=%s post=%s error=%v", userID, postID, err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, likes)
}

func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	likes, err := h.posts.Unlike(ctx, userID, postID)
	if err != nil {
		switch err {
		case services.ErrPostNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Post not found"))
		case services.ErrNotYetLiked:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Post has not yet been liked"))
		default:
			log.Printf("[UnlikePost] user=%s post=%s error=%v", userID, postID, err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, likes)
}

func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID := chi.URLParam(r, "id")

	var req models.AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	comments, err := h.posts.AddComment(ctx, userID, postID, req.Text)
	if err != nil {
		if err == services.ErrPostNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Post not found"))
			return
		}
		log.Printf("[AddComment] user=%s post=%s error=%v", userID, postID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

func (h *PostHandler) RemoveComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID := chi.URLParam(r, "id")
	commentID := chi.URLParam(r, "commentId")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	comments, err := h.posts.RemoveComment(ctx, userID, postID, commentID)
	if err != nil {
		switch err {
		case services.ErrPostNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Post not found"))
		case services.ErrCommentNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Comment does not exist"))
		case services.ErrNotCommentOwner:
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("User not authorized"))
		default:
			log.Printf("[RemoveComment] user=%s post=%s error=%v", userID, postID, err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, comments)
}
