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

type ProfileHandler struct {
	profiles services.ProfileService
	github   *services.GithubClient
}

func NewProfileHandler(profiles services.ProfileService, github *services.GithubClient) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		github:   github,
	}
}

// Me returns the caller's own profile.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	prof, err := h.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if err == services.ErrProfileNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("There is no profile for this user"))
			return
		}
		log.Printf("[ProfileMe] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		return
	}

	writeJSON(w, http.StatusOK, prof)
}

// Upsert creates the caller's profile or merges the supplied fields into it.
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.UpsertProfileRequest
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

	prof, err := h.profiles.Upsert(ctx, userID, &req)
	if err != nil {
		log.Printf("[ProfileUpsert] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		return
	}

	writeJSON(w, http.StatusOK, prof)
}

func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	profiles, err := h.profiles.List(ctx)
	if err != nil {
		log.Printf("[ProfileList] error=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}

func (h *ProfileHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "userId")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	prof, err := h.profiles.GetByUserID(ctx, targetID)
	if err != nil {
		// A malformed id is indistinguishable from a missing profile here.
		if err == services.ErrProfileNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Profile not found"))
			return
		}
		log.Printf("[ProfileGetByUser] target=%s error=%v", targetID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		return
	}

	writeJSON(w, http.StatusOK, prof)
}

// Delete removes the caller's profile and account.
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.profiles.Delete(ctx, userID); err != nil && err != services.ErrUserNotFound {
		log.Printf("[ProfileDelete] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewMessageResponse("User deleted"))
}

func (h *ProfileHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.AddExperienceRequest
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

	prof, err := h.profiles.AddExperience(ctx, userID, &req)
	if err != nil {
		if err == services.ErrProfileNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("There is no profile for this user"))
			return
		}
		log.Printf("[AddExperience] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		return
	}

	writeJSON(w, http.StatusOK, prof)
}

func (h *ProfileHandler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	entryID := chi.URLParam(r, "expId")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	prof, err := h.profiles.RemoveExperience(ctx, userID, entryID)
	if err != nil {
		switch err {
		case services.ErrProfileNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("There is no profile for this user"))
		case services.ErrExperienceNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Experience entry not found"))
		default:
			log.Printf("[RemoveExperience] user=%s error=%v", userID, err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, prof)
}

func (h *ProfileHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.AddEducationRequest
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

	prof, err := h.profiles.AddEducation(ctx, userID, &req)
	if err != nil {
		if err == services.ErrProfileNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("There is no profile for this user"))
			return
		}
		log.Printf("[AddEducation] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		return
	}

	writeJSON(w, http.StatusOK, prof)
}

func (h *ProfileHandler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	entryID := chi.URLParam(r, "eduId")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	prof, err := h.profiles.RemoveEducation(ctx, userID, entryID)
	if err != nil {
		switch err {
		case services.ErrProfileNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("There is no profile for this user"))
		case services.ErrEducationNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Education entry not found"))
		default:
			log.Printf("[RemoveEducation] user=%s error=%v", userID, err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, prof)
}

// GithubRepos proxies the user's repository listing from GitHub.
func (h *ProfileHandler) GithubRepos(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	repos, err := h.github.ListRepos(ctx, username)
	if err != nil {
		if err == services.ErrNoGithubProfile {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("No Github profile found"))
			return
		}
		log.Printf("[GithubRepos] username=%s error=%v", username, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(repos)
}
