package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/devlink/backend/internal/middleware"
	"github.com/devlink/backend/internal/models"
	"github.com/devlink/backend/internal/services"
)

type AuthHandler struct {
	userService services.UserService
	tokens      *services.TokenService
}

func NewAuthHandler(userService services.UserService, tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		tokens:      tokens,
	}
}

// Login exchanges email/password for a token. Unknown email and wrong password
// are deliberately indistinguishable.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
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

	user, err := h.userService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if err == services.ErrInvalidCredentials {
			writeJSON(w, http.StatusBadRequest, models.NewConflictResponse("Invalid Credentials"))
			return
		}
		log.Printf("[Login] error=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Printf("[Login] token error=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{Token: token})
}

// Self returns the authenticated user's record, password hash excluded.
func (h *AuthHandler) Self(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		if err == services.ErrUserNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		log.Printf("[Self] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		return
	}

	writeJSON(w, http.StatusOK, user)
}
