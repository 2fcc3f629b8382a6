package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/devlink/backend/internal/models"
	"github.com/devlink/backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
	tokens      *services.TokenService
}

func NewUserHandler(userService services.UserService, tokens *services.TokenService) *UserHandler {
	return &UserHandler{
		userService: userService,
		tokens:      tokens,
	}
}

// Register creates a user and answers with a freshly issued token.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
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

	user, err := h.userService.Register(ctx, &req)
	if err != nil {
		if err == services.ErrEmailExists {
			writeJSON(w, http.StatusBadRequest, models.NewConflictResponse("User already exists"))
			return
		}
		log.Printf("[Register] error=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Printf("[Register] token error=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server Error"))
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{Token: token})
}
