package handlers

import (
	"errors"
	"net/http"

	"accountd/internal/middleware"
	"accountd/internal/repository"
)

type UserHandler struct {
	users repository.UserRepository
}

func NewUserHandler(users repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// @Tags Account
// @Summary Current user
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.CtxUserID).(string)
	if userID == "" {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing authenticated user")
		return
	}

	u, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeJSONError(w, http.StatusNotFound, "user_not_found", "User not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "get_user_failed", "Failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, u)
}
