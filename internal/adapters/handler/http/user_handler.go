package http

import (
	"net/http"

	"github.com/vncsmyrnk/election/internal/core/ports"
)

// UserHandler serves the caller's own account. There is no user
// administration, so it reads the repository directly.
type UserHandler struct {
	users ports.UserRepository
}

func NewUserHandler(users ports.UserRepository) *UserHandler {
	return &UserHandler{
		users: users,
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		ErrorResponse(w, http.StatusUnauthorized, "missing user context")
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, user)
}
