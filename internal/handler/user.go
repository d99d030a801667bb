package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wellness2k25/wellness-go/internal/middleware"
	"github.com/wellness2k25/wellness-go/internal/model"
	"github.com/wellness2k25/wellness-go/internal/service"
)

// UserHandler handles HTTP requests for user administration.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// HandleList handles GET /api/users requests.
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleGet handles GET /api/users/{id} requests. Admins may read any
// user; everyone else only themselves.
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}
	if claims.Role != model.RoleAdmin && claims.UserID != id {
		writeJSON(w, http.StatusForbidden, errorResponse("forbidden"))
		return
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleSetRole handles PUT /api/users/{id}/role requests.
func (h *UserHandler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req model.UpdateRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.SetRole(r.Context(), id, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUnknownRole):
			writeJSON(w, http.StatusBadRequest, errorResponse("user_role must be admin or standard"))
		case errors.Is(err, service.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			internalError(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid user id"))
		return 0, false
	}
	return id, true
}
