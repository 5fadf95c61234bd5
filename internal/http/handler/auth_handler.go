package handler

import (
	"errors"
	"net/http"

	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

func NewAuthHandler(userService *service.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

// Me godoc
// @Summary Get current authenticated user
// @Description Returns the current authenticated user with roles and tenant info. The login is recorded as a side effect.
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.AuthUserDTO
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	dto, err := h.userService.CurrentUser(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
				Error: "Unauthorized",
			})
			return
		}
		h.logger.Error("failed to resolve current user", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to resolve current user",
		})
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// ListUsers godoc
// @Summary List users
// @Description Returns the active users visible to the caller, scoped to their studio unless they are an owner
// @Tags Users
// @Produce json
// @Success 200 {array} domain.UserDTO
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /users [get]
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	dtos, err := h.userService.ListUsers(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
				Error: "Unauthorized",
			})
			return
		}
		h.logger.Error("failed to list users", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list users",
		})
		return
	}

	respondJSON(w, http.StatusOK, dtos)
}
