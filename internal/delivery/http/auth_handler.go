package http

import (
	"context"
	"net/http"

	"github.com/frontandrew/platescan/internal/delivery/http/middleware"
	"github.com/frontandrew/platescan/internal/domain"
	"github.com/frontandrew/platescan/internal/pkg/logger"
	"github.com/frontandrew/platescan/internal/usecase/auth"
	"github.com/google/uuid"
)

// AuthService определяет интерфейс сервиса аутентификации
type AuthService interface {
	Register(ctx context.Context, req *auth.RegisterRequest) (*domain.User, error)
	CreateUser(ctx context.Context, req *auth.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error)
	Refresh(ctx context.Context, req *auth.RefreshRequest) (*auth.LoginResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// AuthHandler обрабатывает запросы аутентификации
type AuthHandler struct {
	authService AuthService
	logger      logger.Logger
}

// NewAuthHandler создает новый handler
func NewAuthHandler(authService AuthService, logger logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register обрабатывает регистрацию нового пользователя
// POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	user, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		respondDomainError(w, h.logger, err, "register user")
		return
	}

	respondData(w, http.StatusCreated, user)
}

// CreateUser создает пользователя с произвольной ролью
// POST /api/v1/users
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	user, err := h.authService.CreateUser(r.Context(), &req)
	if err != nil {
		respondDomainError(w, h.logger, err, "create user")
		return
	}

	respondData(w, http.StatusCreated, user)
}

// Login обрабатывает вход пользователя
// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	response, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		respondDomainError(w, h.logger, err, "login")
		return
	}

	respondData(w, http.StatusOK, response)
}

// Refresh выдает новую пару токенов по refresh токену
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}
	if req.RefreshToken == "" {
		respondError(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	response, err := h.authService.Refresh(r.Context(), &req)
	if err != nil {
		respondDomainError(w, h.logger, err, "refresh token")
		return
	}

	respondData(w, http.StatusOK, response)
}

// GetMe возвращает информацию о текущем пользователе
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		respondDomainError(w, h.logger, err, "get user")
		return
	}

	respondData(w, http.StatusOK, user)
}
