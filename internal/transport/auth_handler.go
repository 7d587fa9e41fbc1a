package transport

import (
	"errors"
	"net/http"

	"autoparts-store/internal/domain"
	"autoparts-store/internal/middleware"
	"autoparts-store/internal/repository"
	"autoparts-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	ActionLogin    = "login"
	ActionRegister = "register"
)

// AuthRequest is the single payload accepted by the auth endpoint
type AuthRequest struct {
	Action   string `json:"action" validate:"required,oneof=login register"`
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty" validate:"max=255"`
}

// AuthResponse is returned on successful login or registration
type AuthResponse struct {
	Success bool        `json:"success"`
	User    UserProfile `json:"user"`
	Token   string      `json:"token,omitempty"`
}

// UserProfile represents the public part of an account
type UserProfile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

func newUserProfile(user *domain.User) UserProfile {
	return UserProfile{ID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin}
}

// AuthHandler handles login and registration
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers the auth endpoint. The limiter guards it against
// password guessing and may be nil.
func (h *AuthHandler) RegisterRoutes(r chi.Router, limiter func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter)
		}
		r.Post("/", h.Authenticate)
	})
}

// Authenticate dispatches on the request action
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req AuthRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Auth request validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		user   *domain.User
		token  string
		err    error
		status int
	)

	switch req.Action {
	case ActionRegister:
		user, token, err = h.authService.Register(r.Context(), req.Username, req.Password, req.Email)
		status = http.StatusCreated
	default:
		user, token, err = h.authService.Login(r.Context(), req.Username, req.Password)
		status = http.StatusOK
	}

	if err != nil {
		h.respondAuthError(w, req.Action, err)
		return
	}

	h.logger.Info("Authentication succeeded",
		zap.String("action", req.Action),
		zap.Int64("user_id", user.ID),
		zap.Bool("is_admin", user.IsAdmin),
	)

	middleware.RespondWithJSON(w, status, AuthResponse{
		Success: true,
		User:    newUserProfile(user),
		Token:   token,
	})
}

func (h *AuthHandler) respondAuthError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, service.ErrCredentialsRequired):
		middleware.RespondWithError(w, http.StatusBadRequest, "Username and password required")
	case errors.Is(err, repository.ErrUserAlreadyExists):
		middleware.RespondWithError(w, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		h.logger.Debug("Login rejected", zap.Error(err))
		middleware.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		h.logger.Error("Authentication failed", zap.String("action", action), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "authentication failed")
	}
}
