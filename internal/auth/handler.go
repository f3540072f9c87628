package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"student-manager/internal/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service   *Service
	logger    *slog.Logger
	validator *validator.Validate
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/auth/register", h.Register)
	router.Post("/auth/login", h.Login)
	router.Post("/auth/logout", h.Logout)
}

// Register creates a new operator account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("validation failed", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, "username, password and confirmation are required")
		return
	}

	err := h.service.Register(r.Context(), req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		if errors.Is(err, ErrEmptyCredentials) || errors.Is(err, ErrPasswordMismatch) {
			httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("registration failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	h.logger.Info("user registered", "username", req.Username)
	// No session is opened here; the new account logs in explicitly, as on
	// the console surface.
	httputil.RespondWithJSON(w, http.StatusCreated, map[string]string{"username": req.Username})
}

// Login authenticates an operator and opens an HTTP session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("validation failed", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrWrongPassword):
			httputil.RespondWithError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, ErrEmptyCredentials):
			httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("login failed", "error", err)
			httputil.RespondWithError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	h.logger.Info("user logged in", "username", user.Username)
	h.respondWithSession(w, user.Username)
}

// Logout ends the HTTP session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ClearAuthCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondWithSession(w http.ResponseWriter, username string) {
	token, err := GenerateAccessToken(username)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "failed to open session")
		return
	}

	SetAuthCookie(w, token)
	httputil.RespondWithJSON(w, http.StatusOK, AuthResponse{
		Username:    username,
		AccessToken: token,
	})
}
