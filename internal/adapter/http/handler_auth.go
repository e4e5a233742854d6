package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quimipool/quimipool/internal/adapter/http/response"
	"github.com/quimipool/quimipool/internal/domain"
	"github.com/quimipool/quimipool/internal/usecase"
)

// AuthHandler exposes the login/logout flow.
type AuthHandler struct {
	auth *usecase.AuthUseCase
}

// NewAuthHandler creates the handler.
func NewAuthHandler(auth *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes registers the auth routes. Logout requires a token so the
// entry can be attributed.
func (h *AuthHandler) RegisterRoutes(router *mux.Router, auth func(http.HandlerFunc) http.HandlerFunc) {
	router.HandleFunc("/api/v1/auth/login", h.Login).Methods("POST")
	router.HandleFunc("/api/v1/auth/logout", auth(h.Logout)).Methods("POST")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles credential verification and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTooManyAttempts):
			response.TooManyRequests(w, "Demasiados intentos, intente más tarde")
		case errors.Is(err, domain.ErrInvalidCredentials):
			response.Unauthorized(w, "Credenciales inválidas")
		default:
			response.InternalServerError(w, "No se pudo iniciar sesión")
		}
		return
	}

	response.Success(w, http.StatusOK, "Sesión iniciada", result)
}

// Logout records the LOGOUT audit entry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context())
	response.Success(w, http.StatusOK, "Sesión cerrada", nil)
}
