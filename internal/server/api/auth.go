// HTTP-хендлеры регистрации и логина
package api

import (
	"net/http"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/server/service"
)

// RegisterRequest описывает тело запроса регистрации пользователя.
type RegisterRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"StrongPass123"`
}

// RegisterResponse описывает успешный ответ регистрации.
type RegisterResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"User created"`
}

// LoginRequest описывает тело запроса входа пользователя.
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"StrongPass123"`
}

// LoginResponse описывает успешный ответ входа пользователя.
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type" example:"Bearer"`
	ExpiresIn int64  `json:"expires_in" example:"86400"`
}

// Register обрабатывает регистрацию пользователя.
//
// @Summary      Register user
// @Description  Creates a user account. Email and password must be 1-72 printable ASCII characters.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Credentials"
// @Success      201 {object} RegisterResponse
// @Failure      400 {object} ErrorResponse "Missing or invalid fields, bad JSON"
// @Failure      409 {object} ErrorResponse "User already exists"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /user/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, "register", err)
		return
	}

	if _, err := h.Svc.Auth.Register(r.Context(), req.Email, req.Password); err != nil {
		h.respondError(w, r, "register", err)
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{Success: true, Message: service.MsgUserCreated})
}

// Login обрабатывает вход пользователя и выдачу access-токена.
//
// @Summary      Log in
// @Description  Exchanges email and password for a bearer token valid for 24 hours.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} LoginResponse
// @Failure      400 {object} ErrorResponse "Missing fields or bad JSON"
// @Failure      401 {object} ErrorResponse "Incorrect email or password"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /user/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondError(w, r, "login", err)
		return
	}

	tok, err := h.Svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(w, r, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     tok.Token,
		TokenType: tok.TokenType,
		ExpiresIn: tok.ExpiresIn,
	})
}
