package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"rosterup/internal/metrics"
	"rosterup/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents an issued token pair.
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login godoc
// @Summary Authenticate and obtain a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	metrics.RecordAuthAttempt()
	accessToken, refreshToken, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.RecordAuthFailure()
		return respondError(c, err)
	}
	metrics.RecordAuthSuccess()

	return c.JSON(http.StatusOK, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Refresh godoc
// @Summary Exchange a refresh token for a new access token
// @Description A missing or malformed bearer header yields an empty 200 response.
// @Tags auth
// @Produce json
// @Param Authorization header string false "Bearer refresh token"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)

	accessToken, refreshToken, err := h.authService.Refresh(c.Request().Context(), authHeader)
	if err != nil {
		return respondError(c, err)
	}
	if accessToken == "" {
		// No bearer header: nothing to refresh.
		return c.NoContent(http.StatusOK)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Logout godoc
// @Summary Revoke all valid tokens for the caller
// @Tags auth
// @Param Authorization header string false "Bearer access token"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)

	if err := h.authService.Logout(c.Request().Context(), authHeader); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
