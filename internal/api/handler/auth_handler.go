package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/IvanBritz/Aidpoint1/internal/api/metrics"
	"github.com/IvanBritz/Aidpoint1/internal/api/middleware"
	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	now         func() time.Time
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService, now: time.Now}
}

// Register creates a project director or beneficiary account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}

	metrics.ResourcesCreatedTotal.WithLabelValues("users").Inc()
	return c.JSON(http.StatusCreated, toAuthResponse(res, h.now()))
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      423   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if result := loginResult(err); result != "" {
			metrics.LoginsTotal.WithLabelValues(result).Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues(metrics.LoginSuccess).Inc()
	return c.JSON(http.StatusOK, toAuthResponse(res, h.now()))
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return metrics.LoginInvalidCredentials
	case errors.Is(err, domain.ErrAccountInactive):
		return metrics.LoginInactive
	case errors.Is(err, domain.ErrAccountLocked):
		return metrics.LoginLocked
	}
	return ""
}

// ChangePassword replaces the caller's password and clears the first-login
// flag.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.Request().Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password changed successfully"})
}

// Logout invalidates the token used for this request only.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), middleware.SessionID(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out successfully"})
}

// Me returns the caller with effective privileges and, for directors, the
// active subscription.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.authService.Me(c.Request().Context(), user)
	if err != nil {
		return err
	}

	privileges := profile.Privileges
	if privileges == nil {
		privileges = []string{}
	}
	return c.JSON(http.StatusOK, meResponse{
		User:         profile.User,
		Privileges:   privileges,
		Subscription: toSubscriptionResponsePtr(profile.Subscription, h.now()),
		Beneficiary:  profile.Beneficiary,
	})
}
