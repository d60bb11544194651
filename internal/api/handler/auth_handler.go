package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
	"github.com/safeegypt/incident-reporting/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type userResponse struct {
	ID           uint       `json:"id"`
	Username     string     `json:"username"`
	FullName     string     `json:"full_name"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	Capabilities []string   `json:"capabilities"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      userResponse `json:"user"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func toUserResponse(u *domain.DashboardUser) userResponse {
	caps := u.Capabilities()
	names := make([]string, 0, len(caps))
	for _, c := range caps {
		names = append(names, string(c))
	}
	return userResponse{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		IsActive:     u.IsActive,
		LastLogin:    u.LastLogin,
		Capabilities: names,
	}
}

// Login authenticates a dashboard user and returns a bearer token.
//
// @Summary      Dashboard login
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/dashboard/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token, TokenType: "Bearer", User: toUserResponse(user)})
}

// Me returns the authenticated user.
//
// @Summary      Current dashboard user
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/dashboard/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := ctxDashboardUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// ChangePassword replaces the caller's password.
//
// @Summary      Change password
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/dashboard/password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user, err := ctxDashboardUser(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ok, err := h.authService.ChangePassword(c.Request().Context(), user.ID, req.OldPassword, req.NewPassword)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: ok, Message: "password updated"})
}
