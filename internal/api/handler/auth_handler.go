package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/venuetrack/checkin-system/internal/core/domain"
	"github.com/venuetrack/checkin-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	FirstName         string   `json:"firstname" validate:"required"`
	LastName          string   `json:"lastname"  validate:"required"`
	Role              string   `json:"role"      validate:"required,oneof=admin manager staff"`
	Email             string   `json:"email"     validate:"required,email"`
	Password          string   `json:"password"  validate:"required,min=6"`
	AssignedLocations []string `json:"assignedlocations"`
	AssignedZones     []string `json:"assignedzones"`
	ClientID          string   `json:"clientid"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	ClientID string `json:"clientid,omitempty"`
	UserID   string `json:"userID"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Role:              req.Role,
		Email:             req.Email,
		Password:          req.Password,
		AssignedLocations: req.AssignedLocations,
		AssignedZones:     req.AssignedZones,
		ClientID:          req.ClientID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"message": fmt.Sprintf("user created with ID: %s", user.ID),
	})
}

// Login authenticates a user and returns a signed session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		// An unknown email and a wrong password are indistinguishable
		// to the caller.
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid email or password")
		}
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:    token,
		Role:     user.Role,
		ClientID: user.ClientID,
		UserID:   user.ID,
	})
}
