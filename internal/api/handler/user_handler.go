package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/venuetrack/checkin-system/internal/core/domain"
	"github.com/venuetrack/checkin-system/internal/core/ports"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type createUserRequest struct {
	FirstName         string   `json:"firstname" validate:"required"`
	LastName          string   `json:"lastname"  validate:"required"`
	Role              string   `json:"role"      validate:"required,oneof=admin manager staff"`
	Email             string   `json:"email"     validate:"required,email"`
	Password          string   `json:"password"  validate:"required,min=6"`
	AssignedLocations []string `json:"assignedlocations"`
	AssignedZones     []string `json:"assignedzones"`
	ClientID          string   `json:"clientid"`
}

type updateUserRequest struct {
	FirstName         string   `json:"firstname"`
	LastName          string   `json:"lastname"`
	Role              string   `json:"role" validate:"omitempty,oneof=admin manager staff"`
	Email             string   `json:"email" validate:"omitempty,email"`
	AssignedLocations []string `json:"assignedlocations"`
	AssignedZones     []string `json:"assignedzones"`
}

type fetchByIDsRequest struct {
	IDs []string `json:"ids" validate:"required"`
}

type createUserResponse struct {
	ID      string `json:"_id"`
	Message string `json:"message"`
}

// Get handles GET /users/:id.
//
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID (24-character hex)"
// @Success      200  {object}  domain.User
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if !domain.IsValidID(id) {
		return echo.NewHTTPError(http.StatusBadRequest,
			"invalid user ID format: user ID must be a 24 character hex string")
	}

	user, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Create handles POST /users.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  createUserResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Create(c.Request().Context(), ports.CreateUserInput{
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

	return c.JSON(http.StatusCreated, createUserResponse{
		ID:      user.ID,
		Message: "user created successfully",
	})
}

// FetchByIDs handles POST /users/fetchByIds.
//
// @Summary      Fetch users by a list of IDs
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      fetchByIDsRequest  true  "User IDs"
// @Success      200   {array}   domain.User
// @Failure      400   {object}  errorResponse
// @Router       /users/fetchByIds [post]
func (h *UserHandler) FetchByIDs(c echo.Context) error {
	var req fetchByIDsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	users, err := h.users.GetByIDs(c.Request().Context(), req.IDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Update handles PUT /users/:id.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.users.Update(c.Request().Context(), c.Param("id"), ports.UpdateUserInput{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Role:              req.Role,
		Email:             req.Email,
		AssignedLocations: req.AssignedLocations,
		AssignedZones:     req.AssignedZones,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user updated successfully"})
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user deleted successfully"})
}
