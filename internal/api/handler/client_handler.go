package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/venuetrack/checkin-system/internal/core/domain"
	"github.com/venuetrack/checkin-system/internal/core/ports"
)

// ClientHandler handles HTTP requests for the client tree and check-ins.
type ClientHandler struct {
	clients ports.ClientService
	checkin ports.CheckinService
}

func NewClientHandler(clients ports.ClientService, checkin ports.CheckinService) *ClientHandler {
	return &ClientHandler{clients: clients, checkin: checkin}
}

// GetAll handles GET /clients.
//
// @Summary      List all clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Client
// @Failure      500  {object}  errorResponse
// @Router       /clients [get]
func (h *ClientHandler) GetAll(c echo.Context) error {
	clients, err := h.clients.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clients)
}

// Get handles GET /clients/:id.
//
// @Summary      Get a client by ID
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  domain.Client
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	client, err := h.clients.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

// Create handles POST /clients.
//
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client name"
// @Success      201   {object}  domain.Client
// @Failure      400   {object}  errorResponse
// @Router       /clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req createClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	client, err := h.clients.Create(c.Request().Context(), req.ClientName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, client)
}

// Update handles PUT /clients/:id, applying a full or partial tree.
//
// @Summary      Update a client tree
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Client ID"
// @Param        body  body      updateClientRequest  true  "Full or partial tree"
// @Success      200   {object}  domain.Client
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	var req updateClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	applied, err := h.clients.ApplyUpdate(c.Request().Context(), c.Param("id"), treeInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, applied)
}

// Delete handles DELETE /clients/:id.
//
// @Summary      Delete a client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client ID"
// @Success      202  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.clients.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, messageResponse{Message: "removed client with ID " + id})
}

// CheckIn handles POST /clients/check-in.
//
// @Summary      Record a zone visit
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      checkInRequest  true  "Visit details"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /clients/check-in [post]
func (h *ClientHandler) CheckIn(c echo.Context) error {
	var req checkInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	direction := domain.VisitDirection(req.Direction)
	if direction == "" {
		direction = domain.VisitIn
	}

	err := h.checkin.RecordVisit(c.Request().Context(), ports.RecordVisitInput{
		ZoneID:    req.ZoneID,
		UserID:    req.UserID,
		Direction: direction,
		At:        time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "check-" + string(direction) + " recorded"})
}

func treeInput(req updateClientRequest) ports.ClientTreeInput {
	tree := ports.ClientTreeInput{
		ClientName: req.ClientName,
		UserRefs:   req.UserRefs,
	}
	if req.Locations == nil {
		return tree
	}
	tree.Locations = make([]ports.LocationInput, 0, len(req.Locations))
	for _, l := range req.Locations {
		loc := ports.LocationInput{
			ID:            l.ID,
			LocationName:  l.LocationName,
			AssignedUsers: l.AssignedUsers,
			Zones:         make([]ports.ZoneInput, 0, len(l.Zones)),
		}
		for _, z := range l.Zones {
			loc.Zones = append(loc.Zones, ports.ZoneInput{
				ID:            z.ID,
				ZoneName:      z.ZoneName,
				Steps:         z.Steps,
				QRCode:        z.QRCode,
				LastCheckIn:   z.LastCheckIn,
				LastCheckOut:  z.LastCheckOut,
				TimeSpent:     z.TimeSpent,
				AssignedUsers: z.AssignedUsers,
			})
		}
		tree.Locations = append(tree.Locations, loc)
	}
	return tree
}
