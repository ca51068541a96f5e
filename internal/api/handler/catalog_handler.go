package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

// PositionHandler serves the global position catalog and the privilege
// catalog used by the employee forms.
type PositionHandler struct {
	positions ports.PositionService
	catalog   ports.CatalogService
}

func NewPositionHandler(positions ports.PositionService, catalog ports.CatalogService) *PositionHandler {
	return &PositionHandler{positions: positions, catalog: catalog}
}

type positionRequest struct {
	Name        string `json:"name"        validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
}

func (r positionRequest) toInput() ports.PositionInput {
	return ports.PositionInput{Name: r.Name, Description: r.Description}
}

type privilegeCategoryResponse struct {
	Category   string              `json:"category"`
	Privileges []*domain.Privilege `json:"privileges"`
}

// Privileges handles GET /employees/privileges/list.
//
// @Summary      List grantable privileges grouped by category
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  privilegeCategoryResponse
// @Router       /employees/privileges/list [get]
func (h *PositionHandler) Privileges(c echo.Context) error {
	groups, err := h.catalog.Grouped(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]privilegeCategoryResponse, len(groups))
	for i, g := range groups {
		out[i] = privilegeCategoryResponse{Category: g.Category, Privileges: g.Privileges}
	}
	return c.JSON(http.StatusOK, out)
}

// List handles GET /employees/positions/list.
//
// @Summary      List positions
// @Tags         positions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Position
// @Router       /employees/positions/list [get]
func (h *PositionHandler) List(c echo.Context) error {
	positions, err := h.positions.List(c.Request().Context())
	if err != nil {
		return err
	}
	if positions == nil {
		positions = []*domain.Position{}
	}
	return c.JSON(http.StatusOK, positions)
}

// @Summary      Create a position
// @Tags         positions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      positionRequest  true  "Position"
// @Success      201   {object}  domain.Position
// @Failure      422   {object}  map[string]any
// @Router       /employees/positions [post]
func (h *PositionHandler) Create(c echo.Context) error {
	var req positionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.positions.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// @Summary      Show a position
// @Tags         positions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Position id"
// @Success      200  {object}  domain.Position
// @Failure      404  {object}  map[string]string
// @Router       /employees/positions/{id} [get]
func (h *PositionHandler) Get(c echo.Context) error {
	p, err := h.positions.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// @Summary      Update a position
// @Tags         positions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Position id"
// @Param        body  body      positionRequest  true  "Position"
// @Success      200   {object}  domain.Position
// @Router       /employees/positions/{id} [put]
func (h *PositionHandler) Update(c echo.Context) error {
	var req positionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.positions.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Delete refuses positions still assigned to someone.
//
// @Summary      Delete a position
// @Tags         positions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Position id"
// @Success      200  {object}  messageResponse
// @Failure      409  {object}  map[string]string
// @Router       /employees/positions/{id} [delete]
func (h *PositionHandler) Delete(c echo.Context) error {
	if err := h.positions.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "position deleted successfully"})
}
