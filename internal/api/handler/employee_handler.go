package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/IvanBritz/Aidpoint1/internal/api/metrics"
	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

// EmployeeHandler serves a project director's employee management.
type EmployeeHandler struct {
	service ports.EmployeeService
	now     func() time.Time
}

func NewEmployeeHandler(service ports.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service, now: time.Now}
}

// List handles GET /employees.
//
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        status    query     string  false  "active, inactive or suspended"
// @Param        search    query     string  false  "Matches name, email or username"
// @Param        page      query     int     false  "Page number"
// @Param        per_page  query     int     false  "Page size"
// @Success      200       {object}  pageResponse[domain.User]
// @Router       /employees [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	res, err := h.service.List(c.Request().Context(), actor, ports.ListEmployeesInput{
		Status: domain.UserStatus(c.QueryParam("status")),
		Search: c.QueryParam("search"),
		Page:   pageRequest(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPageResponse(res, identity[*domain.User]))
}

// Create handles POST /employees.
//
// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEmployeeRequest  true  "Employee details"
// @Success      201   {object}  employeeResponse
// @Failure      403   {object}  map[string]any
// @Failure      422   {object}  map[string]any
// @Router       /employees [post]
func (h *EmployeeHandler) Create(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createEmployeeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	detail, err := h.service.Create(c.Request().Context(), actor, req.toInput())
	if err != nil {
		return err
	}
	metrics.ResourcesCreatedTotal.WithLabelValues(string(domain.ResourceEmployees)).Inc()
	return c.JSON(http.StatusCreated, toEmployeeResponse(detail, h.now()))
}

// Get handles GET /employees/:id.
//
// @Summary      Show an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  employeeResponse
// @Failure      404  {object}  map[string]string
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) Get(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	detail, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(detail, h.now()))
}

// Update handles PUT /employees/:id.
//
// @Summary      Update an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Employee id"
// @Param        body  body      updateEmployeeRequest  true  "Fields to change"
// @Success      200   {object}  employeeResponse
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Router       /employees/{id} [put]
func (h *EmployeeHandler) Update(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req updateEmployeeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	detail, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(detail, h.now()))
}

// Delete handles DELETE /employees/:id. Employees are deactivated, never
// removed.
//
// @Summary      Deactivate an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.service.Deactivate(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "employee deactivated successfully"})
}

// @Summary      Grant a privilege to an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Employee id"
// @Param        body  body      grantPrivilegeRequest  true  "Privilege name"
// @Success      200   {object}  employeeResponse
// @Failure      422   {object}  map[string]any
// @Router       /employees/{id}/privileges [post]
func (h *EmployeeHandler) GrantPrivilege(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req grantPrivilegeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	detail, err := h.service.GrantPrivilege(c.Request().Context(), actor, c.Param("id"), req.Privilege)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(detail, h.now()))
}

// @Summary      Revoke a privilege from an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Employee id"
// @Param        name  path      string  true  "Privilege name"
// @Success      200   {object}  employeeResponse
// @Router       /employees/{id}/privileges/{name} [delete]
func (h *EmployeeHandler) RevokePrivilege(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	detail, err := h.service.RevokePrivilege(c.Request().Context(), actor, c.Param("id"), c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(detail, h.now()))
}

// @Summary      Unlock an employee account
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  employeeResponse
// @Router       /employees/{id}/unlock [post]
func (h *EmployeeHandler) Unlock(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	detail, err := h.service.Unlock(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(detail, h.now()))
}
