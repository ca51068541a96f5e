package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/IvanBritz/Aidpoint1/internal/api/metrics"
	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

// BeneficiaryHandler serves director-side beneficiary management and the
// beneficiary's own profile.
type BeneficiaryHandler struct {
	service ports.BeneficiaryService
}

func NewBeneficiaryHandler(service ports.BeneficiaryService) *BeneficiaryHandler {
	return &BeneficiaryHandler{service: service}
}

// List handles GET /beneficiaries.
//
// @Summary      List beneficiaries
// @Tags         beneficiaries
// @Produce      json
// @Security     BearerAuth
// @Param        status    query     string  false  "pending, active, inactive or suspended"
// @Param        search    query     string  false  "Matches name or email"
// @Param        page      query     int     false  "Page number"
// @Param        per_page  query     int     false  "Page size"
// @Success      200       {object}  pageResponse[domain.Beneficiary]
// @Router       /beneficiaries [get]
func (h *BeneficiaryHandler) List(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	res, err := h.service.List(c.Request().Context(), actor, ports.ListBeneficiariesInput{
		Status: domain.BeneficiaryStatus(c.QueryParam("status")),
		Search: c.QueryParam("search"),
		Page:   pageRequest(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPageResponse(res, identity[*domain.Beneficiary]))
}

// Create handles POST /beneficiaries. Requires an active subscription with
// room under the plan's beneficiary limit.
//
// @Summary      Create a beneficiary
// @Tags         beneficiaries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      beneficiaryRequest  true  "Beneficiary profile"
// @Success      201   {object}  domain.Beneficiary
// @Failure      403   {object}  map[string]any
// @Failure      422   {object}  map[string]any
// @Router       /beneficiaries [post]
func (h *BeneficiaryHandler) Create(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req beneficiaryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	b, err := h.service.Create(c.Request().Context(), actor, req.toInput())
	if err != nil {
		return err
	}
	metrics.ResourcesCreatedTotal.WithLabelValues(string(domain.ResourceBeneficiaries)).Inc()
	return c.JSON(http.StatusCreated, b)
}

// @Summary      Show a beneficiary
// @Tags         beneficiaries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Beneficiary id"
// @Success      200  {object}  domain.Beneficiary
// @Failure      404  {object}  map[string]string
// @Router       /beneficiaries/{id} [get]
func (h *BeneficiaryHandler) Get(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	b, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// @Summary      Update a beneficiary
// @Tags         beneficiaries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Beneficiary id"
// @Param        body  body      updateBeneficiaryRequest  true  "Fields to change"
// @Success      200   {object}  domain.Beneficiary
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Router       /beneficiaries/{id} [put]
func (h *BeneficiaryHandler) Update(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req updateBeneficiaryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	b, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// Delete removes the profile and deactivates the login linked to it.
//
// @Summary      Delete a beneficiary
// @Tags         beneficiaries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Beneficiary id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /beneficiaries/{id} [delete]
func (h *BeneficiaryHandler) Delete(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "beneficiary deleted successfully"})
}

// MyProfile handles GET /my-profile.
//
// @Summary      Own beneficiary profile
// @Tags         beneficiaries
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Beneficiary
// @Failure      404  {object}  map[string]string
// @Router       /my-profile [get]
func (h *BeneficiaryHandler) MyProfile(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	b, err := h.service.MyProfile(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// @Summary      Update own beneficiary profile
// @Tags         beneficiaries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      myProfileRequest  true  "Editable fields"
// @Success      200   {object}  domain.Beneficiary
// @Router       /my-profile [put]
func (h *BeneficiaryHandler) UpdateMyProfile(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req myProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	b, err := h.service.UpdateMyProfile(c.Request().Context(), user, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}
