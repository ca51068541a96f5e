package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/IvanBritz/Aidpoint1/internal/api/metrics"
	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

type createAidRequestRequest struct {
	BeneficiaryID string  `json:"beneficiary_id" validate:"required"`
	RequestType   string  `json:"request_type"   validate:"required,max=100"`
	Amount        float64 `json:"request_amount" validate:"required,gt=0"`
	Description   string  `json:"description"    validate:"required"`
	Priority      string  `json:"priority"       validate:"omitempty,oneof=High Medium Low"`
}

func (r createAidRequestRequest) toInput() ports.CreateAidRequestInput {
	return ports.CreateAidRequestInput{
		BeneficiaryID: r.BeneficiaryID,
		RequestType:   r.RequestType,
		Amount:        r.Amount,
		Description:   r.Description,
		Priority:      domain.AidPriority(r.Priority),
	}
}

type rejectAidRequestRequest struct {
	Reason string `json:"rejection_reason" validate:"required,max=1000"`
}

// AidRequestHandler serves aid requests inside the caller's organization.
// Privilege gates are attached at the route.
type AidRequestHandler struct {
	service ports.AidRequestService
}

func NewAidRequestHandler(service ports.AidRequestService) *AidRequestHandler {
	return &AidRequestHandler{service: service}
}

// List handles GET /aid-requests.
//
// @Summary      List aid requests
// @Tags         aid-requests
// @Produce      json
// @Security     BearerAuth
// @Param        status          query     string  false  "Pending, Processing, Approved or Rejected"
// @Param        beneficiary_id  query     string  false  "Filter by beneficiary"
// @Param        page            query     int     false  "Page number"
// @Param        per_page        query     int     false  "Page size"
// @Success      200             {object}  pageResponse[domain.AidRequest]
// @Failure      403             {object}  map[string]any
// @Router       /aid-requests [get]
func (h *AidRequestHandler) List(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	res, err := h.service.List(c.Request().Context(), actor, ports.ListAidRequestsInput{
		Status:        domain.AidRequestStatus(c.QueryParam("status")),
		BeneficiaryID: c.QueryParam("beneficiary_id"),
		Page:          pageRequest(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPageResponse(res, identity[*domain.AidRequest]))
}

// Create handles POST /aid-requests.
//
// @Summary      File an aid request
// @Tags         aid-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAidRequestRequest  true  "Aid request"
// @Success      201   {object}  domain.AidRequest
// @Failure      403   {object}  map[string]any
// @Failure      422   {object}  map[string]any
// @Router       /aid-requests [post]
func (h *AidRequestHandler) Create(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createAidRequestRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ar, err := h.service.Create(c.Request().Context(), actor, req.toInput())
	if err != nil {
		return err
	}
	metrics.ResourcesCreatedTotal.WithLabelValues("aid_requests").Inc()
	return c.JSON(http.StatusCreated, ar)
}

// @Summary      Show an aid request
// @Tags         aid-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Aid request id"
// @Success      200  {object}  domain.AidRequest
// @Failure      404  {object}  map[string]string
// @Router       /aid-requests/{id} [get]
func (h *AidRequestHandler) Get(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	ar, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ar)
}

// @Summary      Approve an aid request
// @Tags         aid-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Aid request id"
// @Success      200  {object}  domain.AidRequest
// @Failure      409  {object}  map[string]string
// @Router       /aid-requests/{id}/approve [post]
func (h *AidRequestHandler) Approve(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	ar, err := h.service.Approve(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ar)
}

// @Summary      Reject an aid request
// @Tags         aid-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Aid request id"
// @Param        body  body      rejectAidRequestRequest  true  "Reason"
// @Success      200   {object}  domain.AidRequest
// @Failure      409   {object}  map[string]string
// @Router       /aid-requests/{id}/reject [post]
func (h *AidRequestHandler) Reject(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req rejectAidRequestRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ar, err := h.service.Reject(c.Request().Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ar)
}
