package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/IvanBritz/Aidpoint1/internal/api/handler"
	"github.com/IvanBritz/Aidpoint1/internal/api/metrics"
	"github.com/IvanBritz/Aidpoint1/internal/api/middleware"
	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
)

// errorResponse is the envelope for every non-validation error.
type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

type privilegeErrorResponse struct {
	Error              string   `json:"error"`
	RequiredPrivileges []string `json:"required_privileges"`
	Mode               string   `json:"mode"`
}

type roleErrorResponse struct {
	Error        string        `json:"error"`
	AllowedRoles []domain.Role `json:"allowed_roles"`
}

type entitlementDetail struct {
	Resource domain.Resource `json:"resource"`
	Limit    int             `json:"limit"`
	Reason   string          `json:"reason"`
}

type entitlementErrorResponse struct {
	Error       string            `json:"error"`
	Entitlement entitlementDetail `json:"entitlement"`
}

var notFound = []error{
	domain.ErrUserNotFound,
	domain.ErrEmployeeNotFound,
	domain.ErrBeneficiaryNotFound,
	domain.ErrPositionNotFound,
	domain.ErrPlanNotFound,
	domain.ErrSubscriptionNotFound,
	domain.ErrPrivilegeNotFound,
	domain.ErrAidRequestNotFound,
	domain.ErrAccountNotFound,
}

var conflicts = []error{
	domain.ErrPositionInUse,
	domain.ErrSubscriptionInactive,
	domain.ErrInvalidTransition,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Counts entitlement denials.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, any) {
	// Echo's own errors (bind failures, unknown routes, rate limiting).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, validationResponse{Message: "validation failed", Errors: ve.Fields}
	}
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		return http.StatusUnprocessableEntity, validationResponse{
			Message: "validation failed",
			Errors:  map[string]string{fe.Field: fe.Message},
		}
	}

	var ee *domain.EntitlementError
	if errors.As(err, &ee) {
		reason := "limit_reached"
		if errors.Is(ee.Reason, domain.ErrSubscriptionRequired) {
			reason = "no_subscription"
		}
		metrics.EntitlementDenialsTotal.WithLabelValues(string(ee.Resource), reason).Inc()
		return http.StatusForbidden, entitlementErrorResponse{
			Error:       ee.Error(),
			Entitlement: entitlementDetail{Resource: ee.Resource, Limit: ee.Limit, Reason: reason},
		}
	}

	var pe *domain.PrivilegeError
	if errors.As(err, &pe) {
		return http.StatusForbidden, privilegeErrorResponse{
			Error:              "insufficient privileges",
			RequiredPrivileges: pe.Required,
			Mode:               string(pe.Mode),
		}
	}
	var re *domain.RoleError
	if errors.As(err, &re) {
		return http.StatusForbidden, roleErrorResponse{Error: "forbidden", AllowedRoles: re.Allowed}
	}

	for _, target := range notFound {
		if errors.Is(err, target) {
			return http.StatusNotFound, errorResponse{Error: target.Error()}
		}
	}
	for _, target := range conflicts {
		if errors.Is(err, target) {
			return http.StatusConflict, errorResponse{Error: target.Error()}
		}
	}

	switch {
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "unauthenticated"}
	case errors.Is(err, domain.ErrAccountInactive):
		return http.StatusForbidden, errorResponse{Error: "account is not active. please contact administrator."}
	case errors.Is(err, domain.ErrAccountLocked):
		return http.StatusLocked, errorResponse{Error: "account is temporarily locked due to too many failed login attempts"}
	case errors.Is(err, domain.ErrCurrentPasswordIncorrect):
		return http.StatusBadRequest, errorResponse{Error: "current password is incorrect"}
	}

	// Unexpected error: log the real cause, return a generic message.
	event := log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path())
	if user, ok := middleware.CurrentUser(c); ok {
		event = event.Str("user_id", user.ID)
	}
	event.Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
