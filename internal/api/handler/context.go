package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/IvanBritz/Aidpoint1/internal/api/middleware"
	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
	"github.com/IvanBritz/Aidpoint1/internal/core/ports"
)

// currentUser returns the user injected by the Auth middleware. Its absence
// means the route was registered without Auth; fail closed with 401.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}

// pageRequest reads ?page= and ?per_page=. Bad numbers fall back to the
// defaults.
func pageRequest(c echo.Context) ports.PageRequest {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("per_page"))
	return ports.PageRequest{Page: page, Limit: limit}.Normalize()
}

type pageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"current_page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"last_page"`
}

type pageResponse[T any] struct {
	Data []T      `json:"data"`
	Meta pageMeta `json:"meta"`
}

func newPageResponse[T, R any](res *ports.ListResult[T], convert func(T) R) pageResponse[R] {
	data := make([]R, len(res.Items))
	for i, item := range res.Items {
		data[i] = convert(item)
	}
	return pageResponse[R]{
		Data: data,
		Meta: pageMeta{
			Total:      res.Total,
			Page:       res.Page,
			PerPage:    res.Limit,
			TotalPages: res.TotalPages,
		},
	}
}

func identity[T any](v T) T { return v }
