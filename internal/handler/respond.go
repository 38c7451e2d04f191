package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/andrea360/fitness-center-backend/internal/auth"
	"github.com/andrea360/fitness-center-backend/internal/middleware"
	"github.com/andrea360/fitness-center-backend/internal/service"
)

// principal fetches the authenticated principal stored by the JWT
// middleware.  Protected routes always have one; a missing principal
// means the route was wired without JWTAuth.
func principal(c echo.Context) (auth.Principal, error) {
	p, ok := middleware.Principal(c)
	if !ok {
		return auth.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return p, nil
}

// pathID parses a numeric path parameter and rejects zero.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// queryID parses a numeric query parameter value.
func queryID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// fail maps a service-layer error onto the HTTP response: typed
// business errors become 404, 400, 403, 409 or 422; everything else
// is a 500 with a generic message so internals do not leak.
func fail(c echo.Context, err error) error {
	var (
		notFound     *service.NotFoundError
		invalid      *service.ValidationError
		unauthorized *service.UnauthorizedError
		state        *service.InvalidStateError
		conflict     *service.ConflictError
		httpErr      *echo.HTTPError
	)
	switch {
	case errors.As(err, &notFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": notFound.Error()})
	case errors.As(err, &invalid):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": invalid.Error()})
	case errors.As(err, &unauthorized):
		return c.JSON(http.StatusForbidden, echo.Map{"error": unauthorized.Error()})
	case errors.As(err, &state):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": state.Error()})
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": conflict.Error()})
	case errors.As(err, &httpErr):
		return err
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
