// Package handler exposes the service layer over HTTP.
package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"luxestate/internal/auth"
	"luxestate/internal/errors"
)

// MessageResponse is a plain confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

func errorResponse(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message, code string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Message: message,
		Code:    code,
	})
}

// currentUserID returns the identity the auth guard attached to the request.
func currentUserID(c echo.Context) (uuid.UUID, error) {
	id, ok := auth.UserIDFrom(c.Request().Context())
	if !ok {
		return uuid.Nil, errorResponse(errors.ErrMissingToken)
	}
	return id, nil
}

// parseID reads a path id. An id that cannot be parsed names no record, so
// it is reported as notFound.
func parseID(c echo.Context, name string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errorResponse(notFound)
	}
	return id, nil
}
