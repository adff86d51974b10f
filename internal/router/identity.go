package router

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// userIDFromEcho returns the id set by Guard.
func userIDFromEcho(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get("user").(uuid.UUID)
	return id, ok && id != uuid.Nil
}
