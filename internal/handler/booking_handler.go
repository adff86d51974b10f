package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"luxestate/internal/errors"
	"luxestate/internal/service"
)

// dateLayouts are the accepted booking date formats.
var dateLayouts = []string{time.DateOnly, time.RFC3339}

// BookingHandler handles booking ledger endpoints.
type BookingHandler struct {
	bookingService service.BookingService
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest represents a booking request.
type CreateBookingRequest struct {
	Property   string           `json:"property" validate:"required,uuid"`
	StartDate  string           `json:"startDate" validate:"required"`
	EndDate    string           `json:"endDate" validate:"required"`
	Guests     int              `json:"guests" validate:"omitempty,min=1"`
	TotalPrice *decimal.Decimal `json:"totalPrice" validate:"required" swaggertype:"number"`
}

func (r CreateBookingRequest) toInput() (service.CreateBookingInput, error) {
	propertyID, err := uuid.Parse(r.Property)
	if err != nil {
		return service.CreateBookingInput{}, errors.Validation("property must be a valid id")
	}
	start, err := parseDate(r.StartDate)
	if err != nil {
		return service.CreateBookingInput{}, errors.Validation("startDate must be YYYY-MM-DD or RFC 3339")
	}
	end, err := parseDate(r.EndDate)
	if err != nil {
		return service.CreateBookingInput{}, errors.Validation("endDate must be YYYY-MM-DD or RFC 3339")
	}
	return service.CreateBookingInput{
		PropertyID: propertyID,
		StartDate:  start,
		EndDate:    end,
		Guests:     r.Guests,
		TotalPrice: r.TotalPrice,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}

// List godoc
// @Summary List the caller's bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Booking
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	bookings, err := h.bookingService.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, bookings)
}

// Create godoc
// @Summary Book a property
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBookingRequest true "Booking data"
// @Success 201 {object} model.Booking
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body", "INVALID_BODY")
	}
	if err := c.Validate(&req); err != nil {
		return errorResponse(err)
	}
	in, err := req.toInput()
	if err != nil {
		return errorResponse(err)
	}

	booking, err := h.bookingService.Create(c.Request().Context(), in, userID)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusCreated, booking)
}

// Cancel godoc
// @Summary Cancel a booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", errors.ErrBookingNotFound)
	if err != nil {
		return err
	}

	if err := h.bookingService.Cancel(c.Request().Context(), id, userID); err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Booking cancelled successfully"})
}
