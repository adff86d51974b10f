package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"luxestate/internal/errors"
	"luxestate/internal/model"
	"luxestate/internal/service"
)

// PropertyHandler handles property registry endpoints.
type PropertyHandler struct {
	propertyService service.PropertyService
}

// NewPropertyHandler creates a new property handler.
func NewPropertyHandler(propertyService service.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// CreatePropertyRequest represents a property listing request.
type CreatePropertyRequest struct {
	Title       string           `json:"title" validate:"required"`
	Description string           `json:"description" validate:"required"`
	Type        string           `json:"type" validate:"required"`
	Price       *decimal.Decimal `json:"price" validate:"required" swaggertype:"number"`
	Location    model.Location   `json:"location"`
	Features    model.Features   `json:"features"`
	Amenities   []string         `json:"amenities"`
	Images      []string         `json:"images"`
}

func (r CreatePropertyRequest) toModel() *model.Property {
	p := &model.Property{
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Type:        model.PropertyType(r.Type),
		Location:    r.Location,
		Features:    r.Features,
		Amenities:   r.Amenities,
		Images:      r.Images,
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if p.Amenities == nil {
		p.Amenities = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p
}

// List godoc
// @Summary List properties
// @Tags properties
// @Produce json
// @Param type query string false "Property type"
// @Param city query string false "City (case-insensitive substring)"
// @Param status query string false "Availability status"
// @Param minPrice query number false "Minimum price (inclusive)"
// @Param maxPrice query number false "Maximum price (inclusive)"
// @Success 200 {array} model.Property
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /properties [get]
func (h *PropertyHandler) List(c echo.Context) error {
	filter, err := parsePropertyFilter(c)
	if err != nil {
		return err
	}

	properties, err := h.propertyService.List(c.Request().Context(), filter)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, properties)
}

func parsePropertyFilter(c echo.Context) (model.PropertyFilter, error) {
	var filter model.PropertyFilter

	if v := c.QueryParam("type"); v != "" {
		t := model.PropertyType(v)
		filter.Type = &t
	}
	if v := c.QueryParam("status"); v != "" {
		s := model.PropertyStatus(v)
		filter.Status = &s
	}
	if v := strings.TrimSpace(c.QueryParam("city")); v != "" {
		filter.City = &v
	}
	for name, dst := range map[string]**decimal.Decimal{
		"minPrice": &filter.MinPrice,
		"maxPrice": &filter.MaxPrice,
	} {
		v := c.QueryParam(name)
		if v == "" {
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return filter, badRequest(name+" must be a number", "INVALID_QUERY")
		}
		*dst = &d
	}
	return filter, nil
}

// Get godoc
// @Summary Get a property
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} model.Property
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /properties/{id} [get]
func (h *PropertyHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id", errors.ErrPropertyNotFound)
	if err != nil {
		return err
	}

	property, err := h.propertyService.Get(c.Request().Context(), id)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, property)
}

// Create godoc
// @Summary List a new property
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePropertyRequest true "Property attributes"
// @Success 201 {object} model.Property
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /properties [post]
func (h *PropertyHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req CreatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body", "INVALID_BODY")
	}
	if err := c.Validate(&req); err != nil {
		return errorResponse(err)
	}

	created, err := h.propertyService.Create(c.Request().Context(), req.toModel(), userID)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Delete godoc
// @Summary Delete a property
// @Tags properties
// @Produce json
// @Security BearerAuth
// @Param id path string true "Property ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /properties/{id} [delete]
func (h *PropertyHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", errors.ErrPropertyNotFound)
	if err != nil {
		return err
	}

	if err := h.propertyService.Delete(c.Request().Context(), id, userID); err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Property deleted successfully"})
}
