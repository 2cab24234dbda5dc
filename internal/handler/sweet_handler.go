package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"sweetshop/internal/errors"
	"sweetshop/internal/model"
	"sweetshop/internal/service"
)

// SweetHandler handles inventory endpoints.
type SweetHandler struct {
	sweetService service.SweetService
}

// NewSweetHandler creates a new sweet handler.
func NewSweetHandler(sweetService service.SweetService) *SweetHandler {
	return &SweetHandler{sweetService: sweetService}
}

// CreateSweetRequest represents a create request.
type CreateSweetRequest struct {
	Name     string          `json:"name" validate:"required"`
	Category string          `json:"category" validate:"required"`
	Price    decimal.Decimal `json:"price" validate:"required"`
	Quantity int             `json:"quantity" validate:"gte=0"`
	ImageURL *string         `json:"image_url"`
}

// UpdateSweetRequest represents a partial update. Omitted fields stay
// unchanged; an explicit null image_url clears the image.
type UpdateSweetRequest struct {
	Name     *string              `json:"name"`
	Category *string              `json:"category"`
	Price    *decimal.Decimal     `json:"price"`
	Quantity *int                 `json:"quantity" validate:"omitempty,gte=0"`
	ImageURL model.NullableString `json:"image_url"`
}

// RestockRequest represents a signed quantity adjustment. A negative delta is
// a sale, a positive one a restock.
type RestockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// MessageResponse is a minimal confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ListSweets godoc
// @Summary List sweets
// @Tags sweets
// @Produce json
// @Param category query string false "Exact category filter"
// @Param search query string false "Name substring filter"
// @Success 200 {array} model.Sweet
// @Failure 500 {object} errors.ErrorResponse
// @Router /sweets [get]
func (h *SweetHandler) ListSweets(c echo.Context) error {
	filter := model.SweetFilter{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
	}

	sweets, err := h.sweetService.List(c.Request().Context(), filter)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if sweets == nil {
		sweets = []model.Sweet{}
	}
	return c.JSON(http.StatusOK, sweets)
}

// GetSweet godoc
// @Summary Get a sweet by ID
// @Tags sweets
// @Produce json
// @Param id path string true "Sweet ID"
// @Success 200 {object} model.Sweet
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /sweets/{id} [get]
func (h *SweetHandler) GetSweet(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid sweet ID",
			Code:  "INVALID_UUID",
		})
	}

	sweet, err := h.sweetService.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, sweet)
}

// CreateSweet godoc
// @Summary Create a sweet
// @Tags sweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateSweetRequest true "Sweet data"
// @Success 201 {object} model.Sweet
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /sweets [post]
func (h *SweetHandler) CreateSweet(c echo.Context) error {
	var req CreateSweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	sweet, err := h.sweetService.Create(c.Request().Context(), service.CreateSweetInput{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, sweet)
}

// UpdateSweet godoc
// @Summary Partially update a sweet
// @Tags sweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sweet ID"
// @Param request body UpdateSweetRequest true "Fields to change"
// @Success 200 {object} model.Sweet
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /sweets/{id} [put]
func (h *SweetHandler) UpdateSweet(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid sweet ID",
			Code:  "INVALID_UUID",
		})
	}

	var req UpdateSweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	sweet, err := h.sweetService.Update(c.Request().Context(), id, model.SweetUpdate{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Quantity: req.Quantity,
		Image:    req.ImageURL,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, sweet)
}

// DeleteSweet godoc
// @Summary Delete a sweet
// @Tags sweets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sweet ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /sweets/{id} [delete]
func (h *SweetHandler) DeleteSweet(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid sweet ID",
			Code:  "INVALID_UUID",
		})
	}

	if err := h.sweetService.Delete(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "sweet deleted"})
}

// RestockSweet godoc
// @Summary Adjust the quantity of a sweet
// @Tags sweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sweet ID"
// @Param request body RestockRequest true "Signed quantity delta"
// @Success 200 {object} model.Sweet
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /sweets/{id}/restock [post]
func (h *SweetHandler) RestockSweet(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid sweet ID",
			Code:  "INVALID_UUID",
		})
	}

	var req RestockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	sweet, err := h.sweetService.AdjustQuantity(c.Request().Context(), id, req.Delta)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, sweet)
}
