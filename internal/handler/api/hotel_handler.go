package api

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tripgo/internal/models"
)

// HotelHandler serves the hotel catalog endpoints.
type HotelHandler struct {
	repos  *Repos
	logger *zap.Logger
}

func NewHotelHandler(repos *Repos, logger *zap.Logger) *HotelHandler {
	return &HotelHandler{repos: repos, logger: logger}
}

// List returns hotels with pagination and search.
func (h *HotelHandler) List(c echo.Context) error {
	limit, page, query := listParams(c)

	hotels, total, err := h.repos.Hotel.FindAll(limit, page, query)
	if err != nil {
		h.logger.Error("list hotels failed", zap.Error(err))
		return errorResponse(c, "failed to list hotels")
	}
	return successResponse(c, "ok", paginatedResponse(hotels, total, page, limit))
}

// Get returns one hotel by id.
func (h *HotelHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return errorResponse(c, "invalid id")
	}

	hotel, err := h.repos.Hotel.FindByID(id)
	if err != nil {
		return errorResponse(c, "hotel not found")
	}
	return successResponse(c, "ok", hotel)
}

// Create adds a new hotel.
func (h *HotelHandler) Create(c echo.Context) error {
	var req models.HotelAddRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, "invalid request body")
	}
	if req.Name == "" || req.City == "" || req.PricePerDay <= 0 {
		return errorResponse(c, "name, city and price_per_day are required")
	}

	hotel := &models.Hotel{
		Name:        req.Name,
		City:        req.City,
		Address:     req.Address,
		Stars:       req.Stars,
		PricePerDay: req.PricePerDay,
		RoomsTotal:  req.RoomsTotal,
		Description: req.Description,
		Status:      "active",
	}
	if err := h.repos.Hotel.Create(hotel); err != nil {
		h.logger.Error("create hotel failed", zap.Error(err))
		return errorResponse(c, "failed to create hotel")
	}
	return successResponse(c, "hotel created", hotel)
}
