package api

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tripgo/internal/models"
)

// CarHandler serves the rental car catalog endpoints.
type CarHandler struct {
	repos  *Repos
	logger *zap.Logger
}

func NewCarHandler(repos *Repos, logger *zap.Logger) *CarHandler {
	return &CarHandler{repos: repos, logger: logger}
}

// List returns cars with pagination and search.
func (h *CarHandler) List(c echo.Context) error {
	limit, page, query := listParams(c)

	cars, total, err := h.repos.Car.FindAll(limit, page, query)
	if err != nil {
		h.logger.Error("list cars failed", zap.Error(err))
		return errorResponse(c, "failed to list cars")
	}
	return successResponse(c, "ok", paginatedResponse(cars, total, page, limit))
}

// Get returns one car by id.
func (h *CarHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return errorResponse(c, "invalid id")
	}

	car, err := h.repos.Car.FindByID(id)
	if err != nil {
		return errorResponse(c, "car not found")
	}
	return successResponse(c, "ok", car)
}

// Create adds a new car.
func (h *CarHandler) Create(c echo.Context) error {
	var req models.CarAddRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, "invalid request body")
	}
	if req.Brand == "" || req.PlateNumber == "" || req.PricePerDay <= 0 {
		return errorResponse(c, "brand, plate_number and price_per_day are required")
	}

	car := &models.Car{
		Brand:       req.Brand,
		Model:       req.Model,
		PlateNumber: req.PlateNumber,
		Seats:       req.Seats,
		PricePerDay: req.PricePerDay,
		City:        req.City,
		Status:      "available",
	}
	if err := h.repos.Car.Create(car); err != nil {
		h.logger.Error("create car failed", zap.Error(err))
		return errorResponse(c, "failed to create car")
	}
	return successResponse(c, "car created", car)
}
