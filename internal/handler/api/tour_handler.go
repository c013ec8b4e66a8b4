package api

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tripgo/internal/models"
)

// TourHandler serves the tour catalog endpoints.
type TourHandler struct {
	repos  *Repos
	logger *zap.Logger
}

func NewTourHandler(repos *Repos, logger *zap.Logger) *TourHandler {
	return &TourHandler{repos: repos, logger: logger}
}

// List returns tours with pagination and search.
func (h *TourHandler) List(c echo.Context) error {
	limit, page, query := listParams(c)

	tours, total, err := h.repos.Tour.FindAll(limit, page, query)
	if err != nil {
		h.logger.Error("list tours failed", zap.Error(err))
		return errorResponse(c, "failed to list tours")
	}
	return successResponse(c, "ok", paginatedResponse(tours, total, page, limit))
}

// Get returns one tour by id.
func (h *TourHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return errorResponse(c, "invalid id")
	}

	tour, err := h.repos.Tour.FindByID(id)
	if err != nil {
		return errorResponse(c, "tour not found")
	}
	return successResponse(c, "ok", tour)
}

// Create adds a new tour.
func (h *TourHandler) Create(c echo.Context) error {
	var req models.TourAddRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, "invalid request body")
	}
	if req.Name == "" || req.Destination == "" || req.Price <= 0 {
		return errorResponse(c, "name, destination and price are required")
	}

	departAt, err := time.Parse(time.RFC3339, req.DepartAt)
	if err != nil {
		return errorResponse(c, "depart_at must be RFC3339")
	}

	tour := &models.Tour{
		Name:        req.Name,
		Destination: req.Destination,
		Description: req.Description,
		DurationDay: req.DurationDay,
		Price:       req.Price,
		Capacity:    req.Capacity,
		DepartAt:    departAt,
		Status:      "active",
	}
	if err := h.repos.Tour.Create(tour); err != nil {
		h.logger.Error("create tour failed", zap.Error(err))
		return errorResponse(c, "failed to create tour")
	}
	return successResponse(c, "tour created", tour)
}
