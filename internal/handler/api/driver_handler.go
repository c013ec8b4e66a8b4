package api

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tripgo/internal/models"
)

// DriverHandler serves the driver catalog endpoints.
type DriverHandler struct {
	repos  *Repos
	logger *zap.Logger
}

func NewDriverHandler(repos *Repos, logger *zap.Logger) *DriverHandler {
	return &DriverHandler{repos: repos, logger: logger}
}

// List returns drivers with pagination and search.
func (h *DriverHandler) List(c echo.Context) error {
	limit, page, query := listParams(c)

	drivers, total, err := h.repos.Driver.FindAll(limit, page, query)
	if err != nil {
		h.logger.Error("list drivers failed", zap.Error(err))
		return errorResponse(c, "failed to list drivers")
	}
	return successResponse(c, "ok", paginatedResponse(drivers, total, page, limit))
}

// Get returns one driver by id.
func (h *DriverHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return errorResponse(c, "invalid id")
	}

	driver, err := h.repos.Driver.FindByID(id)
	if err != nil {
		return errorResponse(c, "driver not found")
	}
	return successResponse(c, "ok", driver)
}

// Create adds a new driver.
func (h *DriverHandler) Create(c echo.Context) error {
	var req models.DriverAddRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, "invalid request body")
	}
	if req.FullName == "" || req.LicenseNumber == "" || req.PricePerDay <= 0 {
		return errorResponse(c, "full_name, license_number and price_per_day are required")
	}

	driver := &models.Driver{
		FullName:      req.FullName,
		Phone:         req.Phone,
		LicenseNumber: req.LicenseNumber,
		PricePerDay:   req.PricePerDay,
		City:          req.City,
		Status:        "available",
	}
	if err := h.repos.Driver.Create(driver); err != nil {
		h.logger.Error("create driver failed", zap.Error(err))
		return errorResponse(c, "failed to create driver")
	}
	return successResponse(c, "driver created", driver)
}
