package api

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tripgo/internal/models"
)

// FlightHandler serves the flight catalog endpoints.
type FlightHandler struct {
	repos  *Repos
	logger *zap.Logger
}

func NewFlightHandler(repos *Repos, logger *zap.Logger) *FlightHandler {
	return &FlightHandler{repos: repos, logger: logger}
}

// List returns flights with pagination and search.
func (h *FlightHandler) List(c echo.Context) error {
	limit, page, query := listParams(c)

	flights, total, err := h.repos.Flight.FindAll(limit, page, query)
	if err != nil {
		h.logger.Error("list flights failed", zap.Error(err))
		return errorResponse(c, "failed to list flights")
	}
	return successResponse(c, "ok", paginatedResponse(flights, total, page, limit))
}

// Get returns one flight by id.
func (h *FlightHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return errorResponse(c, "invalid id")
	}

	flight, err := h.repos.Flight.FindByID(id)
	if err != nil {
		return errorResponse(c, "flight not found")
	}
	return successResponse(c, "ok", flight)
}

// Create adds a new flight.
func (h *FlightHandler) Create(c echo.Context) error {
	var req models.FlightAddRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, "invalid request body")
	}
	if req.FlightNumber == "" || req.Airline == "" || req.Price <= 0 {
		return errorResponse(c, "flight_number, airline and price are required")
	}

	departAt, err := time.Parse(time.RFC3339, req.DepartAt)
	if err != nil {
		return errorResponse(c, "depart_at must be RFC3339")
	}
	arriveAt, err := time.Parse(time.RFC3339, req.ArriveAt)
	if err != nil {
		return errorResponse(c, "arrive_at must be RFC3339")
	}

	flight := &models.Flight{
		FlightNumber: req.FlightNumber,
		Airline:      req.Airline,
		Origin:       req.Origin,
		Destination:  req.Destination,
		DepartAt:     departAt,
		ArriveAt:     arriveAt,
		Price:        req.Price,
		SeatsTotal:   req.SeatsTotal,
		Status:       "scheduled",
	}
	if err := h.repos.Flight.Create(flight); err != nil {
		h.logger.Error("create flight failed", zap.Error(err))
		return errorResponse(c, "failed to create flight")
	}
	return successResponse(c, "flight created", flight)
}
