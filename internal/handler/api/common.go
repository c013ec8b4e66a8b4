package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tripgo/internal/models"
	"tripgo/internal/repository"
)

// Response helpers shared by all API handlers.
func successResponse(c echo.Context, msg string, obj interface{}) error {
	return c.JSON(http.StatusOK, models.APIResponse{
		Status: true,
		Msg:    msg,
		Obj:    obj,
	})
}

func errorResponse(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, models.APIResponse{
		Status: false,
		Msg:    msg,
		Obj:    nil,
	})
}

func paginatedResponse(data interface{}, total int64, page, limit int) models.PaginatedResponse {
	return models.PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		limit = 50
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return pages
}

// listParams reads limit/page/q query parameters with defaults.
func listParams(c echo.Context) (limit, page int, query string) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	return limit, page, c.QueryParam("q")
}

// pathID reads the :id path parameter.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// Repos bundles all repositories needed by API handlers.
type Repos struct {
	User    *repository.UserRepository
	Tour    *repository.TourRepository
	Flight  *repository.FlightRepository
	Hotel   *repository.HotelRepository
	Car     *repository.CarRepository
	Driver  *repository.DriverRepository
	Booking *repository.BookingRepository
	Payment *repository.PaymentRepository
}
