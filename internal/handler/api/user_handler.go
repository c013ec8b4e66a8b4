package api

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tripgo/internal/models"
)

// UserHandler serves the user endpoints.
type UserHandler struct {
	repos  *Repos
	logger *zap.Logger
}

func NewUserHandler(repos *Repos, logger *zap.Logger) *UserHandler {
	return &UserHandler{repos: repos, logger: logger}
}

// List returns users with pagination and search.
func (h *UserHandler) List(c echo.Context) error {
	limit, page, query := listParams(c)

	users, total, err := h.repos.User.FindAll(limit, page, query)
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		return errorResponse(c, "failed to list users")
	}
	return successResponse(c, "ok", paginatedResponse(users, total, page, limit))
}

// Get returns one user by id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return errorResponse(c, "invalid id")
	}

	user, err := h.repos.User.FindByID(id)
	if err != nil {
		return errorResponse(c, "user not found")
	}
	return successResponse(c, "ok", user)
}

// Create adds a new user.
func (h *UserHandler) Create(c echo.Context) error {
	var req models.UserAddRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, "invalid request body")
	}
	if req.FullName == "" || req.Email == "" {
		return errorResponse(c, "full_name and email are required")
	}

	if existing, _ := h.repos.User.FindByEmail(req.Email); existing != nil {
		return errorResponse(c, "email already registered")
	}

	user := &models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Status:   "active",
	}
	if err := h.repos.User.Create(user); err != nil {
		h.logger.Error("create user failed", zap.Error(err))
		return errorResponse(c, "failed to create user")
	}
	return successResponse(c, "user created", user)
}

// Bookings returns the bookings of one user.
func (h *UserHandler) Bookings(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return errorResponse(c, "invalid id")
	}

	bookings, err := h.repos.Booking.FindByUserID(id)
	if err != nil {
		h.logger.Error("list user bookings failed", zap.Error(err))
		return errorResponse(c, "failed to list bookings")
	}
	return successResponse(c, "ok", bookings)
}
