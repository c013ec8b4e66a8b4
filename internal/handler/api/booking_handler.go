package api

import (
	"encoding/json"
	"fmt"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tripgo/internal/models"
	"tripgo/internal/payment"
	"tripgo/internal/pkg/utils"
)

// BookingHandler serves booking endpoints and drives payment creation.
type BookingHandler struct {
	repos        *Repos
	orchestrator *payment.Orchestrator
	logger       *zap.Logger
}

func NewBookingHandler(repos *Repos, orchestrator *payment.Orchestrator, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{repos: repos, orchestrator: orchestrator, logger: logger}
}

// List returns bookings with pagination and search.
func (h *BookingHandler) List(c echo.Context) error {
	limit, page, query := listParams(c)

	bookings, total, err := h.repos.Booking.FindAll(limit, page, query)
	if err != nil {
		h.logger.Error("list bookings failed", zap.Error(err))
		return errorResponse(c, "failed to list bookings")
	}
	return successResponse(c, "ok", paginatedResponse(bookings, total, page, limit))
}

// Get returns one booking with its payment transactions.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return errorResponse(c, "invalid id")
	}

	booking, err := h.repos.Booking.FindByID(id)
	if err != nil {
		return errorResponse(c, "booking not found")
	}
	txns, _ := h.repos.Payment.FindByBookingID(booking.ID)

	return successResponse(c, "ok", map[string]interface{}{
		"booking":      booking,
		"transactions": txns,
	})
}

// Create validates the request, prices the service, initiates a payment
// on the chosen gateway and stores the booking with a pending
// transaction. The gateway check happens before anything is written so
// a misconfigured gateway leaves no orphan rows.
func (h *BookingHandler) Create(c echo.Context) error {
	var req models.BookingCreateRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, "invalid request body")
	}
	if req.UserID == 0 || req.ServiceID == 0 {
		return errorResponse(c, "user_id and service_id are required")
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	gw, ok := payment.ParseGateway(req.Gateway)
	if !ok {
		return errorResponse(c, "unknown payment gateway: "+req.Gateway)
	}
	if !h.orchestrator.IsAvailable(gw) {
		return errorResponse(c, fmt.Sprintf("payment gateway %s is not available (available: %v)",
			gw, h.orchestrator.AvailableGateways()))
	}

	user, err := h.repos.User.FindByID(req.UserID)
	if err != nil {
		return errorResponse(c, "user not found")
	}

	unitPrice, description, err := h.priceService(req.ServiceType, req.ServiceID)
	if err != nil {
		return errorResponse(c, err.Error())
	}

	booking := &models.Booking{
		Code:        utils.GenerateBookingCode(),
		UserID:      user.ID,
		ServiceType: req.ServiceType,
		ServiceID:   req.ServiceID,
		Quantity:    req.Quantity,
		Amount:      unitPrice * int64(req.Quantity),
		Currency:    "VND",
		Status:      models.BookingPending,
		Note:        req.Note,
	}
	if err := h.repos.Booking.Create(booking); err != nil {
		h.logger.Error("create booking failed", zap.Error(err))
		return errorResponse(c, "failed to create booking")
	}

	payReq := payment.PaymentRequest{
		BookingID:     booking.Code,
		UserID:        fmt.Sprintf("%d", user.ID),
		Amount:        booking.Amount,
		Currency:      booking.Currency,
		Description:   description,
		CustomerName:  user.FullName,
		CustomerEmail: user.Email,
		CustomerPhone: user.Phone,
		ClientIP:      c.RealIP(),
	}
	resp, err := h.orchestrator.CreatePayment(c.Request().Context(), payReq, gw)
	if err != nil {
		return errorResponse(c, err.Error())
	}
	if !resp.Success {
		h.logger.Warn("payment creation declined",
			zap.String("booking", booking.Code),
			zap.String("gateway", string(gw)),
			zap.String("error", resp.Error))
		_ = h.repos.Booking.UpdateStatus(booking.ID, models.BookingCancelled)
		return errorResponse(c, "payment creation failed: "+resp.Error)
	}

	rawResp, _ := json.Marshal(resp)
	txn := &models.PaymentTransaction{
		TransactionID:   resp.TransactionID,
		BookingID:       booking.ID,
		Gateway:         string(gw),
		Amount:          booking.Amount,
		Currency:        booking.Currency,
		Status:          string(payment.StatusPending),
		ProviderOrderID: resp.ProviderOrderID,
		PaymentURL:      resp.PaymentURL,
		RawResponse:     string(rawResp),
	}
	if err := h.repos.Payment.Create(txn); err != nil {
		h.logger.Error("persist payment transaction failed",
			zap.String("transaction_id", resp.TransactionID), zap.Error(err))
		return errorResponse(c, "failed to persist payment transaction")
	}

	return successResponse(c, "booking created", models.BookingCreateResponse{
		Booking:       booking,
		TransactionID: resp.TransactionID,
		PaymentURL:    resp.PaymentURL,
		QRCode:        resp.QRCode,
		Deeplink:      resp.Deeplink,
	})
}

// Cancel cancels a pending booking.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return errorResponse(c, "invalid id")
	}

	booking, err := h.repos.Booking.FindByID(id)
	if err != nil {
		return errorResponse(c, "booking not found")
	}
	if booking.Status != models.BookingPending {
		return errorResponse(c, "only pending bookings can be cancelled")
	}

	if err := h.repos.Booking.UpdateStatus(booking.ID, models.BookingCancelled); err != nil {
		h.logger.Error("cancel booking failed", zap.Error(err))
		return errorResponse(c, "failed to cancel booking")
	}
	return successResponse(c, "booking cancelled", nil)
}

// priceService resolves the unit price and a human description for the
// requested service.
func (h *BookingHandler) priceService(serviceType string, serviceID uint) (int64, string, error) {
	switch serviceType {
	case models.ServiceTour:
		tour, err := h.repos.Tour.FindByID(serviceID)
		if err != nil {
			return 0, "", fmt.Errorf("tour not found")
		}
		return tour.Price, "Tour: " + tour.Name, nil
	case models.ServiceFlight:
		flight, err := h.repos.Flight.FindByID(serviceID)
		if err != nil {
			return 0, "", fmt.Errorf("flight not found")
		}
		return flight.Price, "Flight: " + flight.FlightNumber, nil
	case models.ServiceHotel:
		hotel, err := h.repos.Hotel.FindByID(serviceID)
		if err != nil {
			return 0, "", fmt.Errorf("hotel not found")
		}
		return hotel.PricePerDay, "Hotel: " + hotel.Name, nil
	case models.ServiceCar:
		car, err := h.repos.Car.FindByID(serviceID)
		if err != nil {
			return 0, "", fmt.Errorf("car not found")
		}
		return car.PricePerDay, "Car: " + car.Brand + " " + car.Model, nil
	case models.ServiceDriver:
		driver, err := h.repos.Driver.FindByID(serviceID)
		if err != nil {
			return 0, "", fmt.Errorf("driver not found")
		}
		return driver.PricePerDay, "Driver: " + driver.FullName, nil
	}
	return 0, "", fmt.Errorf("unknown service type: %s", serviceType)
}
