package models

// --- Catalog request payloads ---

type ListRequest struct {
	Limit int    `query:"limit" json:"limit,omitempty"`
	Page  int    `query:"page" json:"page,omitempty"`
	Q     string `query:"q" json:"q,omitempty"`
}

type TourAddRequest struct {
	Name        string `json:"name"`
	Destination string `json:"destination"`
	Description string `json:"description,omitempty"`
	DurationDay int    `json:"duration_day"`
	Price       int64  `json:"price"`
	Capacity    int    `json:"capacity"`
	DepartAt    string `json:"depart_at"`
}

type FlightAddRequest struct {
	FlightNumber string `json:"flight_number"`
	Airline      string `json:"airline"`
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	DepartAt     string `json:"depart_at"`
	ArriveAt     string `json:"arrive_at"`
	Price        int64  `json:"price"`
	SeatsTotal   int    `json:"seats_total"`
}

type HotelAddRequest struct {
	Name        string `json:"name"`
	City        string `json:"city"`
	Address     string `json:"address,omitempty"`
	Stars       int    `json:"stars,omitempty"`
	PricePerDay int64  `json:"price_per_day"`
	RoomsTotal  int    `json:"rooms_total"`
	Description string `json:"description,omitempty"`
}

type CarAddRequest struct {
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	PlateNumber string `json:"plate_number"`
	Seats       int    `json:"seats"`
	PricePerDay int64  `json:"price_per_day"`
	City        string `json:"city"`
}

type DriverAddRequest struct {
	FullName      string `json:"full_name"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
	PricePerDay   int64  `json:"price_per_day"`
	City          string `json:"city"`
}

// --- Booking request payloads ---

type BookingCreateRequest struct {
	UserID      uint   `json:"user_id"`
	ServiceType string `json:"service_type"` // tour, flight, hotel, car, driver
	ServiceID   uint   `json:"service_id"`
	Quantity    int    `json:"quantity,omitempty"`
	Gateway     string `json:"gateway"` // vnpay, momo, zalopay, onepay
	Note        string `json:"note,omitempty"`
}

// BookingCreateResponse carries the redirect target for the chosen
// gateway next to the stored booking.
type BookingCreateResponse struct {
	Booking       *Booking `json:"booking"`
	TransactionID string   `json:"transaction_id"`
	PaymentURL    string   `json:"payment_url,omitempty"`
	QRCode        string   `json:"qr_code,omitempty"`
	Deeplink      string   `json:"deeplink,omitempty"`
}

type BookingCancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// --- User request payloads ---

type UserAddRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

// --- Payment request payloads ---

type RefundCreateRequest struct {
	Amount int64  `json:"amount,omitempty"` // zero means full refund
	Reason string `json:"reason,omitempty"`
}
