package models

import "time"

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingExpired   = "expired"
)

// Booking service types.
const (
	ServiceTour   = "tour"
	ServiceFlight = "flight"
	ServiceHotel  = "hotel"
	ServiceCar    = "car"
	ServiceDriver = "driver"
)

// Booking maps to the `bookings` table. A booking holds one service of
// one type; Code is the user-facing reference.
type Booking struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Code        string    `gorm:"column:code;size:100;uniqueIndex" json:"code"`
	UserID      uint      `gorm:"column:user_id;index" json:"user_id"`
	ServiceType string    `gorm:"column:service_type;size:50" json:"service_type"`
	ServiceID   uint      `gorm:"column:service_id" json:"service_id"`
	Quantity    int       `gorm:"column:quantity;default:1" json:"quantity"`
	Amount      int64     `gorm:"column:amount" json:"amount"`
	Currency    string    `gorm:"column:currency;size:10;default:'VND'" json:"currency"`
	Status      string    `gorm:"column:status;size:50;default:'pending'" json:"status"`
	Note        string    `gorm:"column:note;size:500" json:"note"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Booking) TableName() string {
	return "bookings"
}
