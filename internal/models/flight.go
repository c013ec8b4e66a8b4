package models

import "time"

// Flight maps to the `flights` table.
type Flight struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FlightNumber string    `gorm:"column:flight_number;size:50;uniqueIndex" json:"flight_number"`
	Airline      string    `gorm:"column:airline;size:255" json:"airline"`
	Origin       string    `gorm:"column:origin;size:100" json:"origin"`
	Destination  string    `gorm:"column:destination;size:100" json:"destination"`
	DepartAt     time.Time `gorm:"column:depart_at" json:"depart_at"`
	ArriveAt     time.Time `gorm:"column:arrive_at" json:"arrive_at"`
	Price        int64     `gorm:"column:price" json:"price"`
	SeatsTotal   int       `gorm:"column:seats_total" json:"seats_total"`
	SeatsSold    int       `gorm:"column:seats_sold;default:0" json:"seats_sold"`
	Status       string    `gorm:"column:status;size:50;default:'scheduled'" json:"status"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Flight) TableName() string {
	return "flights"
}
