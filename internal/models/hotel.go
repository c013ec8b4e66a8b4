package models

import "time"

// Hotel maps to the `hotels` table.
type Hotel struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"column:name;size:255" json:"name"`
	City         string    `gorm:"column:city;size:100" json:"city"`
	Address      string    `gorm:"column:address;size:500" json:"address"`
	Stars        int       `gorm:"column:stars" json:"stars"`
	PricePerDay  int64     `gorm:"column:price_per_day" json:"price_per_day"`
	RoomsTotal   int       `gorm:"column:rooms_total" json:"rooms_total"`
	RoomsBooked  int       `gorm:"column:rooms_booked;default:0" json:"rooms_booked"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	Status       string    `gorm:"column:status;size:50;default:'active'" json:"status"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Hotel) TableName() string {
	return "hotels"
}
