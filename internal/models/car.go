package models

import "time"

// Car maps to the `cars` table.
type Car struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Brand       string    `gorm:"column:brand;size:100" json:"brand"`
	Model       string    `gorm:"column:model;size:100" json:"model"`
	PlateNumber string    `gorm:"column:plate_number;size:50;uniqueIndex" json:"plate_number"`
	Seats       int       `gorm:"column:seats" json:"seats"`
	PricePerDay int64     `gorm:"column:price_per_day" json:"price_per_day"`
	City        string    `gorm:"column:city;size:100" json:"city"`
	Status      string    `gorm:"column:status;size:50;default:'available'" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Car) TableName() string {
	return "cars"
}
