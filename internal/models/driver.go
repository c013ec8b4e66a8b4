package models

import "time"

// Driver maps to the `drivers` table.
type Driver struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FullName      string    `gorm:"column:full_name;size:255" json:"full_name"`
	Phone         string    `gorm:"column:phone;size:50" json:"phone"`
	LicenseNumber string    `gorm:"column:license_number;size:100;uniqueIndex" json:"license_number"`
	PricePerDay   int64     `gorm:"column:price_per_day" json:"price_per_day"`
	City          string    `gorm:"column:city;size:100" json:"city"`
	Status        string    `gorm:"column:status;size:50;default:'available'" json:"status"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Driver) TableName() string {
	return "drivers"
}
