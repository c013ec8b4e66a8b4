package models

import "time"

// Tour maps to the `tours` table.
type Tour struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;size:255" json:"name"`
	Destination string    `gorm:"column:destination;size:255" json:"destination"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	DurationDay int       `gorm:"column:duration_day" json:"duration_day"`
	Price       int64     `gorm:"column:price" json:"price"`
	Capacity    int       `gorm:"column:capacity" json:"capacity"`
	DepartAt    time.Time `gorm:"column:depart_at" json:"depart_at"`
	Status      string    `gorm:"column:status;size:50;default:'active'" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Tour) TableName() string {
	return "tours"
}
