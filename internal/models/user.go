package models

import "time"

// User maps to the `users` table.
type User struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FullName  string    `gorm:"column:full_name;size:255" json:"full_name"`
	Email     string    `gorm:"column:email;size:255;uniqueIndex" json:"email"`
	Phone     string    `gorm:"column:phone;size:50" json:"phone"`
	Status    string    `gorm:"column:status;size:50;default:'active'" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
