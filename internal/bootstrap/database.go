package bootstrap

import (
	"fmt"

	"gorm.io/gorm"

	"tripgo/internal/models"
)

// MigrateAndSeed ensures required tables exist and inserts baseline
// catalog rows into an empty database.
func MigrateAndSeed(db *gorm.DB) error {
	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	if err := seedDefaults(db); err != nil {
		return fmt.Errorf("seed defaults failed: %w", err)
	}
	return nil
}

func allModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Tour{},
		&models.Flight{},
		&models.Hotel{},
		&models.Car{},
		&models.Driver{},
		&models.Booking{},
		&models.PaymentTransaction{},
		&models.PaymentWebhookLog{},
	}
}

func seedDefaults(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Hotel{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hotels := []models.Hotel{
			{Name: "Riverside Saigon", City: "Ho Chi Minh City", Stars: 4, PricePerDay: 1200000, RoomsTotal: 80, Status: "active"},
			{Name: "Hanoi Old Quarter Inn", City: "Hanoi", Stars: 3, PricePerDay: 650000, RoomsTotal: 40, Status: "active"},
		}
		if err := tx.Create(&hotels).Error; err != nil {
			return err
		}

		cars := []models.Car{
			{Brand: "Toyota", Model: "Vios", PlateNumber: "51A-123.45", Seats: 4, PricePerDay: 700000, City: "Ho Chi Minh City", Status: "available"},
			{Brand: "Kia", Model: "Carnival", PlateNumber: "30A-678.90", Seats: 7, PricePerDay: 1400000, City: "Hanoi", Status: "available"},
		}
		return tx.Create(&cars).Error
	})
}
