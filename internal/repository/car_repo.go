package repository

import (
	"gorm.io/gorm"

	"tripgo/internal/models"
)

// CarRepository handles rental car database operations.
type CarRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) *CarRepository {
	return &CarRepository{db: db}
}

// FindAll returns cars with pagination and search.
func (r *CarRepository) FindAll(limit, page int, query string) ([]models.Car, int64, error) {
	var cars []models.Car
	var total int64

	db := r.db.Model(&models.Car{})

	if query != "" {
		search := "%" + query + "%"
		db = db.Where("brand LIKE ? OR model LIKE ? OR city LIKE ? OR plate_number LIKE ?",
			search, search, search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := normalizePage(limit, page)
	if err := db.Limit(limit).Offset(offset).Order("id DESC").Find(&cars).Error; err != nil {
		return nil, 0, err
	}
	return cars, total, nil
}

// FindByID returns a car by primary key.
func (r *CarRepository) FindByID(id uint) (*models.Car, error) {
	var car models.Car
	if err := r.db.First(&car, id).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

// Create creates a new car.
func (r *CarRepository) Create(car *models.Car) error {
	return r.db.Create(car).Error
}

// Update updates car fields.
func (r *CarRepository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Car{}).Where("id = ?", id).Updates(updates).Error
}

// Delete removes a car.
func (r *CarRepository) Delete(id uint) error {
	return r.db.Delete(&models.Car{}, id).Error
}
