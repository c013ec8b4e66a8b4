package repository

import (
	"gorm.io/gorm"

	"tripgo/internal/models"
)

// DriverRepository handles driver database operations.
type DriverRepository struct {
	db *gorm.DB
}

func NewDriverRepository(db *gorm.DB) *DriverRepository {
	return &DriverRepository{db: db}
}

// FindAll returns drivers with pagination and search.
func (r *DriverRepository) FindAll(limit, page int, query string) ([]models.Driver, int64, error) {
	var drivers []models.Driver
	var total int64

	db := r.db.Model(&models.Driver{})

	if query != "" {
		search := "%" + query + "%"
		db = db.Where("full_name LIKE ? OR city LIKE ? OR license_number LIKE ?",
			search, search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := normalizePage(limit, page)
	if err := db.Limit(limit).Offset(offset).Order("id DESC").Find(&drivers).Error; err != nil {
		return nil, 0, err
	}
	return drivers, total, nil
}

// FindByID returns a driver by primary key.
func (r *DriverRepository) FindByID(id uint) (*models.Driver, error) {
	var driver models.Driver
	if err := r.db.First(&driver, id).Error; err != nil {
		return nil, err
	}
	return &driver, nil
}

// Create creates a new driver.
func (r *DriverRepository) Create(driver *models.Driver) error {
	return r.db.Create(driver).Error
}

// Update updates driver fields.
func (r *DriverRepository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Driver{}).Where("id = ?", id).Updates(updates).Error
}

// Delete removes a driver.
func (r *DriverRepository) Delete(id uint) error {
	return r.db.Delete(&models.Driver{}, id).Error
}
